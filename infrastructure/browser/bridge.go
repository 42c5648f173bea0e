package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"element_grab/domain/entities"
)

// errScriptMissing is returned when the page has not installed the page script yet
var errScriptMissing = errors.New("page script not installed")

// scriptCaller invokes a method of window.__elementGrab; a nil result with a nil
// error means the script is not installed on the current document
type scriptCaller interface {
	call(ctx context.Context, method string, args ...interface{}) (interface{}, error)
}

// pageBridge implements the page-facing half of interfaces.Browser on top of the page script
type pageBridge struct {
	caller scriptCaller
}

// ElementsFromPoint - returns the element stack at a viewport point, topmost first
func (b *pageBridge) ElementsFromPoint(ctx context.Context, x, y float64) ([]entities.Element, error) {
	result, err := b.caller.call(ctx, "elementsFromPoint", x, y)
	if err != nil {
		return nil, fmt.Errorf("failed to hit test: %w", err)
	}
	if result == nil {
		return nil, errScriptMissing
	}
	var elements []entities.Element
	if err := decodeInto(result, &elements); err != nil {
		return nil, fmt.Errorf("failed to decode element stack: %w", err)
	}
	return elements, nil
}

// DrawSelection - draws or hides the hover highlight
func (b *pageBridge) DrawSelection(ctx context.Context, selection entities.Selection) error {
	return b.draw(ctx, "drawSelection", selection)
}

// DrawLabel - draws or hides the tag label
func (b *pageBridge) DrawLabel(ctx context.Context, label entities.Label) error {
	return b.draw(ctx, "drawLabel", label)
}

// DrawProgress - draws or hides the hold progress bar
func (b *pageBridge) DrawProgress(ctx context.Context, progress entities.Progress) error {
	return b.draw(ctx, "drawProgress", progress)
}

// DrawIndicator - draws, updates or removes a grab indicator
func (b *pageBridge) DrawIndicator(ctx context.Context, indicator entities.Indicator) error {
	return b.draw(ctx, "drawIndicator", indicator)
}

// SetMode - tells the page script which clicks to suppress
func (b *pageBridge) SetMode(ctx context.Context, mode entities.OverlayMode) error {
	if _, err := b.caller.call(ctx, "setMode", string(mode)); err != nil {
		return fmt.Errorf("failed to set overlay mode: %w", err)
	}
	return nil
}

// Describe - returns an HTML snippet of the element
func (b *pageBridge) Describe(ctx context.Context, element entities.Element) (string, error) {
	result, err := b.caller.call(ctx, "describe", element.ID)
	if err != nil {
		return "", fmt.Errorf("failed to describe %s: %w", element.ID, err)
	}
	text, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("failed to describe %s: %w", element.ID, errScriptMissing)
	}
	return text, nil
}

// CopyText - writes text through the page clipboard
func (b *pageBridge) CopyText(ctx context.Context, text string) error {
	result, err := b.caller.call(ctx, "copyText", text)
	if err != nil {
		return fmt.Errorf("failed to copy text in page: %w", err)
	}
	if ok, isBool := result.(bool); isBool && !ok {
		return errors.New("page clipboard rejected the write")
	}
	return nil
}

// OpenURL - opens url in a new window of the page
func (b *pageBridge) OpenURL(ctx context.Context, url string) error {
	if _, err := b.caller.call(ctx, "openURL", url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

func (b *pageBridge) draw(ctx context.Context, method string, value interface{}) error {
	arg, err := toArg(value)
	if err != nil {
		return err
	}
	if _, err := b.caller.call(ctx, method, arg); err != nil {
		return fmt.Errorf("failed to %s: %w", method, err)
	}
	return nil
}

// toArg converts a tagged struct into the plain map form script arguments need
func toArg(value interface{}) (interface{}, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode script argument: %w", err)
	}
	var arg interface{}
	if err := json.Unmarshal(data, &arg); err != nil {
		return nil, fmt.Errorf("failed to encode script argument: %w", err)
	}
	return arg, nil
}

// decodeInto converts a script result into out through its JSON form
func decodeInto(result interface{}, out interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// eventBatch is the payload the page script emits or drains
type eventBatch struct {
	Doc    string           `json:"doc"`
	Seq    int              `json:"seq"`
	Events []entities.Event `json:"events"`
}

func decodeBatch(result interface{}) (eventBatch, error) {
	var batch eventBatch
	if result == nil {
		return batch, errScriptMissing
	}
	if err := decodeInto(result, &batch); err != nil {
		return batch, fmt.Errorf("failed to decode events: %w", err)
	}
	return batch, nil
}

// isClosedErr reports errors of a browser or page that is already gone
func isClosedErr(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}
