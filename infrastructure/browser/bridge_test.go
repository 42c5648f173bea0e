package browser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"element_grab/domain/entities"
)

type recordedCall struct {
	method string
	args   []interface{}
}

type fakeCaller struct {
	calls   []recordedCall
	results map[string]interface{}
	err     error
}

func (f *fakeCaller) call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return f.results[method], nil
}

func TestElementsFromPointDecodesScriptResult(t *testing.T) {
	caller := &fakeCaller{results: map[string]interface{}{
		"elementsFromPoint": []interface{}{
			map[string]interface{}{
				"id":    "eg-1",
				"tag":   "DIV",
				"rect":  map[string]interface{}{"x": 10.0, "y": 20.0, "width": 30.5, "height": 40.0},
				"style": map[string]interface{}{"display": "block", "visibility": "visible", "opacity": "1", "pointerEvents": "none", "borderRadius": "4px", "transform": "none"},
				"owned": false,
			},
			map[string]interface{}{
				"id":       "eg-2",
				"tag":      "BUTTON",
				"disabled": true,
				"owned":    true,
			},
		},
	}}
	bridge := pageBridge{caller: caller}

	elements, err := bridge.ElementsFromPoint(context.Background(), 15, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	first := elements[0]
	if first.ID != "eg-1" || first.Rect.Width != 30.5 || first.Style.PointerEvents != "none" || first.Style.BorderRadius != "4px" {
		t.Errorf("unexpected first element %+v", first)
	}
	if !elements[1].Disabled || !elements[1].Owned {
		t.Errorf("unexpected second element %+v", elements[1])
	}
	if got := caller.calls[0]; got.method != "elementsFromPoint" || got.args[0] != 15.0 || got.args[1] != 25.0 {
		t.Errorf("unexpected call %+v", got)
	}
}

func TestElementsFromPointWithoutScript(t *testing.T) {
	bridge := pageBridge{caller: &fakeCaller{}}

	if _, err := bridge.ElementsFromPoint(context.Background(), 0, 0); !errors.Is(err, errScriptMissing) {
		t.Errorf("expected errScriptMissing, got %v", err)
	}
}

func TestDrawCommandsUseScriptFieldNames(t *testing.T) {
	caller := &fakeCaller{}
	bridge := pageBridge{caller: caller}

	err := bridge.DrawSelection(context.Background(), entities.Selection{
		Geometry:    entities.Geometry{X: 1, Y: 2, Width: 3, Height: 4, BorderRadius: "0px", Transform: "none"},
		Visible:     true,
		Interactive: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arg, ok := caller.calls[0].args[0].(map[string]interface{})
	if !ok {
		t.Fatalf("expected map argument, got %T", caller.calls[0].args[0])
	}
	if arg["visible"] != true || arg["interactive"] != true {
		t.Errorf("unexpected selection argument %v", arg)
	}
	geometry, _ := arg["geometry"].(map[string]interface{})
	if geometry["width"] != 3.0 || geometry["borderRadius"] != "0px" {
		t.Errorf("unexpected geometry argument %v", geometry)
	}
}

func TestDescribe(t *testing.T) {
	caller := &fakeCaller{results: map[string]interface{}{"describe": "<div>hi</div>"}}
	bridge := pageBridge{caller: caller}

	text, err := bridge.Describe(context.Background(), entities.Element{ID: "eg-7"})
	if err != nil || text != "<div>hi</div>" {
		t.Errorf("unexpected describe result %q, %v", text, err)
	}
	if caller.calls[0].args[0] != "eg-7" {
		t.Errorf("expected describe by id, got %v", caller.calls[0].args)
	}

	caller.err = errors.New("element eg-7 is no longer attached")
	if _, err := bridge.Describe(context.Background(), entities.Element{ID: "eg-7"}); err == nil {
		t.Errorf("expected error for a detached element")
	}
}

func TestCopyTextRejected(t *testing.T) {
	bridge := pageBridge{caller: &fakeCaller{results: map[string]interface{}{"copyText": false}}}

	if err := bridge.CopyText(context.Background(), "x"); err == nil {
		t.Errorf("expected error when the page refuses the write")
	}
}

func TestDecodeBatch(t *testing.T) {
	batch, err := decodeBatch(map[string]interface{}{
		"doc": "abc",
		"seq": 3.0,
		"events": []interface{}{
			map[string]interface{}{
				"type": "keydown",
				"key": map[string]interface{}{
					"key": "Meta", "code": "MetaLeft", "composed": true,
					"target":     map[string]interface{}{"tag": "BODY", "role": ""},
					"pathTarget": map[string]interface{}{"tag": "INPUT", "role": ""},
				},
			},
			map[string]interface{}{"type": "mousedown", "mouse": map[string]interface{}{"x": 5.0, "y": 6.0, "button": 0.0}},
			map[string]interface{}{"type": "visibilitychange", "hidden": true},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Doc != "abc" || batch.Seq != 3 || len(batch.Events) != 3 {
		t.Fatalf("unexpected batch %+v", batch)
	}
	key := batch.Events[0]
	if key.Kind != entities.EventKeyDown || key.Key.Code != "MetaLeft" || key.Key.PathTarget.Tag != "INPUT" || !key.Key.Composed {
		t.Errorf("unexpected key event %+v", key.Key)
	}
	if m := batch.Events[1].Mouse; m == nil || m.X != 5 || m.Button != entities.PrimaryButton {
		t.Errorf("unexpected mouse event %+v", m)
	}
	if !batch.Events[2].Hidden {
		t.Errorf("expected hidden visibility event")
	}

	if _, err := decodeBatch(nil); !errors.Is(err, errScriptMissing) {
		t.Errorf("expected errScriptMissing for nil result, got %v", err)
	}
}

func TestIsClosedErr(t *testing.T) {
	if !isClosedErr(errors.New("Target page, context or browser has been closed")) {
		t.Errorf("expected closed error to be recognized")
	}
	if isClosedErr(errors.New("timeout")) || isClosedErr(nil) {
		t.Errorf("unexpected closed classification")
	}
}

func TestViewportDefaults(t *testing.T) {
	if (Options{}).viewportWidth() != 1280 || (Options{ViewportHeight: 900}).viewportHeight() != 900 {
		t.Errorf("unexpected viewport defaults")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(Options{Driver: "lynx"}, nil); err == nil {
		t.Errorf("expected error for unknown driver")
	}
}

func TestDecodeBatchKeepsMissingAndEmptyCodesApart(t *testing.T) {
	batch, err := decodeBatch(map[string]interface{}{
		"doc": "abc",
		"seq": 1.0,
		"events": []interface{}{
			map[string]interface{}{"type": "keydown", "key": map[string]interface{}{"key": "Process", "code": ""}},
			map[string]interface{}{"type": "keydown", "key": map[string]interface{}{"key": "Unidentified", "code": "", "noCode": true}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Events[0].Key.NoCode {
		t.Errorf("empty code must not count as missing")
	}
	if !batch.Events[1].Key.NoCode {
		t.Errorf("missing code was lost")
	}
}

func TestPageScriptClampsPillsToViewport(t *testing.T) {
	for _, want := range []string{
		"const VIEWPORT_MARGIN_PX = 8;",
		"const LABEL_OFFSET_PX = 6;",
		"window.innerWidth - rect.width - VIEWPORT_MARGIN_PX",
		"window.innerHeight - rect.height - VIEWPORT_MARGIN_PX",
		"placePill(el, label.x, label.y)",
		"placePill(el, ind.geometry.x, ind.geometry.y)",
		"noCode: e.code === undefined",
	} {
		if !strings.Contains(pageScript, want) {
			t.Errorf("page script is missing %q", want)
		}
	}
}
