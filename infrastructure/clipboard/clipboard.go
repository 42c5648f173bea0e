// Package clipboard delivers grabbed text to the system clipboard, falling back
// to the page's own clipboard when the process has no display access.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	atotto "github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
	designclip "golang.design/x/clipboard"
)

// Writer is one way of putting text on a clipboard
type Writer interface {
	Name() string
	Write(ctx context.Context, text string) error
}

// PageClipboard is the page-side clipboard of a browser host
type PageClipboard interface {
	CopyText(ctx context.Context, text string) error
}

// Deliverer tries its writers in order until one succeeds
type Deliverer struct {
	writers []Writer
	logger  *logrus.Logger
	// writeMu serializes writes so parallel grabs cannot interleave
	writeMu sync.Mutex
}

// New - returns the default chain: native clipboard, clipboard utilities, then the page
func New(page PageClipboard, logger *logrus.Logger) *Deliverer {
	writers := []Writer{&nativeWriter{}, utilityWriter{}}
	if page != nil {
		writers = append(writers, pageWriter{page: page})
	}
	return NewChain(logger, writers...)
}

// NewChain - returns a deliverer over the given writers
func NewChain(logger *logrus.Logger, writers ...Writer) *Deliverer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Deliverer{writers: writers, logger: logger}
}

// Deliver - writes text with the first writer that succeeds
func (d *Deliverer) Deliver(ctx context.Context, text string) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	var errs []error
	for _, w := range d.writers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Write(ctx, text); err != nil {
			d.logger.WithError(err).WithField("writer", w.Name()).Debug("clipboard writer failed")
			errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
			continue
		}
		d.logger.WithField("writer", w.Name()).Debug("copied to clipboard")
		return nil
	}
	if len(errs) == 0 {
		return errors.New("no clipboard writer configured")
	}
	return fmt.Errorf("failed to copy to clipboard: %w", errors.Join(errs...))
}

// nativeWriter uses the platform clipboard API directly
type nativeWriter struct {
	once    sync.Once
	initErr error
}

func (w *nativeWriter) Name() string { return "native" }

func (w *nativeWriter) Write(ctx context.Context, text string) error {
	w.once.Do(func() {
		w.initErr = designclip.Init()
	})
	if w.initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", w.initErr)
	}
	designclip.Write(designclip.FmtText, []byte(text))
	return nil
}

// utilityWriter shells out to pbcopy, xclip, xsel or clip.exe
type utilityWriter struct{}

func (utilityWriter) Name() string { return "utility" }

func (utilityWriter) Write(ctx context.Context, text string) error {
	if atotto.Unsupported {
		return errors.New("no clipboard utility found")
	}
	return atotto.WriteAll(text)
}

type pageWriter struct {
	page PageClipboard
}

func (pageWriter) Name() string { return "page" }

func (w pageWriter) Write(ctx context.Context, text string) error {
	return w.page.CopyText(ctx, text)
}
