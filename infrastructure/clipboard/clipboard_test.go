package clipboard

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeWriter struct {
	name    string
	err     error
	written []string
}

func (w *fakeWriter) Name() string { return w.name }

func (w *fakeWriter) Write(ctx context.Context, text string) error {
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, text)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestDeliverFallsBackInOrder(t *testing.T) {
	native := &fakeWriter{name: "native", err: errors.New("no display")}
	utility := &fakeWriter{name: "utility"}
	page := &fakeWriter{name: "page"}

	d := NewChain(quietLogger(), native, utility, page)
	if err := d.Deliver(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(utility.written) != 1 || utility.written[0] != "hello" {
		t.Errorf("expected utility writer to receive the text, got %v", utility.written)
	}
	if len(page.written) != 0 {
		t.Errorf("page writer must not be used after a success")
	}
}

func TestDeliverReportsEveryFailure(t *testing.T) {
	d := NewChain(quietLogger(),
		&fakeWriter{name: "native", err: errors.New("no display")},
		&fakeWriter{name: "page", err: errors.New("insecure context")},
	)

	err := d.Deliver(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error when every writer fails")
	}
	for _, part := range []string{"native: no display", "page: insecure context"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("expected %q in %q", part, err.Error())
		}
	}
}

func TestDeliverWithoutWriters(t *testing.T) {
	if err := NewChain(nil).Deliver(context.Background(), "x"); err == nil {
		t.Errorf("expected error without writers")
	}
}

func TestDeliverHonorsCancelledContext(t *testing.T) {
	w := &fakeWriter{name: "native"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewChain(quietLogger(), w).Deliver(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(w.written) != 0 {
		t.Errorf("writer used after cancellation")
	}
}

type fakePage struct {
	copied string
}

func (p *fakePage) CopyText(ctx context.Context, text string) error {
	p.copied = text
	return nil
}

func TestNewAppendsPageWriterLast(t *testing.T) {
	d := New(&fakePage{}, quietLogger())
	names := make([]string, 0, len(d.writers))
	for _, w := range d.writers {
		names = append(names, w.Name())
	}
	if strings.Join(names, ",") != "native,utility,page" {
		t.Errorf("unexpected writer order %v", names)
	}

	page := &fakePage{}
	if err := (pageWriter{page: page}).Write(context.Background(), "x"); err != nil || page.copied != "x" {
		t.Errorf("page writer did not copy: %q %v", page.copied, err)
	}
}
