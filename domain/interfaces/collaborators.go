package interfaces

import (
	"context"

	"element_grab/domain/entities"
)

// Describer turns an element into the text a grab delivers
type Describer interface {
	// Describe must not mutate the page
	Describe(ctx context.Context, element entities.Element) (string, error)
}

// DescriberFunc adapts a function to Describer
type DescriberFunc func(ctx context.Context, element entities.Element) (string, error)

// Describe - calls f
func (f DescriberFunc) Describe(ctx context.Context, element entities.Element) (string, error) {
	return f(ctx, element)
}

// Deliverer hands grabbed text to its destination, clipboard style
type Deliverer interface {
	Deliver(ctx context.Context, text string) error
}

// DelivererFunc adapts a function to Deliverer
type DelivererFunc func(ctx context.Context, text string) error

// Deliver - calls f
func (f DelivererFunc) Deliver(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Adapter opens grabbed text in an external tool
type Adapter interface {
	Name() string
	Open(ctx context.Context, text string) error
}
