// Package events fans order notifications out to interested sinks.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/AndreyPae/storefront/models"
)

const OrderPlaced = "order.placed"

type Event struct {
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Order      *models.Order `json:"order"`
}

// NewOrderPlaced wraps a freshly created order.
func NewOrderPlaced(order *models.Order) Event {
	return Event{Type: OrderPlaced, OccurredAt: time.Now(), Order: order}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every sink and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
