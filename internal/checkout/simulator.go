// Package checkout simulates order submission. There is no payment provider and nothing is
// persisted; a confirmation is issued after a fixed delay.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cart"
)

// DefaultDelay approximates a payment round trip.
const DefaultDelay = 1500 * time.Millisecond

const orderPrefix = "RF-"

// ErrEmptyCart is returned when an order has no lines.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Confirmation is issued for a placed order.
type Confirmation struct {
	OrderNumber string
	Items       int
	Subtotal    decimal.Decimal
	Total       decimal.Decimal
	Currency    cart.Currency
	PlacedAt    time.Time
}

// Simulator places orders without contacting anything.
type Simulator struct {
	delay time.Duration
	newID func() string
	now   func() time.Time
}

// Option customises a Simulator.
type Option func(*Simulator)

// WithDelay overrides the simulated latency.
func WithDelay(d time.Duration) Option {
	return func(s *Simulator) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithIDGenerator overrides order number generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Simulator) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option {
	return func(s *Simulator) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewSimulator constructs a Simulator.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		delay: DefaultDelay,
		newID: func() string { return ulid.Make().String() },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place submits the order captured in snap. Cancelling ctx before the delay elapses aborts
// the order.
func (s *Simulator) Place(ctx context.Context, snap cart.Snapshot) (Confirmation, error) {
	if snap.Empty() {
		return Confirmation{}, ErrEmptyCart
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Confirmation{}, ctx.Err()
	case <-timer.C:
	}

	currency := snap.Currency
	if currency == "" {
		currency = cart.DefaultCurrency
	}
	return Confirmation{
		OrderNumber: orderPrefix + strings.ToUpper(s.newID()),
		Items:       snap.Count,
		Subtotal:    snap.Subtotal,
		Total:       currency.Convert(snap.Subtotal),
		Currency:    currency,
		PlacedAt:    s.now().UTC(),
	}, nil
}
