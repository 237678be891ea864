// Package newsletter simulates the footer subscription form. Nothing leaves the process.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
)

// DefaultDelay mirrors the latency of a real subscription call.
const DefaultDelay = time.Second

var (
	// ErrInvalidEmail is returned when the address fails validation.
	ErrInvalidEmail = errors.New("newsletter: invalid email")
	// ErrInFlight is returned when the same visitor submits again before the first call settles.
	ErrInFlight = errors.New("newsletter: subscription already in flight")
)

// Receipt confirms a completed subscription.
type Receipt struct {
	ID           string
	Email        string
	SubscribedAt time.Time
}

// Service runs simulated subscriptions, at most one per key at a time.
type Service struct {
	delay    time.Duration
	validate *validator.Validate
	newID    func() string
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]*Task
}

// Option customises a Service.
type Option func(*Service)

// WithDelay overrides the simulated latency.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithIDGenerator overrides receipt id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source stamped on receipts.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		delay:    DefaultDelay,
		validate: validator.New(),
		newID:    func() string { return ulid.Make().String() },
		now:      time.Now,
		pending:  map[string]*Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Task is one pending subscription.
type Task struct {
	done    chan struct{}
	cancel  context.CancelFunc
	receipt Receipt
	err     error
}

// Start validates email and begins a subscription for key. A second Start for the same key
// fails with ErrInFlight until the first settles.
func (s *Service) Start(key, email string) (*Task, error) {
	email = strings.TrimSpace(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	s.mu.Lock()
	if _, busy := s.pending[key]; busy {
		s.mu.Unlock()
		return nil, ErrInFlight
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{done: make(chan struct{}), cancel: cancel}
	s.pending[key] = t
	s.mu.Unlock()

	go s.run(ctx, key, email, t)
	return t, nil
}

// Pending reports whether key has a subscription in flight.
func (s *Service) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// Submit starts a subscription and waits for it. Cancelling ctx aborts the subscription.
func (s *Service) Submit(ctx context.Context, key, email string) (Receipt, error) {
	t, err := s.Start(key, email)
	if err != nil {
		return Receipt{}, err
	}
	r, err := t.Wait(ctx)
	if err != nil {
		t.Cancel()
	}
	return r, err
}

func (s *Service) run(ctx context.Context, key, email string, t *Task) {
	defer func() {
		s.mu.Lock()
		delete(s.pending, key)
		s.mu.Unlock()
		t.cancel()
		close(t.done)
	}()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		t.err = ctx.Err()
		return
	case <-timer.C:
	}
	t.receipt = Receipt{ID: s.newID(), Email: email, SubscribedAt: s.now().UTC()}
}

// Wait blocks until the subscription settles or ctx is done. Giving up on ctx leaves the
// task running.
func (t *Task) Wait(ctx context.Context) (Receipt, error) {
	select {
	case <-t.done:
		return t.receipt, t.err
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	}
}

// Cancel aborts the subscription. It is safe to call more than once.
func (t *Task) Cancel() { t.cancel() }

// Done is closed once the task settles.
func (t *Task) Done() <-chan struct{} { return t.done }
