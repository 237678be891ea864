package cart

import "context"

type ctxKey struct{}

// WithStore attaches the session's cart to ctx.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the attached cart. It panics when no store was attached, since that
// means the cart middleware is not wired in front of the caller.
func FromContext(ctx context.Context) *Store {
	if s, ok := ctx.Value(ctxKey{}).(*Store); ok && s != nil {
		return s
	}
	panic("cart: FromContext called without a cart store in context")
}
