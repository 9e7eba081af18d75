package bearer

import (
	"context"

	"github.com/dmitrymomot/hseal/pkg/token"
)

type contextKey struct{ name string }

func (c contextKey) String() string { return c.name }

var payloadContextKey = &contextKey{name: "hseal_payload"}

// WithPayload stores a verified payload in ctx.
func WithPayload(ctx context.Context, p *token.Payload) context.Context {
	return context.WithValue(ctx, payloadContextKey, p)
}

// PayloadFromContext returns the payload stored by the middleware.
func PayloadFromContext(ctx context.Context) (*token.Payload, bool) {
	p, ok := ctx.Value(payloadContextKey).(*token.Payload)
	return p, ok && p != nil
}
