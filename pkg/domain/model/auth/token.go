package auth

import (
	"context"
	"errors"
	"time"
)

// Token is an authenticated principal. Sub holds the username.
type Token struct {
	Sub       string
	ExpiresAt time.Time
}

// NewToken creates a token for the given username
func NewToken(sub string, expiresAt time.Time) *Token {
	return &Token{
		Sub:       sub,
		ExpiresAt: expiresAt,
	}
}

// IsExpired reports whether the token is past its expiration. A zero
// expiration never expires.
func (t *Token) IsExpired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

type ctxTokenKey struct{}

// ErrNoTokenInContext is returned when no token is stored in the context
var ErrNoTokenInContext = errors.New("no auth token in context")

// ContextWithToken stores token in ctx
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext returns the token stored in ctx
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, ErrNoTokenInContext
	}
	return token, nil
}
