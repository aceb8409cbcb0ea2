package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/lexdesk/casework/pkg/domain/model/auth"
	"github.com/m-mizutani/gt"
)

func TestTokenContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		token := auth.NewToken("alice", time.Now().Add(time.Hour))
		ctx := auth.ContextWithToken(context.Background(), token)

		got, err := auth.TokenFromContext(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Sub).Equal("alice")
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := auth.TokenFromContext(context.Background())
		gt.Error(t, err).Is(auth.ErrNoTokenInContext)
	})
}

func TestTokenIsExpired(t *testing.T) {
	gt.B(t, auth.NewToken("a", time.Now().Add(-time.Minute)).IsExpired()).True()
	gt.B(t, auth.NewToken("a", time.Now().Add(time.Minute)).IsExpired()).False()
	gt.B(t, auth.NewToken("a", time.Time{}).IsExpired()).False()
}
