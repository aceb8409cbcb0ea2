package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/lexdesk/casework/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestAuthUseCase(t *testing.T) {
	ctx := context.Background()
	secret := []byte("0123456789abcdef0123456789abcdef")
	uc := usecase.NewAuthUseCase(secret, usecase.WithIssuer("casework"), usecase.WithTokenTTL(time.Hour))

	gt.Bool(t, uc.IsNoAuthn()).False()

	t.Run("issued token validates", func(t *testing.T) {
		raw, err := uc.IssueToken(ctx, "alice")
		gt.NoError(t, err).Required()

		token, err := uc.ValidateToken(ctx, raw)
		gt.NoError(t, err).Required()
		gt.Value(t, token.Sub).Equal("alice")
		gt.Bool(t, token.IsExpired()).False()
	})

	t.Run("empty username cannot be issued", func(t *testing.T) {
		_, err := uc.IssueToken(ctx, "")
		gt.Error(t, err).Is(usecase.ErrInvalidRequest)
	})

	t.Run("missing token is forbidden", func(t *testing.T) {
		_, err := uc.ValidateToken(ctx, "")
		gt.Error(t, err).Is(usecase.ErrForbidden)
	})

	t.Run("garbage token is forbidden", func(t *testing.T) {
		_, err := uc.ValidateToken(ctx, "not-a-jwt")
		gt.Error(t, err).Is(usecase.ErrForbidden)
	})

	t.Run("token signed with another key is forbidden", func(t *testing.T) {
		other := usecase.NewAuthUseCase([]byte("another-secret-another-secret-00"), usecase.WithIssuer("casework"))
		raw, err := other.IssueToken(ctx, "alice")
		gt.NoError(t, err).Required()

		_, err = uc.ValidateToken(ctx, raw)
		gt.Error(t, err).Is(usecase.ErrForbidden)
	})

	t.Run("token from another issuer is forbidden", func(t *testing.T) {
		other := usecase.NewAuthUseCase(secret, usecase.WithIssuer("someone-else"))
		raw, err := other.IssueToken(ctx, "alice")
		gt.NoError(t, err).Required()

		_, err = uc.ValidateToken(ctx, raw)
		gt.Error(t, err).Is(usecase.ErrForbidden)
	})

	t.Run("expired token is forbidden", func(t *testing.T) {
		expired := usecase.NewAuthUseCase(secret, usecase.WithIssuer("casework"), usecase.WithTokenTTL(-time.Minute))
		raw, err := expired.IssueToken(ctx, "alice")
		gt.NoError(t, err).Required()

		_, err = uc.ValidateToken(ctx, raw)
		gt.Error(t, err).Is(usecase.ErrForbidden)
	})
}
