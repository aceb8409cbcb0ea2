package usecase

import (
	"context"
	"time"

	"github.com/lexdesk/casework/pkg/domain/model/auth"
)

// NoAuthnUseCase authenticates every request as a fixed user (for development/testing)
type NoAuthnUseCase struct {
	username string
}

func NewNoAuthnUseCase(username string) *NoAuthnUseCase {
	return &NoAuthnUseCase{username: username}
}

// ValidateToken ignores rawToken and returns a token for the configured user
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, rawToken string) (*auth.Token, error) {
	return auth.NewToken(uc.username, time.Time{}), nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
