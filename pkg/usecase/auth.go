package usecase

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/lexdesk/casework/pkg/domain/model/auth"
	"github.com/m-mizutani/goerr/v2"
)

// AuthUseCaseInterface resolves a bearer credential into the acting user
type AuthUseCaseInterface interface {
	ValidateToken(ctx context.Context, rawToken string) (*auth.Token, error)
	IsNoAuthn() bool
}

const defaultTokenTTL = 8 * time.Hour

// AuthUseCase validates and issues HS256 signed JWTs whose subject is the username
type AuthUseCase struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithIssuer sets the expected and issued "iss" claim
func WithIssuer(issuer string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.issuer = issuer
	}
}

// WithTokenTTL sets the lifetime of issued tokens
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.ttl = ttl
	}
}

func NewAuthUseCase(secret []byte, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		secret: secret,
		ttl:    defaultTokenTTL,
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// IssueToken signs a token for username
func (uc *AuthUseCase) IssueToken(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", goerr.Wrap(ErrInvalidRequest, "username is required")
	}

	now := time.Now()
	builder := jwt.NewBuilder().
		Subject(username).
		IssuedAt(now).
		Expiration(now.Add(uc.ttl))
	if uc.issuer != "" {
		builder = builder.Issuer(uc.issuer)
	}

	token, err := builder.Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token", goerr.V("username", username))
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token", goerr.V("username", username))
	}
	return string(signed), nil
}

// ValidateToken verifies signature, expiration and issuer of rawToken
func (uc *AuthUseCase) ValidateToken(ctx context.Context, rawToken string) (*auth.Token, error) {
	if rawToken == "" {
		return nil, goerr.Wrap(ErrForbidden, "missing token")
	}

	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
	}
	if uc.issuer != "" {
		opts = append(opts, jwt.WithIssuer(uc.issuer))
	}

	token, err := jwt.ParseString(rawToken, opts...)
	if err != nil {
		return nil, goerr.Wrap(ErrForbidden, "invalid token", goerr.V("error", err.Error()))
	}
	if token.Subject() == "" {
		return nil, goerr.Wrap(ErrForbidden, "token has no subject")
	}

	return auth.NewToken(token.Subject(), token.Expiration()), nil
}
