package config

import (
	"time"

	"github.com/lexdesk/casework/pkg/usecase"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for bearer token authentication
type Auth struct {
	secret   string
	issuer   string
	tokenTTL time.Duration
	noAuth   string
}

func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HMAC secret used to sign and verify bearer tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("CASEWORK_JWT_SECRET"),
			Destination: &a.secret,
		},
		&cli.StringFlag{
			Name:        "jwt-issuer",
			Usage:       "Expected \"iss\" claim of bearer tokens",
			Value:       "casework",
			Category:    "Authentication",
			Sources:     cli.EnvVars("CASEWORK_JWT_ISSUER"),
			Destination: &a.issuer,
		},
		&cli.DurationFlag{
			Name:        "jwt-ttl",
			Usage:       "Lifetime of issued tokens",
			Value:       8 * time.Hour,
			Category:    "Authentication",
			Sources:     cli.EnvVars("CASEWORK_JWT_TTL"),
			Destination: &a.tokenTTL,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run every request as the given username (development only). Example: --no-auth=alice",
			Category:    "Authentication",
			Sources:     cli.EnvVars("CASEWORK_NO_AUTH"),
			Destination: &a.noAuth,
		},
	}
}

// IsNoAuthMode reports whether --no-auth was given
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuth != ""
}

// Configure returns the authenticator used by the HTTP server
func (a *Auth) Configure() (usecase.AuthUseCaseInterface, error) {
	if a.IsNoAuthMode() {
		logging.Default().Warn("Running in no-auth mode (development only)", "username", a.noAuth)
		return usecase.NewNoAuthnUseCase(a.noAuth), nil
	}
	return a.Issuer()
}

// Issuer returns a signing authenticator. It ignores --no-auth.
func (a *Auth) Issuer() (*usecase.AuthUseCase, error) {
	if a.secret == "" {
		return nil, goerr.Wrap(ErrMissingSecret, "failed to configure authentication")
	}
	if a.tokenTTL <= 0 {
		return nil, goerr.Wrap(ErrInvalidDuration, "invalid jwt-ttl", goerr.V("ttl", a.tokenTTL.String()))
	}

	return usecase.NewAuthUseCase([]byte(a.secret),
		usecase.WithIssuer(a.issuer),
		usecase.WithTokenTTL(a.tokenTTL),
	), nil
}
