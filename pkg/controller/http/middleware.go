package http

import (
	"net/http"
	"strings"

	"github.com/lexdesk/casework/pkg/domain/model/auth"
	"github.com/lexdesk/casework/pkg/usecase"
	"github.com/lexdesk/casework/pkg/utils/errutil"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const msgInvalidCredentials = "Invalid credentials"

// authMiddleware resolves the bearer token into the acting user. In NoAuthn
// mode the header is ignored and every request runs as the configured user.
func authMiddleware(authUC usecase.AuthUseCaseInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				errutil.HandleHTTP(w, r, goerr.New("authenticator is not configured"), http.StatusForbidden, msgInvalidCredentials)
				return
			}

			token, err := authUC.ValidateToken(r.Context(), bearerToken(r))
			if err != nil {
				errutil.HandleHTTP(w, r, err, http.StatusForbidden, msgInvalidCredentials)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			ctx = logging.With(ctx, logging.From(ctx).With("actor", token.Sub))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
