package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lexdesk/casework/pkg/domain/model/auth"
	"github.com/lexdesk/casework/pkg/usecase"
	"github.com/lexdesk/casework/pkg/utils/errutil"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(r.Context()).Error("failed to encode response", "error", err.Error())
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(usecase.ErrInvalidRequest, "failed to decode request body", goerr.V("error", err.Error()))
	}
	return nil
}

// statusOf maps a use case error onto its HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes the error body. Audited operations carry their own
// public message; other failures fall back to the status text.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(w, r, err, statusOf(err), usecase.PublicMessage(err))
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrInvalidRequest, "invalid path parameter", goerr.V(name, raw))
	}
	return v, nil
}

// actor returns the username stored by authMiddleware
func actor(r *http.Request) (string, error) {
	token, err := auth.TokenFromContext(r.Context())
	if err != nil {
		return "", goerr.Wrap(usecase.ErrForbidden, "no authenticated user")
	}
	return token.Sub, nil
}
