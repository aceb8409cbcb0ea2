package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

var sentryEnabled atomic.Bool

// EnableSentry makes Handle and HandleHTTP report errors to Sentry. sentry.Init must be called beforehand.
func EnableSentry() {
	sentryEnabled.Store(true)
}

// DisableSentry stops reporting to Sentry
func DisableSentry() {
	sentryEnabled.Store(false)
}

// Handle logs the error with a message and reports it to Sentry when enabled.
// The error is returned as-is.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	capture(ctx, err)
	return err
}

// ErrorBody is the JSON body of every error response
type ErrorBody struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// HandleHTTP logs the error and writes an ErrorBody response. 5xx errors are reported to Sentry when enabled.
func HandleHTTP(w http.ResponseWriter, r *http.Request, err error, statusCode int, message string) {
	if err == nil {
		return
	}
	ctx := r.Context()
	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"path", r.URL.Path,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}

	if statusCode >= http.StatusInternalServerError {
		capture(ctx, err)
	}

	if message == "" {
		message = http.StatusText(statusCode)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := ErrorBody{
		Status:    statusCode,
		Timestamp: time.Now().UTC(),
		Message:   message,
		Path:      r.URL.Path,
	}
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		logger.Error("failed to encode error response", "error", encErr.Error())
	}
}

func capture(ctx context.Context, err error) {
	if !sentryEnabled.Load() {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	var ge *goerr.Error
	if errors.As(err, &ge) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetContext("goerr", sentry.Context(ge.Values()))
			hub.CaptureException(err)
		})
		return
	}
	hub.CaptureException(err)
}
