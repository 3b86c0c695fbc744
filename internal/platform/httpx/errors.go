package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/verda-api/verda/internal/shared"
)

// User-facing messages. InvalidCredentials and Unauthenticated never say
// which half of the check failed.
const (
	MsgDuplicateCredential = "User already exists with this email"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgUnauthenticated     = "Not authorized"
	MsgUnauthorized        = "Not authorized to access this route"
	MsgNotFound            = "Resource not found"
	MsgInternal            = "Internal server error"
)

// ErrorResponder is the single place that turns an error into a response.
type ErrorResponder struct {
	Logger *slog.Logger
	Debug  bool
}

// NewErrorResponder constructs an ErrorResponder.
func NewErrorResponder(logger *slog.Logger, debug bool) *ErrorResponder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorResponder{Logger: logger, Debug: debug}
}

// Classify maps err to a status code and a user-safe message.
func Classify(err error) (int, string) {
	var verr *shared.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, shared.ErrDuplicateCredential):
		return http.StatusBadRequest, MsgDuplicateCredential
	case errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, shared.ErrUnauthenticated):
		return http.StatusUnauthorized, MsgUnauthenticated
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusForbidden, MsgUnauthorized
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, MsgNotFound
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// Respond writes the failure envelope for err.
func (e *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	status, message := Classify(err)
	e.log(r, status, err)

	env := Envelope{Success: false, Message: message}
	if e.Debug && err != nil {
		env.Debug = err.Error()
	}
	JSON(w, status, env)
}

func (e *ErrorResponder) log(r *http.Request, status int, err error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		slog.Int("status", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, slog.String("request_id", reqID))
	}
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("request cancelled", attrs...)
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", attrs...)
	default:
		logger.Warn("request rejected", attrs...)
	}
}
