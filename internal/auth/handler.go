package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verda-api/verda/internal/platform/httpx"
)

// Handler wires HTTP endpoints for signup and login.
type Handler struct {
	logger  *slog.Logger
	service *Service
	errors  *httpx.ErrorResponder
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, errs *httpx.ErrorResponder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if errs == nil {
		errs = httpx.NewErrorResponder(logger, false)
	}
	return &Handler{logger: logger, service: service, errors: errs}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in SignupInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	principal, err := h.service.Signup(r.Context(), in)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	httpx.Success(w, http.StatusCreated, "User registered successfully", principal)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	session, err := h.service.Login(r.Context(), in)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Message: "User logged in successfully",
		Token:   session.Token,
		Data:    session.Principal,
	})
}
