package activity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verda-api/verda/internal/platform/httpx"
	"github.com/verda-api/verda/internal/shared"
)

// Handler serves the activity log endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	errors  *httpx.ErrorResponder
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, errs *httpx.ErrorResponder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if errs == nil {
		errs = httpx.NewErrorResponder(logger, false)
	}
	return &Handler{logger: logger, service: service, errors: errs}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CreateLogRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	log, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	httpx.Success(w, http.StatusCreated, "Log created successfully", log)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	logs, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	respondList(w, logs)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.ListAll(r.Context())
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	respondList(w, logs)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req UpdateLogRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	log, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Log updated successfully", log)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Log deleted successfully", nil)
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (shared.Identity, bool) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		h.errors.Respond(w, r, shared.ErrUnauthenticated)
		return shared.Identity{}, false
	}
	return identity, true
}

func respondList(w http.ResponseWriter, logs []Log) {
	count := len(logs)
	httpx.JSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Message: "Logs retrieved successfully",
		Count:   &count,
		Data:    logs,
	})
}
