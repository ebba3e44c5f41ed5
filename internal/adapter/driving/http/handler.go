package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/textenhance/internal/application"
	"github.com/ericfisherdev/textenhance/internal/domain/model"
	"github.com/ericfisherdev/textenhance/internal/domain/port/driven"
)

const maxBodyBytes = 1 << 20

// ConnectionCounter reports live hub connections for the health endpoint.
type ConnectionCounter interface {
	Connections() (pages, panels int)
}

// CircuitReporter exposes the completion endpoint's circuit breaker state.
type CircuitReporter interface {
	CircuitState() string
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	coordinator *application.Coordinator
	credentials *application.CredentialService
	conns       ConnectionCounter
	circuit     CircuitReporter
	limiter     *RateLimiter
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. A nil limiter
// disables rate limiting of the enhance endpoint; conns and circuit may be nil.
func NewHandler(
	coordinator *application.Coordinator,
	credentials *application.CredentialService,
	conns ConnectionCounter,
	circuit CircuitReporter,
	limiter *RateLimiter,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		coordinator: coordinator,
		credentials: credentials,
		conns:       conns,
		circuit:     circuit,
		limiter:     limiter,
		logger:      logger,
	}
}

// RegisterAPIRoutes mounts the JSON API on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.Handle("POST /api/v1/enhance", h.limiter.Middleware(http.HandlerFunc(h.Enhance)))
	mux.HandleFunc("GET /api/v1/selection", h.GetSelection)
	mux.HandleFunc("POST /api/v1/selection", h.PostSelection)
	mux.HandleFunc("POST /api/v1/menu", h.MenuClick)
	mux.HandleFunc("POST /api/v1/replace", h.Replace)
	mux.HandleFunc("GET /api/v1/credential", h.GetCredential)
	mux.HandleFunc("PUT /api/v1/credential", h.PutCredential)
	mux.HandleFunc("DELETE /api/v1/credential", h.DeleteCredential)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// decodeBody decodes a bounded JSON body into v, writing 400 on failure.
// Bodies must be sent as application/json so that cross-origin pages cannot
// reach the API with a preflight-free form or text/plain request.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Enhance runs one enhancement. Failures are reported in the payload with
// status 200.
func (h *Handler) Enhance(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Type != "" && req.Type != "enhance" {
		writeError(w, http.StatusBadRequest, "unsupported message type")
		return
	}

	res := h.coordinator.Enhance(r.Context(), toEnhancementRequest(req))
	writeJSON(w, http.StatusOK, toEnhanceResponse(res))
}

// GetSelection returns the latest selection for the window in ?window=.
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	windowID, err := strconv.Atoi(r.URL.Query().Get("window"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window")
		return
	}

	sel, ok := h.coordinator.LatestSelection(r.Context(), windowID)
	if !ok {
		writeError(w, http.StatusNotFound, "no selection")
		return
	}
	writeJSON(w, http.StatusOK, toSelectionResponse(sel))
}

// PostSelection records a page's selection change.
func (h *Handler) PostSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.coordinator.HandleSelectionChanged(r.Context(), model.Selection{
		Text:     req.Text,
		TabID:    req.TabID,
		WindowID: req.WindowID,
	}); err != nil {
		h.logger.Warn("failed to record selection", "error", err)
		writeError(w, http.StatusServiceUnavailable, "coordinator unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MenuClick relays a context-menu invocation.
func (h *Handler) MenuClick(w http.ResponseWriter, r *http.Request) {
	var req MenuRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.coordinator.HandleMenuClick(r.Context(), model.MenuClick{
		MenuItemID:    req.MenuItemID,
		TabID:         req.TabID,
		WindowID:      req.WindowID,
		SelectionText: req.SelectionText,
	}); err != nil {
		h.logger.Warn("failed to handle menu click", "error", err)
		writeError(w, http.StatusServiceUnavailable, "coordinator unavailable")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Replace asks a page to replace its selection with the given text.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ok, err := h.coordinator.ReplaceText(r.Context(), req.TabID, req.Text)
	if err != nil {
		msg := "Failed to replace text."
		if errors.Is(err, driven.ErrNoPageConnection) {
			msg = "The page is no longer available."
		}
		writeJSON(w, http.StatusOK, ReplaceResponse{Success: false, Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, ReplaceResponse{Success: ok})
}

// GetCredential reports whether an API key is stored, in masked form.
func (h *Handler) GetCredential(w http.ResponseWriter, r *http.Request) {
	masked, updatedAt, ok := h.credentials.Status(r.Context())
	resp := CredentialStatusResponse{Configured: ok, Masked: masked}
	if ok && !updatedAt.IsZero() {
		resp.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// PutCredential validates and stores an API key.
func (h *Handler) PutCredential(w http.ResponseWriter, r *http.Request) {
	var req CredentialRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.credentials.Save(r.Context(), req.APIKey); err != nil {
		status := http.StatusInternalServerError
		if model.KindOf(err) == model.ErrorInvalidFormat {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{
			Error:     application.UserMessage(err),
			ErrorKind: string(model.KindOf(err)),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCredential removes the stored API key.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.credentials.Remove(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     application.UserMessage(err),
			ErrorKind: string(model.KindOf(err)),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
	if h.conns != nil {
		resp.Pages, resp.Panels = h.conns.Connections()
	}
	if h.circuit != nil {
		resp.Circuit = h.circuit.CircuitState()
	}
	writeJSON(w, http.StatusOK, resp)
}
