// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/textenhance/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/textenhance/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/textenhance/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/textenhance/internal/application"
	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	coordinator *application.Coordinator
	credentials *application.CredentialService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	coordinator *application.Coordinator,
	credentials *application.CredentialService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		coordinator: coordinator,
		credentials: credentials,
		logger:      logger,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

// Panel renders the side panel. ?window= selects whose latest selection is
// pre-filled.
func (h *Handler) Panel(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)

	p := vm.PanelViewModel{
		Styles:     model.Styles,
		Tones:      model.Tones,
		Configured: h.credentials.IsConfigured(r.Context()),
		CSRFToken:  token,
	}
	if windowID, err := strconv.Atoi(r.URL.Query().Get("window")); err == nil {
		p.WindowID = windowID
		if sel, ok := h.coordinator.LatestSelection(r.Context(), windowID); ok {
			p.Selection = sel.Text
		}
	}

	h.render(w, r, http.StatusOK, templates.Layout("Text Enhancer", pages.Panel(p)))
}

// Enhance runs the enhancement submitted by the panel form and returns the
// result fragment.
func (h *Handler) Enhance(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	res := h.coordinator.Enhance(r.Context(), model.EnhancementRequest{
		Kind:  model.EnhancementKind(r.FormValue("enhancementType")),
		Text:  r.FormValue("text"),
		Style: r.FormValue("style"),
		Tone:  r.FormValue("tone"),
	})

	h.render(w, r, http.StatusOK, pages.Result(toResultViewModel(res)))
}

// Settings renders the credential settings page.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	h.renderSettings(w, r, http.StatusOK, "", false)
}

// SaveCredential validates and stores the submitted API key.
func (h *Handler) SaveCredential(w http.ResponseWriter, r *http.Request) {
	if !h.parseProtectedForm(w, r) {
		return
	}

	if err := h.credentials.Save(r.Context(), r.FormValue("api_key")); err != nil {
		status := http.StatusInternalServerError
		if model.KindOf(err) == model.ErrorInvalidFormat {
			status = http.StatusBadRequest
		}
		h.renderSettings(w, r, status, application.UserMessage(err), true)
		return
	}
	h.renderSettings(w, r, http.StatusOK, "API key saved.", false)
}

// DeleteCredential clears the stored API key.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	if !h.parseProtectedForm(w, r) {
		return
	}

	if err := h.credentials.Remove(r.Context()); err != nil {
		h.renderSettings(w, r, http.StatusInternalServerError, application.UserMessage(err), true)
		return
	}
	h.renderSettings(w, r, http.StatusOK, "API key removed.", false)
}

func (h *Handler) parseProtectedForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return false
	}
	return true
}

func (h *Handler) renderSettings(w http.ResponseWriter, r *http.Request, status int, flash string, isErr bool) {
	token := csrfToken(w, r)
	masked, ok := h.credentials.Masked(r.Context())

	s := vm.SettingsViewModel{
		Configured: ok,
		Masked:     masked,
		Flash:      flash,
		FlashError: isErr,
		CSRFToken:  token,
	}
	h.render(w, r, status, templates.Layout("Settings", pages.Settings(s)))
}

// toResultViewModel converts a domain result to its presentation form.
func toResultViewModel(res model.EnhancementResult) vm.ResultViewModel {
	if res.Failed() {
		return vm.ResultViewModel{Error: res.Message, ErrorKind: string(res.ErrorKind)}
	}
	return vm.ResultViewModel{Raw: res.Text, HTML: RenderMarkdown(res.Text)}
}
