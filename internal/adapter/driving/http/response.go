package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error     string `json:"error"`
	ErrorKind string `json:"errorKind,omitempty"`
}

// EnhanceRequest is the JSON body of POST /api/v1/enhance.
type EnhanceRequest struct {
	Type            string `json:"type"`
	EnhancementType string `json:"enhancementType"`
	Text            string `json:"text"`
	Style           string `json:"style,omitempty"`
	Tone            string `json:"tone,omitempty"`
}

// EnhanceResponse carries either the enhanced text or a user-facing failure.
type EnhanceResponse struct {
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
}

// SelectionRequest is the JSON body of POST /api/v1/selection.
type SelectionRequest struct {
	TabID    int    `json:"tabId"`
	WindowID int    `json:"windowId"`
	Text     string `json:"text"`
}

// SelectionResponse is the latest selection recorded for a window.
type SelectionResponse struct {
	Text      string `json:"text"`
	TabID     int    `json:"tabId"`
	WindowID  int    `json:"windowId"`
	UpdatedAt string `json:"updatedAt"`
}

// MenuRequest is the JSON body of POST /api/v1/menu.
type MenuRequest struct {
	MenuItemID    string `json:"menuItemId"`
	TabID         int    `json:"tabId"`
	WindowID      int    `json:"windowId"`
	SelectionText string `json:"selectionText"`
}

// ReplaceRequest is the JSON body of POST /api/v1/replace.
type ReplaceRequest struct {
	TabID int    `json:"tabId"`
	Text  string `json:"text"`
}

// ReplaceResponse reports whether the page replaced its selection.
type ReplaceResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CredentialRequest is the JSON body of PUT /api/v1/credential.
type CredentialRequest struct {
	APIKey string `json:"apiKey"`
}

// CredentialStatusResponse describes the stored API key without revealing it.
type CredentialStatusResponse struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Time    string `json:"time"`
	Pages   int    `json:"pages"`
	Panels  int    `json:"panels"`
	Circuit string `json:"circuit,omitempty"`
}

// toEnhancementRequest converts the wire request into the domain request.
func toEnhancementRequest(req EnhanceRequest) model.EnhancementRequest {
	return model.EnhancementRequest{
		Kind:  model.EnhancementKind(req.EnhancementType),
		Text:  req.Text,
		Style: req.Style,
		Tone:  req.Tone,
	}
}

// toEnhanceResponse converts a domain result to its JSON representation.
func toEnhanceResponse(res model.EnhancementResult) EnhanceResponse {
	if res.Failed() {
		return EnhanceResponse{Error: res.Message, ErrorKind: string(res.ErrorKind)}
	}
	return EnhanceResponse{Result: res.Text}
}

// toSelectionResponse converts a domain Selection to its JSON representation.
func toSelectionResponse(sel model.Selection) SelectionResponse {
	return SelectionResponse{
		Text:      sel.Text,
		TabID:     sel.TabID,
		WindowID:  sel.WindowID,
		UpdatedAt: sel.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
