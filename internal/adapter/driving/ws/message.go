// Package ws is the WebSocket message hub between page contexts, side panels,
// and the coordinator.
package ws

// Message types exchanged over /ws/page and /ws/panel.
const (
	// page -> coordinator
	TypeSelectionChanged  = "selectionChanged"
	TypeContextMenu       = "contextMenu"
	TypeReplaceTextResult = "replaceTextResult"

	// coordinator -> page
	TypeReplaceText = "replaceText"
	TypeOpenPanel   = "openPanel"

	// panel -> coordinator
	TypeReady = "ready"

	// coordinator -> panel
	TypeTextSelected = "textSelected"
)

// Message is the single JSON envelope used in both directions. Only the
// fields relevant to Type are set.
type Message struct {
	Type       string `json:"type"`
	ID         string `json:"id,omitempty"`
	Text       string `json:"text,omitempty"`
	MenuItemID string `json:"menuItemId,omitempty"`
	WindowID   int    `json:"windowId,omitempty"`
	Success    bool   `json:"success,omitempty"`
}
