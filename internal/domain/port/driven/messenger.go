package driven

import (
	"context"
	"errors"
)

// ErrNoPageConnection is returned when no page context is connected for a tab.
var ErrNoPageConnection = errors.New("no page connection for tab")

// PageMessenger delivers coordinator messages to page contexts (the selection
// tracker running inside a browser tab).
type PageMessenger interface {
	// OpenPanel asks the pages of a window to open the side panel. Returns
	// the number of page connections the request reached.
	OpenPanel(ctx context.Context, windowID int) int

	// ReplaceText asks the page in tabID to replace its tracked selection and
	// waits for the page's reply.
	ReplaceText(ctx context.Context, tabID int, text string) (bool, error)
}

// PanelNotifier pushes events to side panels. Pushes are fire-and-forget.
type PanelNotifier interface {
	// NotifyTextSelected returns the number of panels the event reached.
	NotifyTextSelected(ctx context.Context, windowID int, text string) int
}
