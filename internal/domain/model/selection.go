package model

import "time"

// Selection is the latest non-empty text a page reported as selected. The DOM
// range itself stays in the page; only routing ids travel with the text.
type Selection struct {
	Text      string
	TabID     int
	WindowID  int
	UpdatedAt time.Time
}

// MenuClick is a context-menu invocation over a text selection.
type MenuClick struct {
	MenuItemID    string
	TabID         int
	WindowID      int
	SelectionText string
}
