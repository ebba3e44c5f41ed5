// Package viewmodel holds the presentation structs rendered by the web pages.
package viewmodel

// PanelViewModel drives the side panel page.
type PanelViewModel struct {
	WindowID   int
	Selection  string
	Styles     []string
	Tones      []string
	Configured bool
	CSRFToken  string
}

// ResultViewModel is the outcome block shown under the panel controls.
type ResultViewModel struct {
	// Raw is the enhanced text as returned, used for copy and replace.
	Raw string
	// HTML is Raw rendered from markdown and sanitized.
	HTML      string
	Error     string
	ErrorKind string
}

// Failed reports whether the result is an error.
func (r ResultViewModel) Failed() bool {
	return r.Error != ""
}

// SettingsViewModel drives the credential settings page.
type SettingsViewModel struct {
	Configured bool
	Masked     string
	Flash      string
	FlashError bool
	CSRFToken  string
}
