// Package pages holds the full-page and fragment components of the web GUI.
package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/textenhance/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/textenhance/internal/adapter/driving/web/viewmodel"
)

// Panel renders the side panel: selection preview, enhancement controls, and
// an empty result slot that Result fills in.
func Panel(p vm.PanelViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]

		if err := templates.Write(w,
			`<main class="panel" data-window="`, strconv.Itoa(p.WindowID), `">`,
			`<header><h1>Text Enhancer</h1><a href="/settings">Settings</a></header>`,
		); err != nil {
			return err
		}

		if !p.Configured {
			if err := templates.Write(w,
				`<p class="notice">No API key configured. <a href="/settings">Add your Deepseek API key</a> to start.</p>`,
			); err != nil {
				return err
			}
		}

		if err := templates.Write(w,
			`<form id="enhance-form" method="post" action="/app/enhance">`,
			`<input type="hidden" name="csrf_token" value="`, esc(p.CSRFToken), `">`,
			`<label for="selection">Selected text</label>`,
			`<textarea id="selection" name="text" rows="6" placeholder="Select text on the page and choose Enhance with AI.">`,
			esc(p.Selection), `</textarea>`,
			`<div class="actions">`,
			`<button type="submit" name="enhancementType" value="grammar">Fix grammar</button>`,
			`<button type="submit" name="enhancementType" value="summary">Summarize</button>`,
			`</div>`,
			`<fieldset><legend>Custom</legend>`,
		); err != nil {
			return err
		}

		if err := selectBox(w, "style", "Style", p.Styles); err != nil {
			return err
		}
		if err := selectBox(w, "tone", "Tone", p.Tones); err != nil {
			return err
		}

		return templates.Write(w,
			`<button type="submit" id="custom-button" name="enhancementType" value="custom" disabled>Rewrite</button>`,
			`</fieldset></form>`,
			`<section id="result" aria-live="polite"></section>`,
			`</main>`,
		)
	})
}

func selectBox(w io.Writer, name, label string, options []string) error {
	esc := templ.EscapeString[string]
	if err := templates.Write(w,
		`<label for="`, name, `">`, label, `</label>`,
		`<select id="`, name, `" name="`, name, `"><option value="">Choose…</option>`,
	); err != nil {
		return err
	}
	for _, o := range options {
		if err := templates.Write(w, `<option value="`, esc(o), `">`, esc(o), `</option>`); err != nil {
			return err
		}
	}
	return templates.Write(w, `</select>`)
}

// Result renders the outcome of one enhancement as a fragment.
func Result(r vm.ResultViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]

		if r.Failed() {
			return templates.Write(w,
				`<div class="error" data-kind="`, esc(r.ErrorKind), `">`, esc(r.Error), `</div>`,
			)
		}

		// HTML is sanitized by the markdown renderer.
		return templates.Write(w,
			`<div class="result">`, r.HTML, `</div>`,
			`<textarea id="result-raw" hidden>`, esc(r.Raw), `</textarea>`,
			`<div class="actions">`,
			`<button type="button" id="copy-button">Copy</button>`,
			`<button type="button" id="replace-button">Replace selection</button>`,
			`</div>`,
		)
	})
}
