package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/textenhance/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/textenhance/internal/adapter/driving/web/viewmodel"
)

// Settings renders the API key form. The stored key is only ever shown masked.
func Settings(s vm.SettingsViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]

		if err := templates.Write(w,
			`<main class="settings"><header><h1>Settings</h1><a href="/">Back</a></header>`,
		); err != nil {
			return err
		}

		if s.Flash != "" {
			class := "flash"
			if s.FlashError {
				class = "flash error"
			}
			if err := templates.Write(w, `<p class="`, class, `">`, esc(s.Flash), `</p>`); err != nil {
				return err
			}
		}

		status := "No API key saved."
		if s.Configured {
			status = "Saved key: " + s.Masked
		}

		if err := templates.Write(w,
			`<p id="key-status">`, esc(status), `</p>`,
			`<form method="post" action="/settings/credential">`,
			`<input type="hidden" name="csrf_token" value="`, esc(s.CSRFToken), `">`,
			`<label for="api-key">Deepseek API key</label>`,
			`<input type="password" id="api-key" name="api_key" autocomplete="off" placeholder="sk-…" required>`,
			`<button type="submit">Save</button>`,
			`</form>`,
		); err != nil {
			return err
		}

		if !s.Configured {
			return templates.Write(w, `</main>`)
		}

		return templates.Write(w,
			`<form method="post" action="/settings/credential/delete">`,
			`<input type="hidden" name="csrf_token" value="`, esc(s.CSRFToken), `">`,
			`<button type="submit" class="danger">Clear API key</button>`,
			`</form></main>`,
		)
	})
}
