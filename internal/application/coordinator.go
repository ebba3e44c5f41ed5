// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
	"github.com/ericfisherdev/textenhance/internal/domain/port/driven"
)

// Context-menu entry registered by the extension.
const (
	EnhanceMenuID    = "enhanceText"
	EnhanceMenuTitle = "Enhance with AI"
)

// DefaultReplaceTimeout bounds how long ReplaceText waits for a page reply.
const DefaultReplaceTimeout = 5 * time.Second

// selectionQuery asks the event loop for the latest selection of a window.
type selectionQuery struct {
	windowID int
	done     chan selectionReply
}

type selectionReply struct {
	selection model.Selection
	ok        bool
}

// Coordinator is the process-wide message router between pages, panels, and
// the completion endpoint. The latest-selection table is owned by Run.
type Coordinator struct {
	credentials    *CredentialService
	enhancer       driven.Enhancer
	pages          driven.PageMessenger
	panels         driven.PanelNotifier
	logger         *slog.Logger
	now            func() time.Time
	replaceTimeout time.Duration

	selectionCh chan model.Selection
	queryCh     chan selectionQuery
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithReplaceTimeout overrides DefaultReplaceTimeout.
func WithReplaceTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.replaceTimeout = d
		}
	}
}

// WithClock overrides the time source used to stamp selections.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a Coordinator. Run must be started before any
// selection method is called.
func NewCoordinator(
	credentials *CredentialService,
	enhancer driven.Enhancer,
	pages driven.PageMessenger,
	panels driven.PanelNotifier,
	logger *slog.Logger,
	opts ...CoordinatorOption,
) *Coordinator {
	c := &Coordinator{
		credentials:    credentials,
		enhancer:       enhancer,
		pages:          pages,
		panels:         panels,
		logger:         logger,
		now:            time.Now,
		replaceTimeout: DefaultReplaceTimeout,
		selectionCh:    make(chan model.Selection),
		queryCh:        make(chan selectionQuery),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run owns the latest-selection table. It blocks until ctx is canceled.
func (c *Coordinator) Run(ctx context.Context) {
	latest := make(map[int]model.Selection)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("coordinator stopped")
			return
		case sel := <-c.selectionCh:
			latest[sel.WindowID] = sel
		case q := <-c.queryCh:
			sel, ok := latest[q.windowID]
			q.done <- selectionReply{selection: sel, ok: ok}
		}
	}
}

// CheckCredential logs a warning when no API key is configured.
func (c *Coordinator) CheckCredential(ctx context.Context) {
	if !c.credentials.IsConfigured(ctx) {
		c.logger.Warn("no api key configured; open settings to add one")
	}
}

// HandleSelectionChanged records sel as the latest selection for its window.
// Blank text is ignored.
func (c *Coordinator) HandleSelectionChanged(ctx context.Context, sel model.Selection) error {
	text := strings.TrimSpace(sel.Text)
	if text == "" {
		return nil
	}
	sel.Text = text
	if sel.UpdatedAt.IsZero() {
		sel.UpdatedAt = c.now()
	}

	select {
	case c.selectionCh <- sel:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LatestSelection returns the most recent selection recorded for windowID.
func (c *Coordinator) LatestSelection(ctx context.Context, windowID int) (model.Selection, bool) {
	done := make(chan selectionReply, 1)
	q := selectionQuery{windowID: windowID, done: done}

	select {
	case c.queryCh <- q:
	case <-ctx.Done():
		return model.Selection{}, false
	}

	select {
	case r := <-done:
		return r.selection, r.ok
	case <-ctx.Done():
		return model.Selection{}, false
	}
}

// HandleMenuClick reacts to the "Enhance with AI" menu entry: it records the
// selection, opens the window's panel, and pushes the text to it. Other menu
// ids and blank selections are ignored. Undelivered pushes are dropped.
func (c *Coordinator) HandleMenuClick(ctx context.Context, click model.MenuClick) error {
	if click.MenuItemID != EnhanceMenuID {
		c.logger.Debug("ignoring menu click", "menu_item_id", click.MenuItemID)
		return nil
	}
	text := strings.TrimSpace(click.SelectionText)
	if text == "" {
		return nil
	}

	if err := c.HandleSelectionChanged(ctx, model.Selection{
		Text:     text,
		TabID:    click.TabID,
		WindowID: click.WindowID,
	}); err != nil {
		return err
	}

	if n := c.pages.OpenPanel(ctx, click.WindowID); n == 0 {
		c.logger.Debug("open panel not delivered", "window_id", click.WindowID)
	}
	if n := c.panels.NotifyTextSelected(ctx, click.WindowID, text); n == 0 {
		c.logger.Debug("text selected not delivered", "window_id", click.WindowID)
	}
	return nil
}

// Enhance validates req, loads the API key, and calls the completion
// endpoint. Every failure is folded into the returned result.
func (c *Coordinator) Enhance(ctx context.Context, req model.EnhancementRequest) model.EnhancementResult {
	if err := req.Validate(); err != nil {
		return failureResult(err)
	}

	secret, ok := c.credentials.Load(ctx)
	if !ok {
		return failureResult(model.NewEnhanceError(model.ErrorMissingCredential, msgMissingCredential, nil))
	}

	start := c.now()
	text, err := c.enhancer.Enhance(ctx, req, secret)
	if err != nil {
		c.logger.Error("enhancement failed",
			"kind", req.Kind,
			"error_kind", model.KindOf(err),
			"error", err,
		)
		return failureResult(err)
	}

	c.logger.Info("enhancement complete",
		"kind", req.Kind,
		"chars_in", len(req.Text),
		"chars_out", len(text),
		"duration", c.now().Sub(start).Round(time.Millisecond),
	)
	return model.EnhancementResult{Text: text}
}

// ReplaceText asks the page in tabID to replace its tracked selection with
// text and waits a bounded time for the page's answer.
func (c *Coordinator) ReplaceText(ctx context.Context, tabID int, text string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.replaceTimeout)
	defer cancel()

	ok, err := c.pages.ReplaceText(ctx, tabID, text)
	if err != nil {
		c.logger.Warn("replace text failed", "tab_id", tabID, "error", err)
		return false, err
	}
	return ok, nil
}
