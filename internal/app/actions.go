package app

import (
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"
	"time"

	"github.com/kk-code-lab/vitrina/internal/catalog"
	"github.com/kk-code-lab/vitrina/internal/contact"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
)

const categoriesTimeout = 5 * time.Second

// commandBuilder creates external commands; tests swap it for a helper process.
var commandBuilder = exec.Command

// handleContactSend copies the purchase message and opens the deep link.
// Both steps are best effort: a failed copy is logged and the link still
// opens.
func (app *Application) handleContactSend() bool {
	state := app.state
	if state.Dialog != statepkg.DialogContact || state.ContactLink == "" {
		return false
	}

	if err := app.copyToClipboard(state.ContactMessage); err != nil {
		app.logf("contact: %v", err)
	} else {
		state.LastCopyTime = time.Now()
	}

	if err := app.openLink(state.ContactLink); err != nil {
		app.logf("contact: %v", err)
		state.LastError = err
		return true
	}
	state.Dialog = statepkg.DialogNone
	return true
}

func (app *Application) copyToClipboard(text string) error {
	if !app.clipboardAvail || len(app.clipboardCmd) == 0 {
		return &contact.ClipboardError{Err: fmt.Errorf("no clipboard command available")}
	}
	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return &contact.ClipboardError{Err: fmt.Errorf("%s: %w", app.clipboardCmd[0], err)}
	}
	return nil
}

func (app *Application) openLink(link string) error {
	if len(app.openerCmd) == 0 {
		return fmt.Errorf("no browser opener available")
	}
	args := append(append([]string{}, app.openerCmd[1:]...), link)
	cmd := commandBuilder(app.openerCmd[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", app.openerCmd[0], err)
	}
	// Openers usually exit quickly; reap without blocking the loop.
	go func() { _ = cmd.Wait() }()
	return nil
}

// fetchCategories loads the category vocabulary in the background.
func (app *Application) fetchCategories() {
	if app.client == nil {
		return
	}
	client := app.client
	parent := app.ctx
	ch := app.actionCh
	go func() {
		ctx, cancel := context.WithTimeout(parent, categoriesTimeout)
		defer cancel()
		categories, err := client.FetchCategories(ctx)
		if parent.Err() != nil {
			return
		}
		select {
		case ch <- statepkg.CategoriesLoadedAction{Categories: categories, Err: err}:
		case <-parent.Done():
		}
	}()
}

func (app *Application) logf(format string, args ...any) {
	if app.logger != nil {
		app.logger.Printf(format, args...)
	}
}

// resolvingImageSource fetches images whose references may be relative to
// the API root.
type resolvingImageSource struct {
	client  *catalog.Client
	fetcher *catalog.ImageFetcher
}

func (s resolvingImageSource) Fetch(ctx context.Context, ref string) (image.Image, error) {
	return s.fetcher.Fetch(ctx, s.client.ResolveURL(ref))
}
