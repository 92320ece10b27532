package app

import (
	"context"
	"errors"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/vitrina/internal/catalog"
	"github.com/kk-code-lab/vitrina/internal/config"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	inputui "github.com/kk-code-lab/vitrina/internal/ui/input"
	renderui "github.com/kk-code-lab/vitrina/internal/ui/render"
)

// Options wires the application to its backend.
type Options struct {
	Config config.Config
	// Items serves item pages; usually Client, optionally behind a cache.
	Items catalog.ItemSource
	// Client fetches categories and resolves image URLs.
	Client     *catalog.Client
	Logger     *log.Logger
	InstanceID string
}

// Application represents the running app.
type Application struct {
	screen         tcell.Screen
	state          *statepkg.AppState
	reducer        *statepkg.StateReducer
	renderer       *renderui.Renderer
	input          *inputui.InputHandler
	actionCh       chan statepkg.Action
	shouldQuit     bool
	client         *catalog.Client
	clipboardCmd   []string
	clipboardAvail bool
	openerCmd      []string
	logger         *log.Logger
	ctx            context.Context
	cancel         context.CancelFunc
}

// Close cleans up resources.
func (app *Application) Close() error {
	if app.cancel != nil {
		app.cancel()
	}
	// actionCh stays open: loaders and queued sends may still deliver to it.
	app.screen.Fini()
	return nil
}

// State exposes the current state, mostly for tests.
func (app *Application) State() *statepkg.AppState {
	return app.state
}

func newInitialState(opts Options) *statepkg.AppState {
	cfg := opts.Config
	state := statepkg.NewAppState(statepkg.Options{
		PageSize:        cfg.PageSize,
		ViewMode:        statepkg.ParseViewMode(cfg.View),
		Category:        cfg.Category,
		Search:          cfg.Search,
		SearchDebounce:  cfg.SearchDebounce,
		Fade:            cfg.Fade,
		RevealThreshold: cfg.RevealThreshold,
		SpyThreshold:    cfg.SpyThreshold,
		LookaheadRows:   cfg.LookaheadRows,
		Title:           cfg.Title,
		ContactURL:      cfg.ContactURL,
		ContactID:       cfg.ContactID,
		Logger:          opts.Logger,
	})
	state.InstanceID = opts.InstanceID
	return state
}

func validateOptions(opts Options) error {
	if opts.Items == nil {
		return errors.New("app: item source is required")
	}
	if opts.Client == nil {
		return errors.New("app: catalog client is required")
	}
	return opts.Config.Validate()
}
