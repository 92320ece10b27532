package app

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/vitrina/internal/catalog"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	"github.com/kk-code-lab/vitrina/internal/ui/input"
	renderui "github.com/kk-code-lab/vitrina/internal/ui/render"
)

const (
	animationInterval = 50 * time.Millisecond
	// copyFlashWindow keeps the loop redrawing until the copy notice expires.
	copyFlashWindow = 1600 * time.Millisecond
)

func NewApplication(opts Options) (*Application, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so clicks and wheel turns arrive as mouse events.
	screen.EnableMouse()
	return newApplication(screen, opts), nil
}

// newApplication wires an initialised screen to a fresh gallery state.
func newApplication(screen tcell.Screen, opts Options) *Application {
	clipboardCmd, clipboardAvail := detectClipboard()
	openerCmd, _ := detectOpener()

	state := newInitialState(opts)
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h

	actionCh := make(chan statepkg.Action, 10)
	state.SetDispatch(func(action statepkg.Action) {
		statepkg.SendAction(actionCh, action)
	})

	timeout := opts.Config.RequestTimeout
	state.PageLoader = statepkg.NewAsyncPageLoader(opts.Items, timeout)
	state.ImageLoader = statepkg.NewAsyncImageLoader(resolvingImageSource{
		client:  opts.Client,
		fetcher: catalog.NewImageFetcher(opts.Client.HTTPClient()),
	}, timeout)

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		screen:         screen,
		state:          state,
		reducer:        statepkg.NewStateReducer(),
		renderer:       renderui.NewRenderer(screen),
		input:          input.NewInputHandler(actionCh),
		actionCh:       actionCh,
		client:         opts.Client,
		clipboardCmd:   clipboardCmd,
		clipboardAvail: clipboardAvail,
		openerCmd:      openerCmd,
		logger:         state.Logger,
		ctx:            ctx,
		cancel:         cancel,
	}
	app.input.SetState(state)
	return app
}

// start requests the category vocabulary and the first page.
func (app *Application) start() {
	app.fetchCategories()
	app.handleAction(statepkg.StartAction{})
}

func (app *Application) Run() {
	defer app.screen.Fini()

	app.start()
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var animationTimer *time.Timer
	var animationCh <-chan time.Time

	startAnimation := func() {
		if animationTimer == nil {
			animationTimer = time.NewTimer(animationInterval)
		} else {
			if !animationTimer.Stop() {
				select {
				case <-animationTimer.C:
				default:
				}
			}
			animationTimer.Reset(animationInterval)
		}
		animationCh = animationTimer.C
	}

	stopAnimation := func() {
		if animationTimer == nil {
			return
		}
		if !animationTimer.Stop() {
			select {
			case <-animationTimer.C:
			default:
			}
		}
		animationCh = nil
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if app.shouldAnimate(time.Now()) {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-animationCh:
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	stopAnimation()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps wheel turns to scrolling and primary clicks to the menu,
// grid tiles and the footer.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	if app.state == nil || app.state.HelpVisible {
		return true
	}
	buttons := ev.Buttons()
	if app.state.Dialog != statepkg.DialogNone {
		if buttons&tcell.Button1 != 0 {
			app.send(statepkg.DialogCloseAction{})
		}
		return true
	}

	switch {
	case buttons&tcell.WheelUp != 0:
		app.send(statepkg.ScrollAction{Delta: -1})
		return true
	case buttons&tcell.WheelDown != 0:
		app.send(statepkg.ScrollAction{Delta: 1})
		return true
	case buttons&tcell.Button1 == 0:
		return true
	}

	x, y := ev.Position()
	if y == 0 {
		for _, slot := range renderui.CategoryMenuLayout(app.state, app.state.ScreenWidth) {
			if slot.Contains(x) {
				app.send(statepkg.CategorySelectAction{Slug: slot.Slug})
				return true
			}
		}
		return true
	}
	if y == 1 {
		app.send(statepkg.SearchStartAction{})
		return true
	}

	unit, ok := app.state.UnitAt(x, y)
	if !ok {
		return true
	}
	switch unit.Kind {
	case statepkg.UnitTile:
		if unit.Index == app.state.SelectedIndex {
			app.send(statepkg.DescriptionOpenAction{})
		} else {
			app.send(statepkg.SelectIndexAction{Index: unit.Index})
		}
	case statepkg.UnitFooter:
		app.send(statepkg.ResetToTopAction{})
	}
	return true
}

// send queues an action for the loop without blocking it.
func (app *Application) send(action statepkg.Action) {
	statepkg.SendAction(app.actionCh, action)
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// shouldAnimate keeps redrawing while a carousel fades or the copy notice
// is showing.
func (app *Application) shouldAnimate(now time.Time) bool {
	if app.state == nil {
		return false
	}
	if app.state.Animating(now) {
		return true
	}
	return !app.state.LastCopyTime.IsZero() && now.Sub(app.state.LastCopyTime) < copyFlashWindow
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.ContactSendAction:
		return app.handleContactSend()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	return true
}
