package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/vitrina/internal/catalog"
	"github.com/kk-code-lab/vitrina/internal/config"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	renderui "github.com/kk-code-lab/vitrina/internal/ui/render"
)

type staticSource struct {
	items []catalog.Item
}

func (s staticSource) FetchItems(ctx context.Context, q catalog.ItemQuery) ([]catalog.Item, error) {
	if q.Page > 1 {
		return []catalog.Item{}, nil
	}
	return s.items, nil
}

func newTestApplication(t *testing.T, handler http.Handler, items ...catalog.Item) *Application {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := catalog.NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	screen := newTestScreen(t)
	screen.SetSize(80, 24)

	cfg := config.Default()
	cfg.APIURL = srv.URL
	app := newApplication(screen, Options{
		Config: cfg,
		Items:  staticSource{items: items},
		Client: client,
	})
	t.Cleanup(func() { app.cancel() })
	return app
}

func nextAction(t *testing.T, app *Application) statepkg.Action {
	t.Helper()
	select {
	case action := <-app.actionCh:
		return action
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for an action")
		return nil
	}
}

func TestValidateOptionsRequiresSources(t *testing.T) {
	if err := validateOptions(Options{Config: config.Default()}); err == nil {
		t.Fatalf("expected error without item source")
	}
	client, _ := catalog.NewClient("http://localhost:8000", time.Second)
	opts := Options{Config: config.Default(), Items: staticSource{}, Client: client}
	if err := validateOptions(opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewApplicationAppliesConfig(t *testing.T) {
	app := newTestApplication(t, http.NotFoundHandler())
	state := app.State()

	if state.ScreenWidth != 80 || state.ScreenHeight != 24 {
		t.Fatalf("expected screen size 80x24, got %dx%d", state.ScreenWidth, state.ScreenHeight)
	}
	if state.PageSize != 5 || state.Gallery.ViewMode != statepkg.ViewFeed {
		t.Fatalf("unexpected defaults: page size %d, view %v", state.PageSize, state.Gallery.ViewMode)
	}
	if state.PageLoader == nil || state.ImageLoader == nil {
		t.Fatalf("expected loaders to be wired")
	}
}

func TestFetchCategoriesDispatchesVocabulary(t *testing.T) {
	app := newTestApplication(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"slug":"doll","name":"Куклы"}]`))
	}))

	app.fetchCategories()
	action, ok := nextAction(t, app).(statepkg.CategoriesLoadedAction)
	if !ok {
		t.Fatalf("expected CategoriesLoadedAction, got %T", action)
	}
	if action.Err != nil || len(action.Categories) != 1 || action.Categories[0].Slug != "doll" {
		t.Fatalf("unexpected categories result %+v", action)
	}
}

func TestStartLoadsFirstPage(t *testing.T) {
	items := []catalog.Item{{ID: 1, Title: "Кукла", Category: "doll"}, {ID: 2, Title: "Шарф", Category: "weaving"}}
	app := newTestApplication(t, http.NotFoundHandler(), items...)

	app.start()
	deadline := time.After(2 * time.Second)
	for len(app.state.Gallery.LoadedItems) == 0 {
		select {
		case action := <-app.actionCh:
			app.handleAction(action)
		case <-deadline:
			t.Fatalf("first page never arrived")
		}
	}
	if got := len(app.state.Gallery.LoadedItems); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
}

func TestHandleMouseClickOnMenuSelectsCategory(t *testing.T) {
	app := newTestApplication(t, http.NotFoundHandler())
	slots := renderui.CategoryMenuLayout(app.state, app.state.ScreenWidth)
	if len(slots) < 2 {
		t.Fatalf("expected menu slots, got %v", slots)
	}

	app.handleMouse(tcell.NewEventMouse(slots[1].X+1, 0, tcell.Button1, tcell.ModNone))
	if got := nextAction(t, app); got != (statepkg.CategorySelectAction{Slug: slots[1].Slug}) {
		t.Fatalf("expected category select for %q, got %#v", slots[1].Slug, got)
	}
}

func TestHandleMouseWheelScrolls(t *testing.T) {
	app := newTestApplication(t, http.NotFoundHandler())

	app.handleMouse(tcell.NewEventMouse(10, 10, tcell.WheelDown, tcell.ModNone))
	if got := nextAction(t, app); got != (statepkg.ScrollAction{Delta: 1}) {
		t.Fatalf("expected scroll down, got %#v", got)
	}
	app.handleMouse(tcell.NewEventMouse(10, 10, tcell.WheelUp, tcell.ModNone))
	if got := nextAction(t, app); got != (statepkg.ScrollAction{Delta: -1}) {
		t.Fatalf("expected scroll up, got %#v", got)
	}
}

func TestInputDoesNotBlockOnFullActionChannel(t *testing.T) {
	app := newTestApplication(t, http.NotFoundHandler())
	for i := 0; i < cap(app.actionCh); i++ {
		statepkg.SendAction(app.actionCh, statepkg.ImageLoadResultAction{URL: "https://cdn.example/a.png"})
	}

	done := make(chan struct{})
	go func() {
		app.handleEvent(tcell.NewEventMouse(10, 10, tcell.WheelDown, tcell.ModNone))
		app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("event handling blocked on a full action channel (len=%d)", len(app.actionCh))
	}

	sawScroll := 0
	for i := 0; i < cap(app.actionCh)+2; i++ {
		if _, ok := nextAction(t, app).(statepkg.ScrollAction); ok {
			sawScroll++
		}
	}
	if sawScroll != 2 {
		t.Fatalf("expected both scroll actions to be delivered, got %d", sawScroll)
	}
}

func TestHandleMouseClickOnTileSelectsThenOpens(t *testing.T) {
	app := newTestApplication(t, http.NotFoundHandler())
	app.state.Gallery.ViewMode = statepkg.ViewGrid
	app.state.Gallery.Category = "doll"
	app.state.Gallery.AppendItems([]catalog.Item{{ID: 1, Category: "doll"}, {ID: 2, Category: "doll"}})

	second, ok := app.state.UnitForItem(1)
	if !ok {
		t.Fatalf("expected a unit for the second tile")
	}
	x, y := second.X+2, statepkg.ViewportTop+second.Y+2
	app.handleMouse(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	if got := nextAction(t, app); got != (statepkg.SelectIndexAction{Index: 1}) {
		t.Fatalf("expected tile selection, got %#v", got)
	}

	app.state.SelectedIndex = 1
	app.handleMouse(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	if _, ok := nextAction(t, app).(statepkg.DescriptionOpenAction); !ok {
		t.Fatalf("expected second click to open the description")
	}
}

func TestHandleMouseClosesDialog(t *testing.T) {
	app := newTestApplication(t, http.NotFoundHandler())
	app.state.Dialog = statepkg.DialogDescription

	app.handleMouse(tcell.NewEventMouse(1, 5, tcell.Button1, tcell.ModNone))
	if _, ok := nextAction(t, app).(statepkg.DialogCloseAction); !ok {
		t.Fatalf("expected click to close the dialog")
	}
}

func TestShouldAnimateDuringCopyFlash(t *testing.T) {
	app := newTestApplication(t, http.NotFoundHandler())
	now := time.Now()
	if app.shouldAnimate(now) {
		t.Fatalf("idle app should not animate")
	}
	app.state.LastCopyTime = now.Add(-time.Second)
	if !app.shouldAnimate(now) {
		t.Fatalf("expected redraws while the copy notice shows")
	}
	if app.shouldAnimate(now.Add(time.Minute)) {
		t.Fatalf("copy notice should expire")
	}
}

func TestHandleActionQuit(t *testing.T) {
	app := newTestApplication(t, http.NotFoundHandler())
	if app.handleAction(statepkg.QuitAction{}) {
		t.Fatalf("quit should not request a redraw")
	}
	if !app.shouldQuit {
		t.Fatalf("expected shouldQuit after QuitAction")
	}
}

func TestDetectClipboardPrefersPbcopyOnUnix(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "pbcopy" {
			return "/usr/bin/pbcopy", nil
		}
		return "", errors.New("not found")
	}
	args, ok := detectClipboardInternal("linux", lookPath)
	if !ok {
		t.Fatalf("expected clipboard command")
	}
	expected := []string{"/usr/bin/pbcopy"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectClipboardUsesClipboardSelectionForXclip(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "xclip" {
			return "/usr/bin/xclip", nil
		}
		return "", errors.New("not found")
	}
	args, ok := detectClipboardInternal("linux", lookPath)
	if !ok {
		t.Fatalf("expected clipboard command")
	}
	expected := []string{"/usr/bin/xclip", "-selection", "clipboard"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectClipboardPrefersClipOnWindows(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "clip.exe" {
			return `C:\Windows\System32\clip.exe`, nil
		}
		return "", errors.New("not found")
	}
	args, ok := detectClipboardInternal("windows", lookPath)
	if !ok {
		t.Fatalf("expected clipboard command")
	}
	expected := []string{`C:\Windows\System32\clip.exe`}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectClipboardFallsBackToPowershell(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "powershell" {
			return `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`, nil
		}
		return "", errors.New("not found")
	}
	args, ok := detectClipboardInternal("windows", lookPath)
	if !ok {
		t.Fatalf("expected clipboard command")
	}
	expected := []string{`C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectOpener(t *testing.T) {
	found := func(names ...string) func(string) (string, error) {
		return func(cmd string) (string, error) {
			for _, n := range names {
				if n == cmd {
					return "/usr/bin/" + cmd, nil
				}
			}
			return "", errors.New("not found")
		}
	}
	noEnv := func(string) string { return "" }

	tests := []struct {
		name     string
		goos     string
		getenv   func(string) string
		lookPath func(string) (string, error)
		want     []string
	}{
		{"linux xdg-open", "linux", noEnv, found("xdg-open"), []string{"/usr/bin/xdg-open"}},
		{"linux wsl fallback", "linux", noEnv, found("wslview"), []string{"/usr/bin/wslview"}},
		{"darwin open", "darwin", noEnv, found("open"), []string{"/usr/bin/open"}},
		{"windows rundll32", "windows", noEnv, found("rundll32"), []string{"/usr/bin/rundll32", "url.dll,FileProtocolHandler"}},
		{
			name:     "BROWSER wins",
			goos:     "linux",
			getenv:   func(k string) string { return map[string]string{"BROWSER": "firefox --new-tab"}[k] },
			lookPath: found("firefox", "xdg-open"),
			want:     []string{"/usr/bin/firefox", "--new-tab"},
		},
		{"nothing found", "linux", noEnv, found(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectOpenerInternal(tt.goos, tt.getenv, tt.lookPath)
			if ok != (tt.want != nil) || !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v (ok=%v)", tt.want, got, ok)
			}
		})
	}
}
