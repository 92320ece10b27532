package render

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/vitrina/internal/catalog"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	textutil "github.com/kk-code-lab/vitrina/internal/textutil"
	"golang.org/x/text/message"
)

const sectionFg = tcell.Color235

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	printer          *message.Printer
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes

	heroCache   map[string][]string
	scaledCache map[scaledKey]scaledImage

	now func() time.Time
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen:      screen,
		theme:       GetColorTheme(),
		printer:     newPrinter(),
		heroCache:   make(map[string][]string),
		scaledCache: make(map[scaledKey]scaledImage),
		now:         time.Now,
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if state == nil {
		r.screen.Show()
		return
	}

	if state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	r.drawSearchLine(state, w)
	r.drawViewport(state, w)
	r.drawStatusLine(state, w, h)

	switch state.Dialog {
	case statepkg.DialogDescription:
		r.drawDescriptionDialog(state, w, h)
	case statepkg.DialogContact:
		r.drawContactDialog(state, w, h)
	}

	r.screen.Show()
}

// drawHeader renders the title and the category menu.
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	r.fillRow(0, headerRow, w, headerStyle)

	endX := r.drawTextLine(0, headerRow, w, headerTitle(state), headerStyle.Bold(true))
	if endX < w {
		r.screen.SetContent(endX, headerRow, '│', nil, headerStyle.Foreground(r.theme.MutedFg))
	}

	for _, slot := range CategoryMenuLayout(state, w) {
		style := headerStyle
		switch {
		case slot.Slug == state.HighlightedCategory:
			style = style.Background(r.theme.MenuActiveBg).Foreground(r.theme.MenuActiveFg).Bold(true)
		case slot.Slug == state.Gallery.Category:
			style = style.Foreground(r.theme.MenuCurrentFg).Underline(true)
		}
		r.drawTextLine(slot.X, headerRow, slot.Width, slot.Label, style)
	}
}

// drawSearchLine renders the search prompt and the view mode badge.
func (r *Renderer) drawSearchLine(state *statepkg.AppState, w int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	mutedStyle := baseStyle.Foreground(r.theme.MutedFg)
	r.fillRow(0, searchRow, w, baseStyle)

	badge := " лента "
	if state.Gallery.ViewMode == statepkg.ViewGrid {
		badge = " сетка "
	}
	badgeWidth := r.measureTextWidth(badge)
	available := w - badgeWidth - 1
	if available < 0 {
		available = 0
	}

	switch {
	case state.SearchActive:
		prompt := " / "
		x := r.drawTextLine(0, searchRow, available, prompt, baseStyle.Bold(true))
		input := textutil.SanitizeTerminalText(state.SearchInput)
		// keep the tail of long input visible next to the cursor
		for r.measureTextWidth(input) > available-x-1 && input != "" {
			_, size := utf8.DecodeRuneInString(input)
			input = input[size:]
		}
		x = r.drawTextLine(x, searchRow, available-x, input, baseStyle)
		if x < available {
			r.screen.SetContent(x, searchRow, ' ', nil, baseStyle.Reverse(true))
		}
		if state.PendingSearch() && x+2 < available {
			r.drawTextLine(x+2, searchRow, available-x-2, "…", mutedStyle)
		}
	case state.Gallery.SearchTerm != "":
		text := " поиск: " + textutil.SanitizeTerminalText(state.Gallery.SearchTerm) + "  (/ изменить, Esc в поиске: сбросить)"
		r.drawTextLine(0, searchRow, available, r.truncateTextToWidth(text, available), baseStyle)
	default:
		r.drawTextLine(0, searchRow, available, r.truncateTextToWidth(" / поиск по названию и описанию", available), mutedStyle)
	}

	if badgeWidth < w {
		r.drawTextLine(w-badgeWidth, searchRow, badgeWidth, badge, mutedStyle.Reverse(true))
	}
}

// drawViewport renders every unit intersecting the scrolled window.
func (r *Renderer) drawViewport(state *statepkg.AppState, w int) {
	vp := newViewport(state, w)
	for _, u := range state.Units() {
		if !vp.visible(u) {
			continue
		}
		switch u.Kind {
		case statepkg.UnitHero:
			r.drawHero(state, vp, u)
		case statepkg.UnitSection:
			r.drawSection(state, vp, u)
		case statepkg.UnitTile:
			r.drawTile(state, vp, u)
		case statepkg.UnitSentinel:
			r.drawSentinel(state, vp, u)
		case statepkg.UnitFooter:
			r.drawFooter(state, vp, u)
		}
	}
}

// drawStatusLine renders loader status on the left and key hints on the right.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h < 1 {
		return
	}
	y := h - 1
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	if state.LastError != nil {
		normalStyle = normalStyle.Foreground(r.theme.ErrorFg)
	}
	r.fillRow(0, y, w, normalStyle)

	if copyFlashing(state, r.now()) {
		flash := tcell.StyleDefault.Background(r.theme.FlashBg).Foreground(r.theme.FlashFg)
		r.fillRow(0, y, w, flash)
		r.drawTextLine(0, y, w, r.truncateTextToWidth(" сообщение скопировано в буфер обмена", w), flash)
		return
	}

	help := buildFooterHelpText(state)
	helpWidth := r.measureTextWidth(help)
	status := " " + textutil.SanitizeTerminalText(r.statusText(state))
	statusWidth := w
	if helpWidth+20 <= w {
		statusWidth = w - helpWidth
		hintStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.MutedFg)
		r.drawTextLine(w-helpWidth, y, helpWidth, help, hintStyle)
	}
	r.drawTextLine(0, y, statusWidth, r.truncateTextToWidth(status, statusWidth), normalStyle)
}

// ===== UNITS =====

func (r *Renderer) fillUnit(vp viewport, u statepkg.RenderUnit, style tcell.Style) {
	for y := u.Y; y < u.Bottom(); y++ {
		if sy, ok := vp.row(y); ok {
			r.fillRow(u.X, sy, min(u.X+u.Width, vp.width), style)
		}
	}
}

// text draws at content row y when that row is on screen.
func (r *Renderer) text(vp viewport, x, y, width int, text string, style tcell.Style) {
	if sy, ok := vp.row(y); ok {
		r.drawTextLine(x, sy, width, r.truncateTextToWidth(text, width), style)
	}
}

func (r *Renderer) centered(vp viewport, x, y, width int, text string, style tcell.Style) {
	if sy, ok := vp.row(y); ok {
		r.drawCentered(x, sy, width, text, style)
	}
}

func (r *Renderer) drawSentinel(state *statepkg.AppState, vp viewport, u statepkg.RenderUnit) {
	if !state.Gallery.IsLoading {
		return
	}
	style := tcell.StyleDefault.Foreground(r.theme.MutedFg)
	r.centered(vp, u.X, u.Y, u.Width, "· · · загрузка · · ·", style)
}

func (r *Renderer) drawFooter(state *statepkg.AppState, vp viewport, u statepkg.RenderUnit) {
	base := tcell.StyleDefault.Foreground(r.theme.Foreground)
	muted := base.Foreground(r.theme.MutedFg)

	rule := strings.Repeat("─", max(u.Width-4, 0))
	r.text(vp, u.X+2, u.Y+1, u.Width-4, rule, muted)

	msg := "Конец коллекции"
	if len(state.Gallery.LoadedItems) == 0 {
		msg = "Нет работ."
	}
	r.centered(vp, u.X, u.Y+2, u.Width, msg, base.Bold(true))
	r.centered(vp, u.X, u.Y+3, u.Width, "↵ / g: наверх", muted)
}

// itemAt returns the item and view-model behind a unit.
func itemAt(state *statepkg.AppState, u statepkg.RenderUnit) (catalog.Item, *statepkg.ItemView, bool) {
	if u.Index < 0 || u.Index >= len(state.Gallery.LoadedItems) {
		return catalog.Item{}, nil, false
	}
	item := state.Gallery.LoadedItems[u.Index]
	return item, state.View(item.ID), true
}
