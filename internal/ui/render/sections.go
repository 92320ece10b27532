package render

import (
	"fmt"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/vitrina/internal/catalog"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	textutil "github.com/kk-code-lab/vitrina/internal/textutil"
)

const (
	heroFont     = "standard"
	heroSubtitle = "Изделия ручной работы"
	maxTitleRows = 3
)

// heroLines renders title as ASCII art. Titles the font cannot draw come
// back as a single plain line.
func (r *Renderer) heroLines(title string) []string {
	if lines, ok := r.heroCache[title]; ok {
		return lines
	}
	lines := []string{title}
	if isASCII(title) && title != "" {
		art := figure.NewFigure(title, heroFont, false).Slicify()
		for len(art) > 0 && strings.TrimSpace(art[len(art)-1]) == "" {
			art = art[:len(art)-1]
		}
		if len(art) > 0 {
			lines = art
		}
	}
	r.heroCache[title] = lines
	return lines
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func (r *Renderer) drawHero(state *statepkg.AppState, vp viewport, u statepkg.RenderUnit) {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.MenuCurrentFg)
	muted := tcell.StyleDefault.Foreground(r.theme.MutedFg)
	r.fillUnit(vp, u, base)

	title := state.Title
	if title == "" {
		title = "vitrina"
	}
	lines := r.heroLines(title)
	artWidth := 0
	for _, line := range lines {
		artWidth = max(artWidth, r.measureTextWidth(line))
	}
	if artWidth > u.Width-2 {
		lines = []string{title}
	}

	// art, blank row, subtitle, and in feed mode a scroll hint at the bottom
	block := len(lines) + 2
	top := u.Y + max((u.Height-block)/2, 0)
	for i, line := range lines {
		if u.Height > 1 && top+i >= u.Bottom()-1 {
			break
		}
		r.centered(vp, u.X, top+i, u.Width, strings.TrimRight(line, " "), base.Bold(true))
	}
	if sub := top + len(lines) + 1; sub < u.Bottom() {
		r.centered(vp, u.X, sub, u.Width, heroSubtitle, muted)
	}
	if state.Gallery.ViewMode == statepkg.ViewFeed && u.Height > block+2 {
		r.centered(vp, u.X, u.Bottom()-2, u.Width, "↓ листайте коллекцию", muted)
	}
}

// drawSection renders one full-viewport feed section.
func (r *Renderer) drawSection(state *statepkg.AppState, vp viewport, u statepkg.RenderUnit) {
	item, view, ok := itemAt(state, u)
	if !ok {
		return
	}
	theme := ThemeFor(item.Category)
	bg := tcell.StyleDefault.Background(theme.Background).Foreground(sectionFg)
	r.fillUnit(vp, u, bg)
	if !view.Revealed {
		return
	}

	innerX := u.X + sectionMargin
	innerW := u.Width - 2*sectionMargin
	innerY := u.Y + 1
	innerH := u.Height - 2
	if innerW < 4 || innerH < 3 {
		r.text(vp, innerX, u.Y, innerW, item.Title, bg.Bold(true))
		return
	}

	var imgX, imgY, imgW, imgH, textX, textY, textW, textH int
	if u.Width >= sideBySideMinWidth {
		imgW = innerW * 55 / 100
		imgX, imgY, imgH = innerX, innerY, innerH
		textX, textW = innerX+imgW+2, innerW-imgW-2
		textY, textH = innerY, innerH
	} else {
		imgH = innerH * 55 / 100
		imgX, imgY, imgW = innerX, innerY, innerW
		textX, textW = innerX, innerW
		textY, textH = innerY+imgH+1, innerH-imgH-1
	}

	r.drawItemImage(state, vp, item.Images, view, imgX, imgY, imgW, imgH, theme)
	if len(item.Images) > 1 && imgH > 2 {
		arrow := bg.Foreground(theme.Accent).Bold(true)
		mid := imgY + imgH/2
		r.text(vp, imgX, mid, 1, "‹", arrow)
		r.text(vp, imgX+imgW-1, mid, 1, "›", arrow)
	}

	lines := r.sectionText(state, item, view, textW)
	if len(lines) > textH {
		lines = lines[:textH]
	}
	start := textY
	if u.Width >= sideBySideMinWidth {
		start = textY + max((textH-len(lines))/2, 0)
	}
	for i, line := range lines {
		style := bg
		switch line.kind {
		case lineCategory:
			style = bg.Foreground(theme.Accent).Bold(true)
		case lineTitle:
			style = bg.Bold(true)
		case linePrice:
			style = bg.Foreground(theme.Accent)
		case lineMuted:
			style = bg.Foreground(tcell.Color243)
		case lineAction:
			style = bg.Foreground(theme.Accent).Underline(true)
		}
		r.text(vp, textX, start+i, textW, line.text, style)
	}
}

type lineKind int

const (
	lineBody lineKind = iota
	lineCategory
	lineTitle
	linePrice
	lineMuted
	lineAction
)

type styledLine struct {
	kind lineKind
	text string
}

func (r *Renderer) sectionText(state *statepkg.AppState, item catalog.Item, view *statepkg.ItemView, width int) []styledLine {
	var lines []styledLine
	add := func(kind lineKind, text string) {
		lines = append(lines, styledLine{kind: kind, text: text})
	}

	add(lineCategory, strings.ToUpper(textutil.SanitizeTerminalText(state.CategoryName(item.Category))))
	add(lineBody, "")
	titleLines := textutil.Wrap(textutil.SanitizeTerminalText(item.Title), width)
	if len(titleLines) > maxTitleRows {
		titleLines = titleLines[:maxTitleRows]
		titleLines[maxTitleRows-1] = r.truncateTextToWidth(titleLines[maxTitleRows-1]+"…", width)
	}
	for _, l := range titleLines {
		add(lineTitle, l)
	}
	add(linePrice, r.formatPrice(item.Price))
	add(lineBody, "")

	if desc := textutil.PlainText(item.Description); desc != "" {
		wrapped := textutil.Wrap(textutil.SanitizeTerminalText(desc), width)
		if len(wrapped) > 3 {
			wrapped = wrapped[:3]
			wrapped[2] = r.truncateTextToWidth(wrapped[2]+"…", width)
		}
		for _, l := range wrapped {
			add(lineMuted, l)
		}
		add(lineBody, "")
	}

	if n := len(item.Images); n > 1 {
		add(lineMuted, fmt.Sprintf("фото %d/%d  ← →", view.ImageIndex+1, n))
	}
	add(lineAction, "[d] О работе   [b] Купить")
	return lines
}

// drawTile renders one grid tile.
func (r *Renderer) drawTile(state *statepkg.AppState, vp viewport, u statepkg.RenderUnit) {
	item, view, ok := itemAt(state, u)
	if !ok {
		return
	}
	theme := ThemeFor(item.Category)
	w := u.Width - 1 // column gap
	if w < 4 {
		return
	}
	tile := statepkg.RenderUnit{X: u.X, Y: u.Y, Width: w, Height: u.Height}
	bg := tcell.StyleDefault.Background(theme.Background).Foreground(sectionFg)
	r.fillUnit(vp, tile, bg)

	border := bg.Foreground(theme.Accent)
	if u.Index == state.SelectedIndex {
		border = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}
	r.drawBox(vp, u.X, u.Y, w, u.Height, border)
	if !view.Revealed {
		return
	}

	imgH := u.Height - 4
	r.drawItemImage(state, vp, item.Images, view, u.X+1, u.Y+1, w-2, imgH, theme)
	r.text(vp, u.X+1, u.Bottom()-3, w-2, textutil.SanitizeTerminalText(item.Title), bg.Bold(true))
	r.text(vp, u.X+1, u.Bottom()-2, w-2, r.formatPrice(item.Price), bg.Foreground(theme.Accent))
}

// drawBox draws a single-line border at content coordinates.
func (r *Renderer) drawBox(vp viewport, x, y, w, h int, style tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	for row := y; row < y+h; row++ {
		sy, ok := vp.row(row)
		if !ok {
			continue
		}
		switch row {
		case y:
			r.screen.SetContent(x, sy, '┌', nil, style)
			r.screen.SetContent(x+w-1, sy, '┐', nil, style)
			for cx := x + 1; cx < x+w-1; cx++ {
				r.screen.SetContent(cx, sy, '─', nil, style)
			}
		case y + h - 1:
			r.screen.SetContent(x, sy, '└', nil, style)
			r.screen.SetContent(x+w-1, sy, '┘', nil, style)
			for cx := x + 1; cx < x+w-1; cx++ {
				r.screen.SetContent(cx, sy, '─', nil, style)
			}
		default:
			r.screen.SetContent(x, sy, '│', nil, style)
			r.screen.SetContent(x+w-1, sy, '│', nil, style)
		}
	}
}
