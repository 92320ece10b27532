package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru < 128 {
		r.runeWidthCacheMu.RLock()
		width := r.runeWidthCache[ru]
		r.runeWidthCacheMu.RUnlock()

		if width == 0 && ru != 0 {
			actualWidth := runewidth.RuneWidth(ru)
			if actualWidth < 0 {
				actualWidth = 0
			}
			r.runeWidthCacheMu.Lock()
			r.runeWidthCache[ru] = actualWidth + 1
			r.runeWidthCacheMu.Unlock()
			return actualWidth
		}
		return width - 1
	}

	if cached, ok := r.runeWidthWide.Load(ru); ok {
		return cached.(int)
	}

	width := runewidth.RuneWidth(ru)
	if width < 0 {
		width = 0
	}
	r.runeWidthWide.Store(ru, width)
	return width
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.cachedRuneWidth(ru)
	}
	return width
}

func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}

	if r.measureTextWidth(text) <= maxWidth {
		return text
	}

	const ellipsis = "…"
	ellipsisWidth := r.cachedRuneWidth('…')
	if ellipsisWidth <= 0 {
		ellipsisWidth = 1
	}
	if maxWidth <= ellipsisWidth {
		return ellipsis
	}

	available := maxWidth - ellipsisWidth
	var builder strings.Builder
	currentWidth := 0

	for _, ru := range text {
		runeWidth := r.cachedRuneWidth(ru)
		if currentWidth+runeWidth > available {
			break
		}
		builder.WriteRune(ru)
		currentWidth += runeWidth
	}

	builder.WriteString(ellipsis)
	return builder.String()
}

// drawTextLine draws text from startX and returns the column after it.
// Zero-width runes such as combining accents share the cell of the rune
// before them.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	runes := []rune(text)
	x := startX
	for i := 0; i < len(runes); {
		mainc := runes[i]
		i++
		w := r.cachedRuneWidth(mainc)
		if w == 0 {
			continue
		}

		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		if x-startX+w > maxWidth {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}
	return x
}

// drawCentered draws text centered within [startX, startX+width).
func (r *Renderer) drawCentered(startX, y, width int, text string, style tcell.Style) {
	text = r.truncateTextToWidth(text, width)
	pad := (width - r.measureTextWidth(text)) / 2
	if pad < 0 {
		pad = 0
	}
	r.drawTextLine(startX+pad, y, width-pad, text, style)
}

func (r *Renderer) fillRow(startX, y, endX int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (r *Renderer) fillRect(x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		r.fillRow(x, row, x+w, style)
	}
}
