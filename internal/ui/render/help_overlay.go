package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	textutil "github.com/kk-code-lab/vitrina/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	viewDesc := "Сетка"
	if state != nil && state.Gallery.ViewMode == statepkg.ViewGrid {
		viewDesc = "Лента"
	}

	sections := []helpOverlaySection{
		{
			title: "Просмотр",
			entries: []helpOverlayEntry{
				{keys: "↑/↓", desc: "Следующая / предыдущая работа"},
				{keys: "PgUp/PgDn", desc: "Страница вверх / вниз"},
				{keys: "←/→", desc: "Листать фото (лента), выбор (сетка)"},
				{keys: "End", desc: "В конец, подгрузить ещё"},
				{keys: "g / Home", desc: "Наверх"},
				{keys: "v", desc: viewDesc},
			},
		},
		{
			title: "Категории и поиск",
			entries: []helpOverlayEntry{
				{keys: "1..9", desc: "Выбрать категорию"},
				{keys: "Tab/Shift+Tab", desc: "Следующая / предыдущая категория"},
				{keys: "/", desc: "Поиск"},
				{keys: "Esc", desc: "Очистить или закрыть поиск"},
			},
		},
		{
			title: "Работа",
			entries: []helpOverlayEntry{
				{keys: "d", desc: "О работе"},
				{keys: "b", desc: "Купить: написать мастеру"},
				{keys: "r", desc: "Повторить загрузку"},
			},
		},
		{
			title: "Выход",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Выйти"},
				{keys: "Ctrl+C", desc: "Выйти сразу"},
				{keys: "?", desc: "Закрыть справку"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	r.fillRect(0, 0, w, h, baseStyle)

	headerStyle := baseStyle.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg).Bold(true)
	r.drawCentered(0, 0, w, " Справка ", headerStyle)

	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	if h > 0 {
		footerText := r.truncateTextToWidth("?: закрыть · Esc/q: закрыть", w)
		r.drawTextLine(0, h-1, w, footerText, headerStyle)
	}
}
