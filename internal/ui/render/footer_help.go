package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/vitrina/internal/state"
)

// buildFooterHelpText returns the contextual key hints with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the status line.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	switch {
	case state.Dialog == statepkg.DialogContact:
		return []string{"↵: открыть VK", "Esc: закрыть"}
	case state.Dialog == statepkg.DialogDescription:
		return []string{"b: купить", "Esc: закрыть"}
	case state.SearchActive:
		return []string{"type: поиск", "↵: найти", "Esc: очистить/выйти"}
	case state.Gallery.ViewMode == statepkg.ViewGrid:
		return []string{"←↑↓→: выбор", "d: о работе", "b: купить", "v: лента", "?: справка"}
	default:
		return []string{"↑↓: листать", "←→: фото", "d: о работе", "b: купить", "v: сетка", "?: справка"}
	}
}
