package render

import (
	"slices"
	"strings"
	"testing"

	statepkg "github.com/kk-code-lab/vitrina/internal/state"
)

func TestBuildFooterHelpSegments(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*statepkg.AppState)
		want  []string
	}{
		{
			name:  "feed",
			setup: func(*statepkg.AppState) {},
			want:  []string{"↑↓: листать", "←→: фото", "d: о работе", "b: купить", "v: сетка", "?: справка"},
		},
		{
			name:  "grid",
			setup: func(s *statepkg.AppState) { s.Gallery.ViewMode = statepkg.ViewGrid },
			want:  []string{"←↑↓→: выбор", "d: о работе", "b: купить", "v: лента", "?: справка"},
		},
		{
			name:  "search input",
			setup: func(s *statepkg.AppState) { s.SearchActive = true },
			want:  []string{"type: поиск", "↵: найти", "Esc: очистить/выйти"},
		},
		{
			name: "contact dialog wins over search",
			setup: func(s *statepkg.AppState) {
				s.SearchActive = true
				s.Dialog = statepkg.DialogContact
			},
			want: []string{"↵: открыть VK", "Esc: закрыть"},
		},
		{
			name:  "description dialog",
			setup: func(s *statepkg.AppState) { s.Dialog = statepkg.DialogDescription },
			want:  []string{"b: купить", "Esc: закрыть"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := statepkg.NewAppState(statepkg.Options{})
			tt.setup(state)
			got := buildFooterHelpSegments(state)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("help mismatch\nwant: %#v\n got: %#v", tt.want, got)
			}
		})
	}
}

func TestBuildFooterHelpTextPadding(t *testing.T) {
	state := statepkg.NewAppState(statepkg.Options{})
	text := buildFooterHelpText(state)
	if !strings.HasPrefix(text, " ") || !strings.HasSuffix(text, " ") {
		t.Fatalf("expected padded help text, got %q", text)
	}
	if buildFooterHelpText(nil) != "" {
		t.Fatalf("nil state should produce no help")
	}
}
