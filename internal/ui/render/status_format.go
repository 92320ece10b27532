package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kk-code-lab/vitrina/internal/catalog"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	xcatalog "golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

const (
	itemCountKey  = "%d items"
	copyFlashTime = 1500 * time.Millisecond
)

func newPrinter() *message.Printer {
	builder := xcatalog.NewBuilder(xcatalog.Fallback(language.Russian))
	_ = builder.Set(language.Russian, itemCountKey, plural.Selectf(1, "%d",
		"one", "%d работа",
		"few", "%d работы",
		"many", "%d работ",
		"other", "%d работы",
	))
	return message.NewPrinter(language.Russian, message.Catalog(builder))
}

// formatPrice renders a price with Russian digit grouping, e.g. "12 500 ₽".
func (r *Renderer) formatPrice(price float64) string {
	return r.printer.Sprintf("%v ₽", number.Decimal(price, number.MaxFractionDigits(2)))
}

func (r *Renderer) formatItemCount(n int) string {
	return r.printer.Sprintf(itemCountKey, n)
}

// statusText is the left part of the status line.
func (r *Renderer) statusText(state *statepkg.AppState) string {
	g := &state.Gallery
	var parts []string

	switch g.Status() {
	case statepkg.LoaderLoading:
		parts = append(parts, fmt.Sprintf("загрузка, страница %d…", g.Page))
	case statepkg.LoaderExhausted:
		parts = append(parts, r.formatItemCount(len(g.LoadedItems))+" · всё")
	default:
		parts = append(parts, r.formatItemCount(len(g.LoadedItems)))
	}

	if g.Category != catalog.AllCategories {
		parts = append(parts, state.CategoryName(g.Category))
	}
	if g.SearchTerm != "" {
		parts = append(parts, "«"+g.SearchTerm+"»")
	}
	if state.LastError != nil {
		parts = append(parts, "ошибка: "+describeError(state.LastError)+" (r: повторить)")
	}
	return strings.Join(parts, " · ")
}

func describeError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "сервер не ответил"
	case statepkg.IsNetworkFailure(err):
		return "каталог недоступен (" + err.Error() + ")"
	default:
		return err.Error()
	}
}

func copyFlashing(state *statepkg.AppState, now time.Time) bool {
	return !state.LastCopyTime.IsZero() && now.Sub(state.LastCopyTime) < copyFlashTime
}
