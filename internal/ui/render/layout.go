package render

import (
	"strconv"

	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	textutil "github.com/kk-code-lab/vitrina/internal/textutil"
)

const (
	headerRow     = 0
	searchRow     = 1
	sectionMargin = 2
	// sideBySideMinWidth is the narrowest feed section that places the
	// description next to the image rather than below it.
	sideBySideMinWidth = 64
	dialogMaxWidth     = 64
)

// MenuSlot is one clickable category label in the header.
type MenuSlot struct {
	Slug  string
	Label string
	X     int
	Width int
}

// Contains reports whether column x falls on the slot.
func (m MenuSlot) Contains(x int) bool {
	return x >= m.X && x < m.X+m.Width
}

// CategoryMenuLayout positions the category menu in the header row of a
// screen width columns wide. Labels that do not fit are dropped.
func CategoryMenuLayout(state *statepkg.AppState, width int) []MenuSlot {
	if state == nil {
		return nil
	}
	x := textutil.DisplayWidth(headerTitle(state)) + 1
	slugs := state.MenuSlugs()
	slots := make([]MenuSlot, 0, len(slugs))
	for i, slug := range slugs {
		label := " " + state.CategoryName(slug) + " "
		if i < 9 {
			label = " " + strconv.Itoa(i+1) + " " + state.CategoryName(slug) + " "
		}
		label = textutil.SanitizeTerminalText(label)
		w := textutil.DisplayWidth(label)
		if x+w > width {
			break
		}
		slots = append(slots, MenuSlot{Slug: slug, Label: label, X: x, Width: w})
		x += w
	}
	return slots
}

func headerTitle(state *statepkg.AppState) string {
	title := state.Title
	if title == "" {
		title = "vitrina"
	}
	return " " + textutil.SanitizeTerminalText(title) + " "
}

// viewport maps content rows to screen rows.
type viewport struct {
	top    int
	height int
	offset int
	width  int
}

func newViewport(state *statepkg.AppState, width int) viewport {
	return viewport{
		top:    statepkg.ViewportTop,
		height: state.ViewportHeight(),
		offset: state.ScrollOffset,
		width:  width,
	}
}

// row returns the screen row of content row y, and whether it is visible.
func (v viewport) row(y int) (int, bool) {
	if y < v.offset || y >= v.offset+v.height {
		return 0, false
	}
	return v.top + y - v.offset, true
}

func (v viewport) visible(u statepkg.RenderUnit) bool {
	return u.Bottom() > v.offset && u.Y < v.offset+v.height
}
