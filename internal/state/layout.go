package state

import "strconv"

// UnitKind identifies a rendered unit.
type UnitKind int

const (
	UnitHero UnitKind = iota
	UnitSection
	UnitTile
	UnitSentinel
	UnitFooter
)

const (
	// chromeRows are the header, search and status rows around the viewport.
	chromeRows = 3
	// ViewportTop is the first screen row of the scrolling viewport.
	ViewportTop = 2

	heroGridHeight = 9
	tileHeight     = 12
	minTileWidth   = 26
	sentinelHeight = 1
	footerHeight   = 5
)

// RenderUnit is one laid-out block of the scrolling content. Coordinates are
// in content rows/columns; Y=0 is the top of the content.
type RenderUnit struct {
	Kind     UnitKind
	Index    int // index into LoadedItems, -1 for non-item units
	ItemID   int
	Category string
	X, Y     int
	Width    int
	Height   int
}

// Key identifies the unit for visibility tracking.
func (u RenderUnit) Key() string {
	switch u.Kind {
	case UnitHero:
		return "hero"
	case UnitSentinel:
		return sentinelKey
	case UnitFooter:
		return "footer"
	default:
		return "item:" + strconv.Itoa(u.Index)
	}
}

// Bottom is the first content row after the unit.
func (u RenderUnit) Bottom() int {
	return u.Y + u.Height
}

const sentinelKey = "sentinel"

type layoutSignature struct {
	items    int
	session  int
	mode     ViewMode
	width    int
	height   int
	hero     bool
	sentinel bool
	footer   bool
}

// ViewportHeight is the number of rows available for content.
func (s *AppState) ViewportHeight() int {
	h := s.ScreenHeight - chromeRows
	if h < 1 {
		h = 1
	}
	return h
}

// ViewportWidth is the number of columns available for content.
func (s *AppState) ViewportWidth() int {
	if s.ScreenWidth < 1 {
		return 1
	}
	return s.ScreenWidth
}

// ShowHero reports whether the hero banner heads the content.
func (s *AppState) ShowHero() bool {
	return s.Gallery.IsDefaultFilter()
}

// GridColumns is the number of tiles per grid row.
func (s *AppState) GridColumns() int {
	cols := s.ViewportWidth() / minTileWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Units lays out the content for the current view mode.
func (s *AppState) Units() []RenderUnit {
	g := &s.Gallery
	sig := layoutSignature{
		items:    len(g.LoadedItems),
		session:  g.Session,
		mode:     g.ViewMode,
		width:    s.ViewportWidth(),
		height:   s.ViewportHeight(),
		hero:     s.ShowHero(),
		sentinel: s.SentinelPresent,
		footer:   !g.HasMore,
	}
	if s.unitsValid && s.unitsSig == sig {
		return s.unitsCache
	}

	units := make([]RenderUnit, 0, len(g.LoadedItems)+3)
	width := sig.width
	vh := sig.height
	y := 0

	if sig.hero {
		heroHeight := vh
		if g.ViewMode == ViewGrid {
			heroHeight = heroGridHeight
		}
		units = append(units, RenderUnit{Kind: UnitHero, Index: -1, Y: y, Width: width, Height: heroHeight})
		y += heroHeight
	}

	switch g.ViewMode {
	case ViewGrid:
		cols := s.GridColumns()
		tileW := width / cols
		for i, item := range g.LoadedItems {
			row, col := i/cols, i%cols
			units = append(units, RenderUnit{
				Kind:     UnitTile,
				Index:    i,
				ItemID:   item.ID,
				Category: item.Category,
				X:        col * tileW,
				Y:        y + row*tileHeight,
				Width:    tileW,
				Height:   tileHeight,
			})
		}
		rows := (len(g.LoadedItems) + cols - 1) / cols
		y += rows * tileHeight
	default:
		for i, item := range g.LoadedItems {
			units = append(units, RenderUnit{
				Kind:     UnitSection,
				Index:    i,
				ItemID:   item.ID,
				Category: item.Category,
				Y:        y,
				Width:    width,
				Height:   vh,
			})
			y += vh
		}
	}

	if sig.sentinel {
		units = append(units, RenderUnit{Kind: UnitSentinel, Index: -1, Y: y, Width: width, Height: sentinelHeight})
		y += sentinelHeight
	}
	if sig.footer {
		units = append(units, RenderUnit{Kind: UnitFooter, Index: -1, Y: y, Width: width, Height: footerHeight})
	}

	s.unitsCache = units
	s.unitsSig = sig
	s.unitsValid = true
	return units
}

// ContentHeight is the total height of all units.
func (s *AppState) ContentHeight() int {
	units := s.Units()
	if len(units) == 0 {
		return 0
	}
	return units[len(units)-1].Bottom()
}

// MaxScroll is the largest valid ScrollOffset.
func (s *AppState) MaxScroll() int {
	m := s.ContentHeight() - s.ViewportHeight()
	if m < 0 {
		return 0
	}
	return m
}

func (s *AppState) clampScroll() {
	if s.ScrollOffset > s.MaxScroll() {
		s.ScrollOffset = s.MaxScroll()
	}
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
}

// UnitForItem returns the unit rendering LoadedItems[index].
func (s *AppState) UnitForItem(index int) (RenderUnit, bool) {
	for _, u := range s.Units() {
		if (u.Kind == UnitSection || u.Kind == UnitTile) && u.Index == index {
			return u, true
		}
	}
	return RenderUnit{}, false
}

// FocusedIndex is the item the carousel and dialogs act on: the section under
// the viewport's middle row in feed mode, the selected tile in grid mode.
// It returns -1 when no item is focused.
func (s *AppState) FocusedIndex() int {
	items := len(s.Gallery.LoadedItems)
	if items == 0 {
		return -1
	}
	if s.Gallery.ViewMode == ViewGrid {
		if s.SelectedIndex < 0 || s.SelectedIndex >= items {
			return -1
		}
		return s.SelectedIndex
	}
	center := s.ScrollOffset + s.ViewportHeight()/2
	for _, u := range s.Units() {
		if u.Kind == UnitSection && center >= u.Y && center < u.Bottom() {
			return u.Index
		}
	}
	return -1
}

// UnitAt returns the unit under screen cell (x, y).
func (s *AppState) UnitAt(x, y int) (RenderUnit, bool) {
	if y < ViewportTop || y >= ViewportTop+s.ViewportHeight() {
		return RenderUnit{}, false
	}
	cy := s.ScrollOffset + y - ViewportTop
	for _, u := range s.Units() {
		if cy >= u.Y && cy < u.Bottom() && x >= u.X && x < u.X+u.Width {
			return u, true
		}
	}
	return RenderUnit{}, false
}
