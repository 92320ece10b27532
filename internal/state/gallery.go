package state

import "github.com/kk-code-lab/vitrina/internal/catalog"

// ViewMode selects how loaded items are laid out.
type ViewMode string

const (
	ViewFeed ViewMode = "feed"
	ViewGrid ViewMode = "grid"
)

// ParseViewMode maps a config value to a ViewMode, defaulting to feed.
func ParseViewMode(s string) ViewMode {
	if s == string(ViewGrid) {
		return ViewGrid
	}
	return ViewFeed
}

// LoaderStatus is the incremental loader's position in its state machine.
type LoaderStatus int

const (
	LoaderIdle LoaderStatus = iota
	LoaderLoading
	LoaderExhausted
)

func (s LoaderStatus) String() string {
	switch s {
	case LoaderLoading:
		return "loading"
	case LoaderExhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

// GalleryState holds the filter, pagination cursor and items of one gallery
// session.
type GalleryState struct {
	Category    string
	SearchTerm  string
	ViewMode    ViewMode
	Page        int
	IsLoading   bool
	HasMore     bool
	LoadedItems []catalog.Item

	// Session changes on every Reset; results tagged with an older session
	// belong to a discarded filter and must not be applied.
	Session int
}

// NewGalleryState returns an unfiltered gallery ready to load page 1.
func NewGalleryState(mode ViewMode) GalleryState {
	return GalleryState{
		Category: catalog.AllCategories,
		ViewMode: mode,
		Page:     1,
		HasMore:  true,
		Session:  1,
	}
}

// SetCategory changes the category filter, resetting the session when the
// value differs. It reports whether a reset happened.
func (g *GalleryState) SetCategory(slug string) bool {
	if slug == "" {
		slug = catalog.AllCategories
	}
	if slug == g.Category {
		return false
	}
	g.Category = slug
	g.Reset()
	return true
}

// SetSearch changes the search filter, resetting the session when the value
// differs. It reports whether a reset happened.
func (g *GalleryState) SetSearch(term string) bool {
	if term == g.SearchTerm {
		return false
	}
	g.SearchTerm = term
	g.Reset()
	return true
}

// SetViewMode changes the presentation mode. Loaded items are kept.
func (g *GalleryState) SetViewMode(mode ViewMode) bool {
	if mode == g.ViewMode {
		return false
	}
	g.ViewMode = mode
	return true
}

// Reset clears pagination and items and starts a new session.
func (g *GalleryState) Reset() {
	g.Page = 1
	g.HasMore = true
	g.IsLoading = false
	g.LoadedItems = nil
	g.Session++
}

// BeginLoad claims the single in-flight slot. It returns false when a load
// is already running or the filter is exhausted.
func (g *GalleryState) BeginLoad() bool {
	if g.IsLoading || !g.HasMore {
		return false
	}
	g.IsLoading = true
	return true
}

// AppendItems records a successful non-empty page: items are appended in
// backend order and the cursor advances. No dedup by id is performed.
func (g *GalleryState) AppendItems(items []catalog.Item) {
	g.IsLoading = false
	if len(items) == 0 {
		return
	}
	g.LoadedItems = append(g.LoadedItems, items...)
	g.Page++
}

// MarkExhausted records that the backend has no more items for the filter.
func (g *GalleryState) MarkExhausted() {
	g.IsLoading = false
	g.HasMore = false
}

// FailLoad releases the in-flight slot without touching the cursor or
// HasMore, so the same page can be requested again.
func (g *GalleryState) FailLoad() {
	g.IsLoading = false
}

// Status derives the loader state.
func (g *GalleryState) Status() LoaderStatus {
	switch {
	case g.IsLoading:
		return LoaderLoading
	case !g.HasMore:
		return LoaderExhausted
	default:
		return LoaderIdle
	}
}

// IsDefaultFilter reports whether neither category nor search is applied.
func (g *GalleryState) IsDefaultFilter() bool {
	return g.Category == catalog.AllCategories && g.SearchTerm == ""
}

// Query describes the next page to request.
func (g *GalleryState) Query(limit int) catalog.ItemQuery {
	return catalog.ItemQuery{
		Category: g.Category,
		Search:   g.SearchTerm,
		Page:     g.Page,
		Limit:    limit,
	}
}
