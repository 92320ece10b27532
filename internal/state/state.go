package state

import (
	"io"
	"log"
	"time"

	"github.com/kk-code-lab/vitrina/internal/catalog"
)

// DialogKind identifies the open modal dialog.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogDescription
	DialogContact
)

// Options configures a new AppState.
type Options struct {
	PageSize        int
	ViewMode        ViewMode
	Category        string
	Search          string
	SearchDebounce  time.Duration
	Fade            time.Duration
	RevealThreshold float64
	SpyThreshold    float64
	LookaheadRows   int
	Title           string
	ContactURL      string
	ContactID       string
	Logger          *log.Logger
}

// ===== STATE DEFINITIONS =====

// AppState is the single source of truth
type AppState struct {
	// Gallery session: filter, cursor and loaded items
	Gallery    GalleryState
	PageSize   int
	PageLoader PageLoader

	// Categories
	Categories          []catalog.Category
	HighlightedCategory string

	// Search input; SearchInput is what the user typed, Gallery.SearchTerm
	// what was committed after the debounce.
	SearchActive   bool
	SearchInput    string
	SearchDebounce time.Duration
	searchToken    int
	searchTimer    *time.Timer

	// Viewport
	ScreenWidth   int
	ScreenHeight  int
	ScrollOffset  int
	SelectedIndex int // grid selection

	// Presentation
	Title           string
	Views           map[int]*ItemView // by item id
	Images          map[string]*ImageEntry
	ImageLoader     ImageLoader
	imageClock      uint64
	FadeDuration    time.Duration
	SentinelPresent bool
	LookaheadRows   int

	revealWatcher   *Watcher
	spyWatcher      *Watcher
	sentinelWatcher *Watcher

	// Dialogs
	HelpVisible    bool
	Dialog         DialogKind
	DialogItemID   int
	ContactURL     string
	ContactID      string
	ContactMessage string
	ContactLink    string
	LastCopyTime   time.Time

	// Loader bookkeeping
	activeLoadToken int
	loadTokenSeq    int

	Logger     *log.Logger
	InstanceID string

	// Error state
	LastError error

	dispatchAction func(Action)

	unitsCache []RenderUnit
	unitsSig   layoutSignature
	unitsValid bool
}

// NewAppState builds the initial state for one gallery.
func NewAppState(opts Options) *AppState {
	if opts.PageSize < 1 {
		opts.PageSize = 5
	}
	if opts.ViewMode == "" {
		opts.ViewMode = ViewFeed
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &AppState{
		Gallery:             NewGalleryState(opts.ViewMode),
		PageSize:            opts.PageSize,
		Categories:          catalog.DefaultCategories(),
		HighlightedCategory: catalog.AllCategories,
		SearchDebounce:      opts.SearchDebounce,
		Title:               opts.Title,
		Views:               make(map[int]*ItemView),
		Images:              make(map[string]*ImageEntry),
		FadeDuration:        opts.Fade,
		LookaheadRows:       opts.LookaheadRows,
		revealWatcher:       NewWatcher(opts.RevealThreshold, 0),
		spyWatcher:          NewWatcher(opts.SpyThreshold, 0),
		sentinelWatcher:     NewWatcher(0, 0),
		ContactURL:          opts.ContactURL,
		ContactID:           opts.ContactID,
		Logger:              logger,
	}
	if opts.Category != "" {
		s.Gallery.Category = opts.Category
		s.HighlightedCategory = opts.Category
	}
	if opts.Search != "" {
		s.Gallery.SearchTerm = normalizeSearch(opts.Search)
		s.SearchInput = s.Gallery.SearchTerm
	}
	return s
}

// ===== HELPER METHODS =====

func (s *AppState) setDispatch(fn func(Action)) {
	s.dispatchAction = fn
}

func (s *AppState) getDispatch() func(Action) {
	return s.dispatchAction
}

// SetDispatch exposes the reducer dispatch hook to other packages.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.setDispatch(fn)
}

func (s *AppState) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// ItemByID looks an item up among the loaded items.
func (s *AppState) ItemByID(id int) (catalog.Item, bool) {
	for _, it := range s.Gallery.LoadedItems {
		if it.ID == id {
			return it, true
		}
	}
	return catalog.Item{}, false
}

// FocusedItem returns the item under focus, if any.
func (s *AppState) FocusedItem() (catalog.Item, bool) {
	idx := s.FocusedIndex()
	if idx < 0 {
		return catalog.Item{}, false
	}
	return s.Gallery.LoadedItems[idx], true
}

// View returns the view-model for an item id, creating it on first use.
func (s *AppState) View(id int) *ItemView {
	if s.Views == nil {
		s.Views = make(map[int]*ItemView)
	}
	v, ok := s.Views[id]
	if !ok {
		v = &ItemView{}
		s.Views[id] = v
	}
	return v
}

// CurrentImageURL is the image the carousel of item shows, or "" when the
// item has no images.
func (s *AppState) CurrentImageURL(item catalog.Item) string {
	if len(item.Images) == 0 {
		return ""
	}
	idx := s.View(item.ID).ImageIndex
	if idx < 0 || idx >= len(item.Images) {
		idx = 0
	}
	return item.Images[idx]
}

func (s *AppState) touchImage(e *ImageEntry) {
	s.imageClock++
	e.lastUsed = s.imageClock
}

// CategoryName returns the display label for slug.
func (s *AppState) CategoryName(slug string) string {
	if slug == catalog.AllCategories {
		return "Все"
	}
	for _, c := range s.Categories {
		if c.Slug == slug {
			return c.Name
		}
	}
	return slug
}

// KnownCategory reports whether slug is "all" or in the vocabulary.
func (s *AppState) KnownCategory(slug string) bool {
	if slug == catalog.AllCategories {
		return true
	}
	for _, c := range s.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// MenuSlugs is the category menu order, starting with "all".
func (s *AppState) MenuSlugs() []string {
	slugs := make([]string, 0, len(s.Categories)+1)
	slugs = append(slugs, catalog.AllCategories)
	for _, c := range s.Categories {
		slugs = append(slugs, c.Slug)
	}
	return slugs
}

// Animating reports whether some carousel is mid-fade at now.
func (s *AppState) Animating(now time.Time) bool {
	for _, v := range s.Views {
		if v.Fading(now, s.FadeDuration) {
			return true
		}
	}
	return false
}

func (s *AppState) lookahead() int {
	if s.LookaheadRows > 0 {
		return s.LookaheadRows
	}
	return s.ViewportHeight()
}

func (s *AppState) nextLoadToken() int {
	s.loadTokenSeq++
	return s.loadTokenSeq
}

