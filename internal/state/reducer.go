package state

import (
	"errors"
	"sort"
	"time"

	"github.com/kk-code-lab/vitrina/internal/catalog"
	"github.com/kk-code-lab/vitrina/internal/contact"
)

const wheelScrollRows = 3

// ===== REDUCER =====

// StateReducer applies actions to state
type StateReducer struct {
	now func() time.Time
}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{now: time.Now}
}

// Reduce applies an action to state. All mutation happens here, on the
// caller's goroutine; loaders and timers report back through dispatch.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	g := &state.Gallery

	switch a := action.(type) {

	// ===== LOADER =====

	case StartAction:
		state.SentinelPresent = true
		r.requestPage(state)
		r.observe(state)
		return state, nil

	case LoadMoreAction:
		if g.Status() != LoaderIdle {
			return state, nil
		}
		state.LastError = nil
		state.SentinelPresent = true
		r.requestPage(state)
		r.observe(state)
		return state, nil

	case SentinelVisibleAction:
		if !state.SentinelPresent {
			return state, nil
		}
		r.requestPage(state)
		return state, nil

	case PageLoadResultAction:
		if a.Token == 0 || a.Token != state.activeLoadToken || a.Session != g.Session || !g.IsLoading {
			state.logf("discarding stale page %d (token %d, session %d)", a.Query.Page, a.Token, a.Session)
			return state, nil
		}
		state.activeLoadToken = 0

		if a.Err != nil {
			g.FailLoad()
			state.SentinelPresent = false
			state.LastError = a.Err
			state.logf("page %d failed: %v", a.Query.Page, a.Err)
			return state, nil
		}

		if len(a.Items) == 0 {
			g.MarkExhausted()
			state.SentinelPresent = false
			state.logf("filter %q/%q exhausted after %d items", g.Category, g.SearchTerm, len(g.LoadedItems))
			r.observe(state)
			return state, nil
		}

		g.AppendItems(a.Items)
		for _, it := range a.Items {
			state.View(it.ID)
		}
		state.LastError = nil
		state.sentinelWatcher.Forget(sentinelKey)
		r.observe(state)
		return state, nil

	case CategoriesLoadedAction:
		if a.Err != nil || len(a.Categories) == 0 {
			if a.Err != nil {
				state.logf("categories unavailable, using defaults: %v", a.Err)
			}
			state.Categories = catalog.DefaultCategories()
		} else {
			state.Categories = a.Categories
		}
		// A starting category from flags or env may not exist in the catalog.
		if !state.KnownCategory(g.Category) {
			state.logf("unknown category %q, showing all", g.Category)
			r.selectCategory(state, catalog.AllCategories)
		}
		return state, nil

	case ImageLoadResultAction:
		entry := state.Images[a.URL]
		if entry == nil {
			entry = &ImageEntry{}
			state.Images[a.URL] = entry
		}
		entry.Loading = false
		entry.Image = a.Image
		entry.Err = a.Err
		if a.Err != nil {
			state.logf("image %s: %v", a.URL, a.Err)
		}
		return state, nil

	// ===== VISIBILITY =====

	case UnitVisibleAction:
		if a.Index < 0 || a.Index >= len(g.LoadedItems) {
			return state, nil
		}
		item := g.LoadedItems[a.Index]
		state.View(item.ID).Revealed = true
		r.requestImage(state, state.CurrentImageURL(item))
		return state, nil

	case UnitSpiedAction:
		if g.Category != catalog.AllCategories || a.Category == "" {
			return state, nil
		}
		state.HighlightedCategory = a.Category
		return state, nil

	// ===== FILTERS =====

	case CategorySelectAction:
		slug := a.Slug
		if slug == "" {
			slug = catalog.AllCategories
		}
		if !state.KnownCategory(slug) {
			return state, nil
		}
		r.selectCategory(state, slug)
		return state, nil

	case CategoryCycleAction:
		slugs := state.MenuSlugs()
		cur := 0
		for i, s := range slugs {
			if s == g.Category {
				cur = i
				break
			}
		}
		next := (cur + a.Delta) % len(slugs)
		if next < 0 {
			next += len(slugs)
		}
		r.selectCategory(state, slugs[next])
		return state, nil

	case ResetToTopAction:
		state.cancelSearchTimer()
		state.SearchInput = ""
		state.SearchActive = false
		state.Dialog = DialogNone
		if g.IsDefaultFilter() {
			state.ScrollOffset = 0
			state.SelectedIndex = 0
			state.HighlightedCategory = catalog.AllCategories
			r.observe(state)
			return state, nil
		}
		r.selectCategory(state, catalog.AllCategories)
		return state, nil

	case SearchStartAction:
		state.SearchActive = true
		return state, nil

	case SearchCharAction:
		if !state.SearchActive {
			return state, nil
		}
		state.SearchInput += string(a.Char)
		r.scheduleSearchCommit(state)
		return state, nil

	case SearchBackspaceAction:
		if !state.SearchActive || state.SearchInput == "" {
			return state, nil
		}
		runes := []rune(state.SearchInput)
		state.SearchInput = string(runes[:len(runes)-1])
		r.scheduleSearchCommit(state)
		return state, nil

	case SearchClearAction:
		if state.SearchInput == "" {
			state.SearchActive = false
			return state, nil
		}
		state.SearchInput = ""
		r.scheduleSearchCommit(state)
		return state, nil

	case SearchExitAction:
		state.SearchActive = false
		return state, nil

	case SearchSubmitAction:
		state.cancelSearchTimer()
		state.searchToken++
		state.SearchActive = false
		r.commitSearch(state)
		return state, nil

	case SearchCommitAction:
		if a.Token != state.searchToken {
			return state, nil
		}
		state.cancelSearchTimer()
		r.commitSearch(state)
		return state, nil

	// ===== VIEW =====

	case ViewToggleAction:
		focused := state.FocusedIndex()
		next := ViewGrid
		if g.ViewMode == ViewGrid {
			next = ViewFeed
		}
		g.SetViewMode(next)
		r.rebuildViews(state)
		if focused >= 0 {
			state.SelectedIndex = focused
			if u, ok := state.UnitForItem(focused); ok {
				state.ScrollOffset = u.Y
			}
		} else {
			state.SelectedIndex = 0
		}
		state.clampScroll()
		r.observe(state)
		return state, nil

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.clampScroll()
		r.observe(state)
		return state, nil

	case ScrollAction:
		r.scrollBy(state, a.Delta*wheelScrollRows)
		return state, nil

	case ScrollPageAction:
		r.scrollBy(state, a.Direction*state.ViewportHeight())
		return state, nil

	case ScrollUnitAction:
		r.scrollToUnit(state, a.Direction)
		return state, nil

	case ScrollEndAction:
		r.scrollBy(state, state.MaxScroll()-state.ScrollOffset)
		return state, nil

	case SelectMoveAction:
		if g.ViewMode != ViewGrid || len(g.LoadedItems) == 0 {
			return state, nil
		}
		idx := state.SelectedIndex + a.DX + a.DY*state.GridColumns()
		r.selectTile(state, idx)
		return state, nil

	case SelectIndexAction:
		if g.ViewMode != ViewGrid {
			return state, nil
		}
		r.selectTile(state, a.Index)
		return state, nil

	case CarouselAction:
		if g.ViewMode != ViewFeed || (a.Direction != 1 && a.Direction != -1) {
			return state, nil
		}
		item, ok := state.FocusedItem()
		if !ok || len(item.Images) < 2 {
			return state, nil
		}
		view := state.View(item.ID)
		view.PrevIndex = view.ImageIndex
		view.ImageIndex = Advance(view.ImageIndex, a.Direction, len(item.Images))
		view.FadeStart = r.now()
		r.requestImage(state, item.Images[view.ImageIndex])
		return state, nil

	// ===== DIALOGS =====

	case DescriptionOpenAction:
		item, ok := state.FocusedItem()
		if !ok {
			return state, nil
		}
		state.Dialog = DialogDescription
		state.DialogItemID = item.ID
		return state, nil

	case ContactOpenAction:
		item, ok := state.FocusedItem()
		if !ok {
			return state, nil
		}
		state.Dialog = DialogContact
		state.DialogItemID = item.ID
		state.ContactMessage = contact.Message(item)
		state.ContactLink = contact.DeepLink(state.ContactURL, state.ContactID, state.ContactMessage)
		return state, nil

	case DialogCloseAction:
		state.Dialog = DialogNone
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		state.HelpVisible = false
		return state, nil

	case QuitAction, SuspendAction, ContactSendAction:
		return state, nil
	}

	return state, nil
}

// requestPage performs the IDLE -> LOADING transition if allowed. The
// in-flight flag is claimed before the loader goroutine starts.
func (r *StateReducer) requestPage(state *AppState) bool {
	g := &state.Gallery
	loader := state.PageLoader
	dispatch := state.getDispatch()
	if loader == nil || dispatch == nil {
		return false
	}
	if !g.BeginLoad() {
		return false
	}

	state.SentinelPresent = true
	token := state.nextLoadToken()
	state.activeLoadToken = token
	query := g.Query(state.PageSize)
	state.logf("requesting page %d (category=%q search=%q session=%d)", query.Page, query.Category, query.Search, g.Session)

	loader.Start(PageLoadRequest{
		Token:   token,
		Session: g.Session,
		Query:   query,
		Callback: func(result PageLoadResult) {
			dispatch(PageLoadResultAction(result))
		},
	})
	return true
}

// resetView abandons any in-flight request and rebuilds every
// presentational structure after the gallery session was reset.
func (r *StateReducer) resetView(state *AppState) {
	if token := state.activeLoadToken; token != 0 && state.PageLoader != nil {
		state.PageLoader.Cancel(token)
	}
	state.activeLoadToken = 0
	state.SentinelPresent = false
	state.ScrollOffset = 0
	state.SelectedIndex = 0
	state.Dialog = DialogNone
	r.rebuildViews(state)
}

// rebuildViews drops per-unit presentation state and visibility history.
func (r *StateReducer) rebuildViews(state *AppState) {
	state.Views = make(map[int]*ItemView, len(state.Gallery.LoadedItems))
	for _, it := range state.Gallery.LoadedItems {
		state.View(it.ID)
	}
	state.revealWatcher.Reset()
	state.spyWatcher.Reset()
	state.sentinelWatcher.Reset()
}

func (r *StateReducer) selectCategory(state *AppState, slug string) {
	state.cancelSearchTimer()
	state.searchToken++
	state.SearchInput = ""
	state.SearchActive = false
	g := &state.Gallery
	g.SearchTerm = ""
	if !g.SetCategory(slug) {
		g.Reset()
	}
	state.HighlightedCategory = slug
	r.resetView(state)
	r.requestPage(state)
	r.observe(state)
}

func (r *StateReducer) commitSearch(state *AppState) {
	g := &state.Gallery
	if !g.SetSearch(normalizeSearch(state.SearchInput)) {
		g.Reset()
	}
	r.resetView(state)
	r.requestPage(state)
	r.observe(state)
}

func (r *StateReducer) scrollBy(state *AppState, delta int) {
	state.ScrollOffset += delta
	state.clampScroll()
	r.rearmSentinel(state)
	r.observe(state)
}

func (r *StateReducer) scrollToUnit(state *AppState, direction int) {
	units := state.Units()
	target := state.ScrollOffset
	if direction > 0 {
		target = state.MaxScroll()
		for _, u := range units {
			if u.Y > state.ScrollOffset {
				target = u.Y
				break
			}
		}
	} else {
		target = 0
		for i := len(units) - 1; i >= 0; i-- {
			if units[i].Y < state.ScrollOffset {
				target = units[i].Y
				break
			}
		}
	}
	r.scrollBy(state, target-state.ScrollOffset)
}

func (r *StateReducer) selectTile(state *AppState, idx int) {
	items := len(state.Gallery.LoadedItems)
	if idx < 0 {
		idx = 0
	}
	if idx >= items {
		idx = items - 1
	}
	state.SelectedIndex = idx
	u, ok := state.UnitForItem(idx)
	if !ok {
		return
	}
	vh := state.ViewportHeight()
	offset := state.ScrollOffset
	if u.Y < offset {
		offset = u.Y
	} else if u.Bottom() > offset+vh {
		offset = u.Bottom() - vh
	}
	r.scrollBy(state, offset-state.ScrollOffset)
}

// rearmSentinel puts the sentinel back after a failed load so scrolling near
// the end retries.
func (r *StateReducer) rearmSentinel(state *AppState) {
	g := &state.Gallery
	if state.SentinelPresent || g.IsLoading || !g.HasMore {
		return
	}
	state.SentinelPresent = true
	state.sentinelWatcher.Forget(sentinelKey)
}

// observe evaluates the visibility watchers against the current viewport and
// feeds the resulting events back into the reducer.
func (r *StateReducer) observe(state *AppState) {
	units := state.Units()
	top := state.ScrollOffset
	height := state.ViewportHeight()

	isItem := func(u RenderUnit) bool { return u.Kind == UnitSection || u.Kind == UnitTile }

	for _, u := range state.revealWatcher.Evaluate(units, top, height, isItem) {
		_, _ = r.Reduce(state, UnitVisibleAction{Index: u.Index, ItemID: u.ItemID})
	}

	if state.Gallery.Category == catalog.AllCategories {
		for _, u := range state.spyWatcher.Evaluate(units, top, height, isItem) {
			_, _ = r.Reduce(state, UnitSpiedAction{Index: u.Index, Category: u.Category})
		}
	}

	// Revealed units whose image was evicted fetch it again.
	for _, u := range visibleItemUnits(state) {
		if u.Index >= len(state.Gallery.LoadedItems) {
			continue
		}
		item := state.Gallery.LoadedItems[u.Index]
		if state.View(item.ID).Revealed {
			r.requestImage(state, state.CurrentImageURL(item))
		}
	}

	if state.SentinelPresent {
		state.sentinelWatcher.Margin = state.lookahead()
		isSentinel := func(u RenderUnit) bool { return u.Kind == UnitSentinel }
		if fired := state.sentinelWatcher.Evaluate(units, top, height, isSentinel); len(fired) > 0 {
			_, _ = r.Reduce(state, SentinelVisibleAction{})
		}
	}
}

func (r *StateReducer) requestImage(state *AppState, url string) {
	if url == "" {
		return
	}
	if entry, ok := state.Images[url]; ok {
		state.touchImage(entry)
		return
	}
	loader := state.ImageLoader
	dispatch := state.getDispatch()
	if loader == nil || dispatch == nil {
		return
	}
	if len(state.Images) >= maxCachedImages {
		evictImages(state)
	}
	entry := &ImageEntry{Loading: true}
	state.touchImage(entry)
	state.Images[url] = entry
	loader.Start(ImageLoadRequest{
		URL: url,
		Callback: func(result ImageLoadResult) {
			dispatch(ImageLoadResultAction(result))
		},
	})
}

// evictImages drops the least recently used finished images until the cache
// is a quarter below its limit. Images shown by on-screen units stay.
func evictImages(state *AppState) {
	keep := make(map[string]bool)
	for _, u := range visibleItemUnits(state) {
		if u.Index < len(state.Gallery.LoadedItems) {
			keep[state.CurrentImageURL(state.Gallery.LoadedItems[u.Index])] = true
		}
	}

	type candidate struct {
		url  string
		used uint64
	}
	var candidates []candidate
	for url, e := range state.Images {
		if e.Loading || keep[url] {
			continue
		}
		candidates = append(candidates, candidate{url: url, used: e.lastUsed})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].used < candidates[j].used })

	excess := len(state.Images) - (maxCachedImages - maxCachedImages/4)
	for i := 0; i < excess && i < len(candidates); i++ {
		delete(state.Images, candidates[i].url)
	}
}

// visibleItemUnits returns the section and tile units overlapping the viewport.
func visibleItemUnits(state *AppState) []RenderUnit {
	top := state.ScrollOffset
	bottom := top + state.ViewportHeight()
	var out []RenderUnit
	for _, u := range state.Units() {
		if u.Kind != UnitSection && u.Kind != UnitTile {
			continue
		}
		if u.Bottom() > top && u.Y < bottom {
			out = append(out, u)
		}
	}
	return out
}

// IsNetworkFailure reports whether err came from the fetch layer.
func IsNetworkFailure(err error) bool {
	var netErr *catalog.NetworkError
	var parseErr *catalog.ParseError
	return errors.As(err, &netErr) || errors.As(err, &parseErr)
}
