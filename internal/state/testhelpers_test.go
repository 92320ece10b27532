package state

import (
	"fmt"
	"testing"

	"github.com/kk-code-lab/vitrina/internal/catalog"
)

type fakePageLoader struct {
	requests  []PageLoadRequest
	cancelled []int
}

func (l *fakePageLoader) Start(req PageLoadRequest) {
	l.requests = append(l.requests, req)
}

func (l *fakePageLoader) Cancel(token int) {
	l.cancelled = append(l.cancelled, token)
}

func (l *fakePageLoader) last(t *testing.T) PageLoadRequest {
	t.Helper()
	if len(l.requests) == 0 {
		t.Fatalf("expected a page request")
	}
	return l.requests[len(l.requests)-1]
}

func newTestState(t *testing.T) (*AppState, *StateReducer, *fakePageLoader) {
	t.Helper()
	state := NewAppState(Options{
		PageSize:        10,
		RevealThreshold: 0.1,
		SpyThreshold:    0.5,
		ContactURL:      "https://vk.com/write",
		ContactID:       "487502463",
	})
	state.ScreenWidth = 80
	state.ScreenHeight = 24
	loader := &fakePageLoader{}
	state.PageLoader = loader
	state.SetDispatch(func(Action) {})
	return state, NewStateReducer(), loader
}

func reduce(t *testing.T, r *StateReducer, state *AppState, action Action) {
	t.Helper()
	if _, err := r.Reduce(state, action); err != nil {
		t.Fatalf("Reduce(%T): %v", action, err)
	}
}

// respond answers req with items as the loader would.
func respond(t *testing.T, r *StateReducer, state *AppState, req PageLoadRequest, items []catalog.Item, err error) {
	t.Helper()
	reduce(t, r, state, PageLoadResultAction{
		Token:   req.Token,
		Session: req.Session,
		Query:   req.Query,
		Items:   items,
		Err:     err,
	})
}

func makeItems(start, n int, category string) []catalog.Item {
	items := make([]catalog.Item, 0, n)
	for i := 0; i < n; i++ {
		id := start + i
		items = append(items, catalog.Item{
			ID:       id,
			Title:    fmt.Sprintf("Работа %d", id),
			Price:    float64(100 * id),
			Category: category,
			Images:   []string{fmt.Sprintf("/img/%d-a.jpg", id), fmt.Sprintf("/img/%d-b.jpg", id), fmt.Sprintf("/img/%d-c.jpg", id)},
		})
	}
	return items
}

func itemIDs(items []catalog.Item) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

type fakeImageLoader struct {
	urls []string
}

func (l *fakeImageLoader) Start(req ImageLoadRequest) {
	l.urls = append(l.urls, req.URL)
}

func (l *fakeImageLoader) count(url string) int {
	n := 0
	for _, u := range l.urls {
		if u == url {
			n++
		}
	}
	return n
}
