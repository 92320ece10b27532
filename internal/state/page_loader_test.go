package state

import (
	"context"
	"testing"
	"time"

	"github.com/kk-code-lab/vitrina/internal/catalog"
)

type blockingSource struct {
	started chan catalog.ItemQuery
	release chan struct{}
	items   []catalog.Item
}

func (s *blockingSource) FetchItems(ctx context.Context, q catalog.ItemQuery) ([]catalog.Item, error) {
	s.started <- q
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.release:
		return s.items, nil
	}
}

func TestAsyncPageLoaderDeliversResult(t *testing.T) {
	source := &blockingSource{
		started: make(chan catalog.ItemQuery, 1),
		release: make(chan struct{}),
		items:   makeItems(1, 2, "doll"),
	}
	loader := NewAsyncPageLoader(source, time.Second)
	results := make(chan PageLoadResult, 1)

	loader.Start(PageLoadRequest{
		Token:    7,
		Session:  3,
		Query:    catalog.ItemQuery{Category: "doll", Page: 2, Limit: 5},
		Callback: func(r PageLoadResult) { results <- r },
	})
	if q := <-source.started; q.Page != 2 {
		t.Fatalf("unexpected query %+v", q)
	}
	close(source.release)

	select {
	case res := <-results:
		if res.Token != 7 || res.Session != 3 || len(res.Items) != 2 || res.Err != nil {
			t.Fatalf("unexpected result %+v", res)
		}
	case <-time.After(time.Second):
		t.Fatalf("loader never reported")
	}
}

func TestAsyncPageLoaderCancelSuppressesCallback(t *testing.T) {
	source := &blockingSource{
		started: make(chan catalog.ItemQuery, 1),
		release: make(chan struct{}),
	}
	loader := NewAsyncPageLoader(source, 0)
	results := make(chan PageLoadResult, 1)

	loader.Start(PageLoadRequest{
		Token:    1,
		Query:    catalog.ItemQuery{Page: 1},
		Callback: func(r PageLoadResult) { results <- r },
	})
	<-source.started
	loader.Cancel(1)

	select {
	case res := <-results:
		t.Fatalf("cancelled load reported %+v", res)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAsyncPageLoaderTimeoutReportsError(t *testing.T) {
	source := &blockingSource{
		started: make(chan catalog.ItemQuery, 1),
		release: make(chan struct{}),
	}
	loader := NewAsyncPageLoader(source, 10*time.Millisecond)
	results := make(chan PageLoadResult, 1)

	loader.Start(PageLoadRequest{
		Token:    2,
		Query:    catalog.ItemQuery{Page: 1},
		Callback: func(r PageLoadResult) { results <- r },
	})

	select {
	case res := <-results:
		if res.Err == nil {
			t.Fatalf("expected timeout error")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out load never reported")
	}
}
