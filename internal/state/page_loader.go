package state

import (
	"context"
	"sync"
	"time"

	"github.com/kk-code-lab/vitrina/internal/catalog"
)

// PageLoader fetches item pages asynchronously.
type PageLoader interface {
	Start(req PageLoadRequest)
	Cancel(token int)
}

// PageLoadRequest describes one page fetch.
type PageLoadRequest struct {
	Token    int
	Session  int
	Query    catalog.ItemQuery
	Callback func(PageLoadResult)
}

// PageLoadResult is emitted by PageLoader once the fetch completes.
type PageLoadResult struct {
	Token   int
	Session int
	Query   catalog.ItemQuery
	Items   []catalog.Item
	Err     error
}

// NewAsyncPageLoader constructs the default goroutine-based loader.
func NewAsyncPageLoader(source catalog.ItemSource, timeout time.Duration) PageLoader {
	return &asyncPageLoader{
		source:  source,
		timeout: timeout,
		jobs:    make(map[int]context.CancelFunc),
	}
}

type asyncPageLoader struct {
	source  catalog.ItemSource
	timeout time.Duration
	mu      sync.Mutex
	jobs    map[int]context.CancelFunc
}

func (l *asyncPageLoader) Start(req PageLoadRequest) {
	if req.Token == 0 || req.Callback == nil {
		return
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), l.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	l.mu.Lock()
	l.jobs[req.Token] = cancel
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			delete(l.jobs, req.Token)
			l.mu.Unlock()
			cancel()
		}()

		items, err := l.source.FetchItems(ctx, req.Query)

		if ctx.Err() == context.Canceled {
			return
		}

		req.Callback(PageLoadResult{
			Token:   req.Token,
			Session: req.Session,
			Query:   req.Query,
			Items:   items,
			Err:     err,
		})
	}()
}

func (l *asyncPageLoader) Cancel(token int) {
	l.mu.Lock()
	if cancel, ok := l.jobs[token]; ok {
		cancel()
		delete(l.jobs, token)
	}
	l.mu.Unlock()
}
