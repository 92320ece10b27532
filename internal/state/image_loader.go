package state

import (
	"context"
	"image"
	"time"
)

// ImageSource fetches and decodes one image.
type ImageSource interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// ImageLoader fetches item images asynchronously.
type ImageLoader interface {
	Start(req ImageLoadRequest)
}

// ImageLoadRequest describes an image to fetch.
type ImageLoadRequest struct {
	URL      string
	Callback func(ImageLoadResult)
}

// ImageLoadResult carries the decoded image or any error.
type ImageLoadResult struct {
	URL   string
	Image image.Image
	Err   error
}

// ImageEntry is the cached state of one image URL.
type ImageEntry struct {
	Image   image.Image
	Loading bool
	Err     error

	lastUsed uint64
}

const (
	maxCachedImages     = 256
	maxConcurrentImages = 4
)

// NewAsyncImageLoader constructs a loader running at most a few downloads
// at once.
func NewAsyncImageLoader(source ImageSource, timeout time.Duration) ImageLoader {
	return &asyncImageLoader{
		source:  source,
		timeout: timeout,
		slots:   make(chan struct{}, maxConcurrentImages),
	}
}

type asyncImageLoader struct {
	source  ImageSource
	timeout time.Duration
	slots   chan struct{}
}

func (l *asyncImageLoader) Start(req ImageLoadRequest) {
	if req.URL == "" || req.Callback == nil {
		return
	}
	go func() {
		l.slots <- struct{}{}
		defer func() { <-l.slots }()

		ctx := context.Background()
		if l.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, l.timeout)
			defer cancel()
		}
		img, err := l.source.Fetch(ctx, req.URL)
		req.Callback(ImageLoadResult{URL: req.URL, Image: img, Err: err})
	}()
}
