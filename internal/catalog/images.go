package catalog

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	maxImageBytes = 16 << 20
	// thumbnailMaxDim bounds decoded images; terminal cells never need more.
	thumbnailMaxDim = 320
)

// ImageFetcher downloads and decodes item images.
type ImageFetcher struct {
	http *http.Client
}

// NewImageFetcher creates a fetcher. A nil client uses http.DefaultClient.
func NewImageFetcher(client *http.Client) *ImageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageFetcher{http: client}
}

// Fetch downloads rawURL and returns the image scaled to fit a thumbnail box.
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: rawURL, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	return DecodeThumbnail(data)
}

// DecodeThumbnail decodes data and shrinks it to at most thumbnailMaxDim on
// either side, keeping the aspect ratio.
func DecodeThumbnail(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > thumbnailMaxDim || b.Dy() > thumbnailMaxDim {
		img = imaging.Fit(img, thumbnailMaxDim, thumbnailMaxDim, imaging.Lanczos)
	}
	return img, nil
}
