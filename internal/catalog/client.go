package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	itemsPath      = "/api/items"
	categoriesPath = "/api/categories"

	// maxResponseBytes bounds how much of a response body is decoded.
	maxResponseBytes = 8 << 20
)

// ItemSource fetches pages of items.
type ItemSource interface {
	FetchItems(ctx context.Context, q ItemQuery) ([]Item, error)
}

// Client talks to the catalog REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host required", baseURL)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// HTTPClient exposes the underlying client so image downloads share its transport.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// ResolveURL resolves an image reference from an item against the API root.
// Absolute references are returned unchanged.
func (c *Client) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.baseURL.ResolveReference(u).String()
}

// ItemsURL builds the items URL for q. Default-valued filters are omitted.
func (c *Client) ItemsURL(q ItemQuery) string {
	u := *c.baseURL
	u.Path = u.Path + itemsPath
	u.RawQuery = QueryValues(q).Encode()
	return u.String()
}

// QueryValues encodes q, leaving out the "all" category and an empty search.
func QueryValues(q ItemQuery) url.Values {
	values := url.Values{}
	if q.Category != "" && q.Category != AllCategories {
		values.Set("category", q.Category)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	values.Set("page", strconv.Itoa(page))
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// FetchItems returns one page of items. An empty slice means the filter has
// no more items.
func (c *Client) FetchItems(ctx context.Context, q ItemQuery) ([]Item, error) {
	var items []Item
	if err := c.getJSON(ctx, c.ItemsURL(q), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// FetchCategories returns the category vocabulary.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	u := *c.baseURL
	u.Path = u.Path + categoriesPath
	var cats []Category
	if err := c.getJSON(ctx, u.String(), &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &NetworkError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{URL: rawURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &NetworkError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{URL: rawURL, Err: err}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ParseError{URL: rawURL, Err: err}
	}
	return nil
}
