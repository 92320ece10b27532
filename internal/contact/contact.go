// Package contact builds the "contact to buy" hand-off for an item: the
// greeting message and the deep link into the messaging platform.
package contact

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kk-code-lab/vitrina/internal/catalog"
)

// ClipboardError reports a failed best-effort clipboard copy.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return "clipboard copy failed: " + e.Err.Error()
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// Message returns the purchase request text for item.
func Message(item catalog.Item) string {
	return "Здравствуйте! Хочу приобрести \"" + item.Title + "\" за " + FormatPrice(item.Price) + "р."
}

// FormatPrice prints whole prices without a fractional part.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// DeepLink joins base and recipient and attaches message as the encoded
// "message" query parameter.
func DeepLink(base, recipient, message string) string {
	link := strings.TrimRight(base, "/") + recipient
	return link + "?message=" + url.QueryEscape(message)
}
