package contact

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/kk-code-lab/vitrina/internal/catalog"
)

func TestMessageEmbedsTitleAndPrice(t *testing.T) {
	got := Message(catalog.Item{Title: "Кукла Маша", Price: 1500})
	want := "Здравствуйте! Хочу приобрести \"Кукла Маша\" за 1500р."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := map[float64]string{
		1500:   "1500",
		99.5:   "99.5",
		0:      "0",
		1250.2: "1250.2",
	}
	for in, want := range tests {
		if got := FormatPrice(in); got != want {
			t.Fatalf("FormatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDeepLinkEncodesMessage(t *testing.T) {
	msg := Message(catalog.Item{Title: "Панно & рамка", Price: 900})
	link := DeepLink("https://vk.com/write", "487502463", msg)

	if !strings.HasPrefix(link, "https://vk.com/write487502463?message=") {
		t.Fatalf("unexpected link prefix %q", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	if got := u.Query().Get("message"); got != msg {
		t.Fatalf("round-tripped message %q, want %q", got, msg)
	}
}

func TestClipboardErrorUnwraps(t *testing.T) {
	cause := errors.New("xclip missing")
	err := error(&ClipboardError{Err: cause})
	if !errors.Is(err, cause) {
		t.Fatalf("expected ClipboardError to unwrap to cause")
	}
}
