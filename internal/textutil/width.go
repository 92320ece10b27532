package textutil

import "github.com/mattn/go-runewidth"

// DisplayWidth reports how many terminal columns text occupies. Emoji
// sequences and flags count as a single wide cluster.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}
