package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
)

// PlainText strips HTML markup from backend-supplied descriptions, keeping
// paragraph and line breaks. Text without tags is only whitespace-normalized.
func PlainText(text string) string {
	if !strings.ContainsRune(text, '<') {
		return condenseLines(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return condenseLines(text)
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	return condenseLines(doc.Text())
}

// condenseLines collapses runs of spaces inside each line and keeps at most
// one blank line between paragraphs.
func condenseLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// Wrap breaks text into lines no wider than width terminal columns. Words
// longer than width are split.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var line strings.Builder
		lineWidth := 0
		flush := func() {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		for _, word := range words {
			w := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+w > width {
				flush()
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			for w > width-lineWidth {
				head := runewidth.Truncate(word, width-lineWidth, "")
				if head == "" {
					break
				}
				line.WriteString(head)
				flush()
				word = strings.TrimPrefix(word, head)
				w = runewidth.StringWidth(word)
			}
			line.WriteString(word)
			lineWidth += w
		}
		if lineWidth > 0 {
			flush()
		}
	}
	return lines
}
