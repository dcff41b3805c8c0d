package analyze

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	DefaultExcerptLength = 160
	ellipsis             = "..."
)

type stripRule struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order. Fences go first so their backticks are not read as inline
// code, and images before links so "![alt](src)" is dropped instead of leaving
// "!alt" behind.
var stripRules = []stripRule{
	{regexp.MustCompile("(?s)```.*?```"), ""},
	{regexp.MustCompile(`#{1,6}\s+`), ""},
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "${1}"},
	{regexp.MustCompile(`\*(.+?)\*`), "${1}"},
	{regexp.MustCompile("`(.+?)`"), "${1}"},
	{regexp.MustCompile(`!\[.*?\]\(.+?\)`), ""},
	{regexp.MustCompile(`\[(.+?)\]\(.+?\)`), "${1}"},
	{regexp.MustCompile(`>\s+`), ""},
	{regexp.MustCompile(`-{3,}`), ""},
	{regexp.MustCompile(`\n+`), " "},
}

// StripMarkdown removes the markup the excerpt should not show. It is a
// best-effort textual pass; unbalanced markup just survives partially.
func StripMarkdown(body string) string {
	s := strings.ReplaceAll(body, "\r\n", "\n")
	for _, r := range stripRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(s)
}

// Excerpt returns at most maxLength characters of plain text (plus an ellipsis
// when cut). The cut backs up to the last whitespace so words stay whole,
// unless the window has no whitespace at all. maxLength <= 0 means
// DefaultExcerptLength.
func Excerpt(body string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	stripped := StripMarkdown(body)

	runes := []rune(stripped)
	if len(runes) <= maxLength {
		return stripped
	}

	cut := runes[:maxLength]
	last := -1
	for i := len(cut) - 1; i >= 0; i-- {
		if unicode.IsSpace(cut[i]) {
			last = i
			break
		}
	}
	if last == -1 {
		return string(cut) + ellipsis
	}
	return string(cut[:last]) + ellipsis
}
