package content

import (
	"strings"
	"unicode"
)

// AnchorID turns heading text into the fragment id used by both the table of
// contents and the rendered heading element. The two must never diverge.
//
// Rule: lowercase, whitespace runs become one '-', then everything outside
// [a-z0-9-] is dropped.
func AnchorID(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
