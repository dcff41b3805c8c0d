package analyze

import (
	"strings"

	"dualpace/internal/domain/content"
)

// Headings scans the body for "## " and "### " lines, in document order.
// Lines inside fenced code blocks are ignored. Ids come from content.AnchorID,
// the same function the HTML renderer uses.
func Headings(body string) []content.Heading {
	out := []content.Heading{}
	var open fence

	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		if f, ok := fenceLine(line); ok {
			switch {
			case open.n == 0:
				open = f
			case f.char == open.char && f.n >= open.n && !f.info:
				open = fence{}
			}
			continue
		}
		if open.n > 0 {
			continue
		}
		level, text, ok := headingLine(line)
		if !ok {
			continue
		}
		out = append(out, content.Heading{
			ID:    content.AnchorID(text),
			Text:  text,
			Level: level,
		})
	}
	return out
}

type fence struct {
	char byte
	n    int
	info bool
}

// fenceLine recognises a line opening or closing a ``` or ~~~ code fence.
func fenceLine(line string) (fence, bool) {
	t := strings.TrimLeft(line, " ")
	if len(line)-len(t) > 3 || t == "" || (t[0] != '`' && t[0] != '~') {
		return fence{}, false
	}
	n := 0
	for n < len(t) && t[n] == t[0] {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	return fence{char: t[0], n: n, info: strings.TrimSpace(t[n:]) != ""}, true
}

func headingLine(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level != 2 && level != 3 {
		return 0, "", false
	}
	rest := line[level:]
	if !strings.HasPrefix(rest, " ") {
		return 0, "", false
	}
	text := strings.TrimSpace(rest)
	if text == "" {
		return 0, "", false
	}
	return level, text, true
}
