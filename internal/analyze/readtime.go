// Package analyze derives metadata from a post body: read time, excerpt and
// the heading outline.
package analyze

import "strings"

const WordsPerMinute = 250

// ReadTime estimates minutes of reading at WordsPerMinute, never less than 1.
func ReadTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
