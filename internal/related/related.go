// Package related picks "see also" posts for a post page.
package related

import (
	"dualpace/internal/domain/content"
)

const DefaultLimit = 3

// Rank selects up to limit posts related to currentSlug.
//
// Candidates are posts of the same locale other than the current one. Posts of
// the same category come first, newest first; remaining slots are filled with
// the newest posts of other categories. A same-category post is never pushed
// out by a newer post from another category.
//
// ok is false when nothing qualifies; callers render no section at all then.
func Rank(currentSlug string, category content.Category, posts []content.Post, locale content.Locale, limit int) ([]content.Post, bool) {
	if limit <= 0 {
		return nil, false
	}

	var same, other []content.Post
	for _, p := range posts {
		if p.Slug == currentSlug || p.Locale != locale {
			continue
		}
		if p.Category == category {
			same = append(same, p)
		} else {
			other = append(other, p)
		}
	}

	same = content.SortByDate(same)
	if len(same) >= limit {
		return same[:limit], true
	}

	out := append(same, content.SortByDate(other)...)
	if len(out) > limit {
		out = out[:limit]
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

type options struct {
	limit int
}

type Option func(*options)

// WithLimit overrides DefaultLimit.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// For ranks posts related to current, within current's locale and category.
func For(current content.Post, posts []content.Post, opts ...Option) ([]content.Post, bool) {
	o := options{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return Rank(current.Slug, current.Category, posts, current.Locale, o.limit)
}
