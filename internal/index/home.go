package index

import (
	"dualpace/internal/domain/content"
)

// Home is the blog landing listing: one featured post and everything else.
type Home struct {
	Featured *content.Post
	Rest     []content.Post
}

// Home picks the featured post of locale (first flagged, else newest) and
// lists the remaining posts newest first.
func (s *Store) Home(locale content.Locale) (Home, error) {
	posts, err := s.List(locale, ListOptions{})
	if err != nil {
		return Home{}, err
	}
	return SplitFeatured(posts), nil
}

func SplitFeatured(posts []content.Post) Home {
	h := Home{Rest: []content.Post{}}
	f, ok := content.Featured(posts)
	if !ok {
		return h
	}
	h.Featured = &f
	for _, p := range posts {
		if p.Slug == f.Slug {
			continue
		}
		h.Rest = append(h.Rest, p)
	}
	return h
}
