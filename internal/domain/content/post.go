package content

import (
	"slices"
	"strings"
)

// Frontmatter is the validated metadata block of a post.
type Frontmatter struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Date       string   `json:"date"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Category   Category `json:"category"`
	Locale     Locale   `json:"locale"`
	Published  bool     `json:"published"`
	CoverImage string   `json:"coverImage,omitempty"`
	BPM        *int     `json:"bpm,omitempty"`
	ReadTime   *int     `json:"readTime,omitempty"`
	Tags       []string `json:"tags"`
	Featured   bool     `json:"featured"`
}

// Document is a post as read from disk: metadata plus the raw markup body.
type Document struct {
	Frontmatter Frontmatter
	Content     string
}

// Post is the listing view of a post. Date is exposed as PublishedAt.
type Post struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Category    Category `json:"category"`
	PublishedAt string   `json:"publishedAt"`
	CoverImage  string   `json:"coverImage,omitempty"`
	ReadTime    int      `json:"readTime,omitempty"`
	BPM         *int     `json:"bpm,omitempty"`
	Locale      Locale   `json:"locale"`
	Featured    bool     `json:"featured"`
	Published   bool     `json:"published"`
	Tags        []string `json:"tags"`
}

type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

func ToPost(fm Frontmatter) Post {
	p := Post{
		Slug:        fm.Slug,
		Title:       fm.Title,
		Excerpt:     fm.Excerpt,
		Category:    fm.Category,
		PublishedAt: fm.Date,
		CoverImage:  fm.CoverImage,
		Locale:      fm.Locale,
		Featured:    fm.Featured,
		Published:   fm.Published,
		Tags:        slices.Clone(fm.Tags),
	}
	if fm.ReadTime != nil {
		p.ReadTime = *fm.ReadTime
	}
	if fm.BPM != nil {
		bpm := *fm.BPM
		p.BPM = &bpm
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

func ToPosts(docs []Document) []Post {
	out := make([]Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, ToPost(d.Frontmatter))
	}
	return out
}

// NewerFirst orders YYYY-MM-DD strings, most recent first. Dates are compared as
// strings so no timezone ever shifts a post across a day boundary.
func NewerFirst(a, b string) int {
	return strings.Compare(b, a)
}

// SortByDate returns a copy sorted by PublishedAt, newest first. Equal dates keep
// their input order.
func SortByDate(posts []Post) []Post {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(a, b Post) int {
		return NewerFirst(a.PublishedAt, b.PublishedAt)
	})
	return out
}

// FilterByCategory keeps posts of one category. An empty category keeps all.
func FilterByCategory(posts []Post, category Category) []Post {
	if category == "" {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Featured picks the first post flagged featured, falling back to the most recent.
func Featured(posts []Post) (Post, bool) {
	if len(posts) == 0 {
		return Post{}, false
	}
	for _, p := range posts {
		if p.Featured {
			return p, true
		}
	}
	return SortByDate(posts)[0], true
}
