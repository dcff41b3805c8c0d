package index

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualpace/internal/domain/content"
	domainerr "dualpace/internal/domain/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "idx", "index.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func doc(slug, date string, cat content.Category, loc content.Locale, featured bool) content.Document {
	rt := 4
	return content.Document{
		Frontmatter: content.Frontmatter{
			Title:     slug,
			Slug:      slug,
			Date:      date,
			Category:  cat,
			Locale:    loc,
			Published: true,
			ReadTime:  &rt,
			Tags:      []string{},
			Featured:  featured,
		},
		Content: "## " + slug + "\n\nbody",
	}
}

func corpus() []content.Document {
	return []content.Document{
		doc("night-shift", "2026-02-10", content.CategoryDualLife, content.LocaleEN, false),
		doc("long-run", "2026-02-09", content.CategoryTraining, content.LocaleEN, true),
		doc("same-day", "2026-02-09", content.CategoryTraining, content.LocaleEN, false),
		doc("warehouse", "2026-02-05", content.CategoryUnderground, content.LocaleEN, false),
	}
}

func slugs(posts []content.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func TestDateKeyRoundTripAndOrder(t *testing.T) {
	newer := makeDateKey("2026-02-10", 5, "a")
	older := makeDateKey("2026-02-09", 0, "b")
	assert.Equal(t, "a", slugFromDateKey(newer))
	assert.Less(t, string(newer), string(older))

	first := makeDateKey("2026-02-09", 1, "x")
	second := makeDateKey("2026-02-09", 2, "y")
	assert.Less(t, string(first), string(second))
	assert.Empty(t, slugFromDateKey([]byte{1, 2}))
}

func TestListKeepsDateOrderAndTies(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()))

	posts, err := s.List(content.LocaleEN, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"night-shift", "long-run", "same-day", "warehouse"}, slugs(posts))

	page, err := s.List(content.LocaleEN, ListOptions{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"same-day", "warehouse"}, slugs(page))
}

func TestListUnknownLocaleIsEmpty(t *testing.T) {
	s := openStore(t)
	posts, err := s.List(content.LocaleES, ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestListByCategory(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()))

	posts, err := s.ListByCategory(content.LocaleEN, content.CategoryTraining, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"long-run", "same-day"}, slugs(posts))

	none, err := s.ListByCategory(content.LocaleEN, "nope", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetReturnsPostAndBody(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()))

	e, err := s.Get(content.LocaleEN, "long-run")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-09", e.Post.PublishedAt)
	assert.Equal(t, 4, e.Post.ReadTime)
	assert.Contains(t, e.Body, "## long-run")

	assert.True(t, e.Post.Published)

	_, err = s.Get(content.LocaleES, "long-run")
	assert.True(t, errors.Is(err, domainerr.ErrNotFound))
}

func TestGetKeepsUnpublishedFlag(t *testing.T) {
	s := openStore(t)
	draft := doc("draft", "2026-02-12", content.CategoryTraining, content.LocaleEN, false)
	draft.Frontmatter.Published = false
	require.NoError(t, s.Rebuild(content.LocaleEN, []content.Document{draft}))

	e, err := s.Get(content.LocaleEN, "draft")
	require.NoError(t, err)
	assert.False(t, e.Post.Published)

	posts, err := s.List(content.LocaleEN, ListOptions{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].Published)
}

func TestRebuildReplacesLocaleOnly(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()))
	require.NoError(t, s.Rebuild(content.LocaleES, []content.Document{
		doc("tirada-larga", "2026-01-15", content.CategoryTraining, content.LocaleES, false),
	}))
	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()[:1]))

	en, err := s.List(content.LocaleEN, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"night-shift"}, slugs(en))

	es, err := s.List(content.LocaleES, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"tirada-larga"}, slugs(es))
}

func TestFingerprintsSurviveRebuildUntilPostDisappears(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()))
	require.NoError(t, s.PutFingerprint(content.LocaleEN, "long-run", "h1"))
	require.NoError(t, s.PutFingerprint(content.LocaleEN, "warehouse", "h2"))

	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()[:2]))

	got, err := s.Fingerprint(content.LocaleEN, "long-run")
	require.NoError(t, err)
	assert.Equal(t, "h1", got)

	got, err = s.Fingerprint(content.LocaleEN, "warehouse")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHomeSplitsFeatured(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()))

	h, err := s.Home(content.LocaleEN)
	require.NoError(t, err)
	require.NotNil(t, h.Featured)
	assert.Equal(t, "long-run", h.Featured.Slug)
	assert.Equal(t, []string{"night-shift", "same-day", "warehouse"}, slugs(h.Rest))

	empty := SplitFeatured(nil)
	assert.Nil(t, empty.Featured)
	assert.Empty(t, empty.Rest)
}

func TestCategories(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Rebuild(content.LocaleEN, corpus()))

	sums, err := s.Categories(content.LocaleEN)
	require.NoError(t, err)
	require.Len(t, sums, 3)
	assert.Equal(t, CategorySummary{Category: content.CategoryTraining, Count: 2, Latest: "long-run"}, sums[0])
	assert.Equal(t, CategorySummary{Category: content.CategoryDualLife, Count: 1, Latest: "night-shift"}, sums[1])
	assert.Equal(t, CategorySummary{Category: content.CategoryUnderground, Count: 1, Latest: "warehouse"}, sums[2])
}
