package related

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualpace/internal/domain/content"
)

func p(slug string, cat content.Category, date string, loc content.Locale) content.Post {
	return content.Post{Slug: slug, Category: cat, PublishedAt: date, Locale: loc}
}

func slugs(posts []content.Post) []string {
	out := make([]string, 0, len(posts))
	for _, x := range posts {
		out = append(out, x.Slug)
	}
	return out
}

func TestRankCategoryDominatesRecency(t *testing.T) {
	corpus := []content.Post{
		p("current", content.CategoryTraining, "2026-02-11", content.LocaleEN),
		p("other-old", content.CategoryUnderground, "2026-02-05", content.LocaleEN),
		p("same", content.CategoryTraining, "2026-02-09", content.LocaleEN),
		p("other-new", content.CategoryDualLife, "2026-02-10", content.LocaleEN),
	}

	got, ok := Rank("current", content.CategoryTraining, corpus, content.LocaleEN, 3)
	require.True(t, ok)
	assert.Equal(t, []string{"same", "other-new", "other-old"}, slugs(got))
}

func TestRankSameCategoryFillsLimit(t *testing.T) {
	corpus := []content.Post{
		p("a", content.CategoryTraining, "2026-01-01", content.LocaleEN),
		p("b", content.CategoryTraining, "2026-01-03", content.LocaleEN),
		p("c", content.CategoryTraining, "2026-01-02", content.LocaleEN),
		p("d", content.CategoryTraining, "2026-01-04", content.LocaleEN),
		p("newest-other", content.CategoryDualLife, "2026-05-01", content.LocaleEN),
	}

	got, ok := Rank("x", content.CategoryTraining, corpus, content.LocaleEN, 3)
	require.True(t, ok)
	assert.Equal(t, []string{"d", "b", "c"}, slugs(got))
}

func TestRankExcludesCurrentAndOtherLocales(t *testing.T) {
	corpus := []content.Post{
		p("current", content.CategoryTraining, "2026-02-11", content.LocaleEN),
		p("spanish", content.CategoryTraining, "2026-02-10", content.LocaleES),
		p("english", content.CategoryUnderground, "2026-01-10", content.LocaleEN),
	}

	got, ok := Rank("current", content.CategoryTraining, corpus, content.LocaleEN, 3)
	require.True(t, ok)
	assert.Equal(t, []string{"english"}, slugs(got))
}

func TestRankNoCandidates(t *testing.T) {
	corpus := []content.Post{
		p("current", content.CategoryTraining, "2026-02-11", content.LocaleEN),
		p("spanish", content.CategoryTraining, "2026-02-10", content.LocaleES),
	}

	got, ok := Rank("current", content.CategoryTraining, corpus, content.LocaleEN, 3)
	assert.False(t, ok)
	assert.Nil(t, got)

	got, ok = Rank("current", content.CategoryTraining, nil, content.LocaleEN, 3)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRankLimitBounds(t *testing.T) {
	corpus := []content.Post{
		p("a", content.CategoryTraining, "2026-01-01", content.LocaleEN),
		p("b", content.CategoryDualLife, "2026-01-02", content.LocaleEN),
	}

	got, ok := Rank("x", content.CategoryTraining, corpus, content.LocaleEN, 0)
	assert.False(t, ok)
	assert.Empty(t, got)

	got, ok = Rank("x", content.CategoryTraining, corpus, content.LocaleEN, 10)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, slugs(got))
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	corpus := []content.Post{
		p("first", content.CategoryDualLife, "2026-01-01", content.LocaleEN),
		p("second", content.CategoryDualLife, "2026-01-01", content.LocaleEN),
		p("third", content.CategoryDualLife, "2026-01-01", content.LocaleEN),
	}

	got, _ := Rank("x", content.CategoryTraining, corpus, content.LocaleEN, 2)
	assert.Equal(t, []string{"first", "second"}, slugs(got))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	corpus := []content.Post{
		p("a", content.CategoryTraining, "2026-01-01", content.LocaleEN),
		p("b", content.CategoryTraining, "2026-01-03", content.LocaleEN),
	}
	_, _ = Rank("x", content.CategoryTraining, corpus, content.LocaleEN, 3)
	assert.Equal(t, []string{"a", "b"}, slugs(corpus))
}

func TestForUsesCurrentPostAndDefaultLimit(t *testing.T) {
	current := p("current", content.CategoryUnderground, "2026-03-01", content.LocaleES)
	corpus := []content.Post{
		current,
		p("u1", content.CategoryUnderground, "2026-02-01", content.LocaleES),
		p("t1", content.CategoryTraining, "2026-02-02", content.LocaleES),
		p("t2", content.CategoryTraining, "2026-02-03", content.LocaleES),
		p("t3", content.CategoryTraining, "2026-02-04", content.LocaleES),
	}

	got, ok := For(current, corpus)
	require.True(t, ok)
	assert.Equal(t, []string{"u1", "t3", "t2"}, slugs(got))

	got, _ = For(current, corpus, WithLimit(1))
	assert.Equal(t, []string{"u1"}, slugs(got))
}
