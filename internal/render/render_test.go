package render

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualpace/internal/domain/config"
	"dualpace/internal/domain/content"
)

func TestMarkdownHeadingIDsMatchTOC(t *testing.T) {
	src := "Intro\n\n## Tempo & Threshold\n\ntext\n\n### Día 3: Fartlek\n\n```\n## not a heading\n```\n"
	res, err := NewMarkdownRenderer().Render([]byte(src))
	require.NoError(t, err)

	require.Len(t, res.Headings, 2)
	html := string(res.HTML)
	for _, h := range res.Headings {
		assert.Contains(t, html, `id="`+h.ID+`"`, h.Text)
	}
	assert.Equal(t, "tempo--threshold", res.Headings[0].ID)
	assert.Equal(t, 3, res.Headings[1].Level)

	ids := regexp.MustCompile(`<h[1-6] id="`).FindAllString(html, -1)
	assert.Len(t, ids, 2)
}

func TestMarkdownTildeFenceHasNoHeadings(t *testing.T) {
	src := "~~~\n## not a heading\n~~~\n\n## Cooldown\n"
	res, err := NewMarkdownRenderer().Render([]byte(src))
	require.NoError(t, err)

	require.Len(t, res.Headings, 1)
	assert.Equal(t, "cooldown", res.Headings[0].ID)
	html := string(res.HTML)
	assert.NotContains(t, html, `id="not-a-heading"`)
	assert.Contains(t, html, `id="cooldown"`)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "February 9, 2026", FormatDate("2026-02-09", content.LocaleEN))
	assert.Equal(t, "9 de febrero de 2026", FormatDate("2026-02-09", content.LocaleES))
	assert.Equal(t, "31 de diciembre de 2025", FormatDate("2025-12-31", content.LocaleES))
	assert.Equal(t, "soon", FormatDate("soon", content.LocaleEN))
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Dual Life Tactics", CategoryTitle(content.CategoryDualLife, content.LocaleEN))
	assert.Equal(t, "Crónicas de Entrenamiento", CategoryTitle(content.CategoryTraining, content.LocaleES))
	assert.Equal(t, "Trail Racing", CategoryTitle("trail-racing", content.LocaleEN))
}

func TestMessagesFallBack(t *testing.T) {
	assert.Equal(t, "Sigue leyendo", T(content.LocaleES, "related"))
	assert.Equal(t, "Keep reading", T("fr", "related"))
	assert.Equal(t, "unknown", T(content.LocaleEN, "unknown"))
}

func page(locale content.Locale) Page {
	return Page{
		Site:    config.Default().Site,
		Locale:  locale,
		Locales: []content.Locale{content.LocaleEN, content.LocaleES},
	}
}

func TestDefaultThemeRendersPost(t *testing.T) {
	r, err := NewTemplateRenderer("")
	require.NoError(t, err)
	assert.NotEmpty(t, r.ThemeHash())

	bpm := 128
	post := content.Post{
		Slug: "long-run", Title: "Long Run", PublishedAt: "2026-02-09",
		Category: content.CategoryTraining, Locale: content.LocaleES, ReadTime: 5, BPM: &bpm, Tags: []string{"zone2"},
	}
	out, err := r.RenderPost(context.Background(), PostPage{
		Page:    page(content.LocaleES),
		Post:    post,
		HTML:    "<h2 id=\"intro\">Intro</h2>",
		TOC:     []content.Heading{{ID: "intro", Text: "Intro", Level: 2}},
		Related: []content.Post{{Slug: "other", Title: "Other", PublishedAt: "2026-02-01", Category: content.CategoryDualLife, Locale: content.LocaleES}},
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `lang="es"`)
	assert.Contains(t, html, "9 de febrero de 2026")
	assert.Contains(t, html, "128 BPM")
	assert.Contains(t, html, `href="#intro"`)
	assert.Contains(t, html, "Sigue leyendo")
	assert.Contains(t, html, `href="/es/blog/other/"`)
	assert.Contains(t, html, `href="/en/blog/"`)
}

func TestDefaultThemeRendersIndexWithoutPosts(t *testing.T) {
	r, err := NewTemplateRenderer("")
	require.NoError(t, err)

	out, err := r.RenderIndex(context.Background(), IndexPage{Page: page(content.LocaleEN)})
	require.NoError(t, err)
	assert.Contains(t, string(out), "No posts yet.")
}

func TestDefaultThemeRoot(t *testing.T) {
	r, err := NewTemplateRenderer("")
	require.NoError(t, err)

	out, err := r.RenderRoot(context.Background(), RootPage{Page: page(content.LocaleEN), Target: "/en/blog/"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "url=/en/blog/")
}

func TestThemeDirMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.tmpl"), []byte(""), 0o644))

	_, err := NewTemplateRenderer(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing template")
}
