package app

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	dombuild "dualpace/internal/domain/build"
	"dualpace/internal/domain/config"
	"dualpace/internal/domain/content"
	"dualpace/internal/domain/site"
	"dualpace/internal/index"
	"dualpace/internal/related"
	"dualpace/internal/render"
)

// Pages turns routes into HTML from the index. The static builder and the dev
// server share it so both produce the same bytes.
type Pages struct {
	Cfg       config.Config
	Store     *index.Store
	MD        *render.MarkdownRenderer
	Tpl       render.Renderer
	ThemeHash string
	DevReload bool
}

func (p *Pages) base(locale content.Locale, title string) render.Page {
	return render.Page{
		Site:      p.Cfg.Site,
		Locale:    locale,
		Locales:   p.Cfg.SiteLocales(),
		Title:     title,
		DevReload: p.DevReload,
	}
}

// RelatedLimit is the configured related-posts limit, or related.DefaultLimit.
func (p *Pages) RelatedLimit() int {
	if p.Cfg.Content.RelatedLimit > 0 {
		return p.Cfg.Content.RelatedLimit
	}
	return related.DefaultLimit
}

// Related ranks the related posts of slug within its locale.
func (p *Pages) Related(locale content.Locale, slug string) ([]content.Post, bool, error) {
	e, err := p.Store.Get(locale, slug)
	if err != nil {
		return nil, false, err
	}
	all, err := p.Store.List(locale, index.ListOptions{})
	if err != nil {
		return nil, false, err
	}
	out, ok := related.For(e.Post, all, related.WithLimit(p.RelatedLimit()))
	return out, ok, nil
}

// Render produces the page of one route. A post route for a post missing
// from the index yields an error matching domainerr.ErrNotFound.
func (p *Pages) Render(ctx context.Context, r site.Route) ([]byte, error) {
	switch r.Kind {
	case site.RouteRoot:
		loc := p.Cfg.DefaultLocale()
		return p.Tpl.RenderRoot(ctx, render.RootPage{
			Page:   p.base(loc, ""),
			Target: site.BlogURL(loc),
		})
	case site.RouteIndex:
		return p.renderIndex(ctx, r.Locale)
	case site.RouteCategory:
		return p.renderCategory(ctx, r.Locale, content.Category(r.Key))
	case site.RoutePost:
		return p.renderPost(ctx, r.Locale, r.Slug)
	case site.RouteNotFound:
		loc := r.Locale
		if loc == "" {
			loc = p.Cfg.DefaultLocale()
		}
		return p.Tpl.RenderNotFound(ctx, render.NotFoundPage{
			Page: p.base(loc, render.T(loc, "notFound")),
			Path: r.Slug,
		})
	}
	return nil, fmt.Errorf("unknown route kind %q", r.Kind)
}

func (p *Pages) renderIndex(ctx context.Context, loc content.Locale) ([]byte, error) {
	home, err := p.Store.Home(loc)
	if err != nil {
		return nil, err
	}
	sums, err := p.Store.Categories(loc)
	if err != nil {
		return nil, err
	}
	links := make([]render.CategoryLink, 0, len(sums))
	for _, s := range sums {
		links = append(links, render.CategoryLink{Category: s.Category, Count: s.Count})
	}
	return p.Tpl.RenderIndex(ctx, render.IndexPage{
		Page:       p.base(loc, render.T(loc, "blog")),
		Featured:   home.Featured,
		Posts:      home.Rest,
		Categories: links,
	})
}

func (p *Pages) renderCategory(ctx context.Context, loc content.Locale, c content.Category) ([]byte, error) {
	posts, err := p.Store.ListByCategory(loc, c, index.ListOptions{})
	if err != nil {
		return nil, err
	}
	return p.Tpl.RenderCategory(ctx, render.CategoryPage{
		Page:     p.base(loc, render.CategoryTitle(c, loc)),
		Category: c,
		Posts:    posts,
	})
}

func (p *Pages) renderPost(ctx context.Context, loc content.Locale, slug string) ([]byte, error) {
	e, err := p.Store.Get(loc, slug)
	if err != nil {
		return nil, err
	}
	res, err := p.MD.Render([]byte(e.Body))
	if err != nil {
		return nil, fmt.Errorf("markdown %s/%s: %w", loc, slug, err)
	}
	rel, _, err := p.Related(loc, slug)
	if err != nil {
		return nil, err
	}
	return p.Tpl.RenderPost(ctx, render.PostPage{
		Page:    p.base(loc, e.Post.Title),
		Post:    e.Post,
		HTML:    template.HTML(res.HTML),
		TOC:     res.Headings,
		Related: rel,
	})
}

// PostFingerprint hashes everything the page of one post depends on.
func (p *Pages) PostFingerprint(loc content.Locale, slug string) (dombuild.Fingerprint, error) {
	e, err := p.Store.Get(loc, slug)
	if err != nil {
		return dombuild.Fingerprint{}, err
	}
	rel, _, err := p.Related(loc, slug)
	if err != nil {
		return dombuild.Fingerprint{}, err
	}
	postJSON, err := json.Marshal(e.Post)
	if err != nil {
		return dombuild.Fingerprint{}, err
	}
	relJSON, err := json.Marshal(rel)
	if err != nil {
		return dombuild.Fingerprint{}, err
	}
	cfgJSON, err := json.Marshal(struct {
		Site    config.SiteConfig
		Dev     bool
		Locales []content.Locale
	}{p.Cfg.Site, p.DevReload, p.Cfg.SiteLocales()})
	if err != nil {
		return dombuild.Fingerprint{}, err
	}

	fp := dombuild.Fingerprint{
		ContentHash:  dombuild.HashBytes(postJSON, []byte(e.Body)),
		RelatedHash:  dombuild.HashBytes(relJSON),
		ThemeHash:    p.ThemeHash,
		ConfigHash:   dombuild.HashBytes(cfgJSON),
		RendererHash: render.MarkdownVersion,
	}
	fp.ComputeRenderHash()
	return fp, nil
}
