package app

import (
	"fmt"

	"dualpace/internal/domain/content"
	"dualpace/internal/domain/site"
)

// SlugSource lists post identifiers of a locale without loading them.
type SlugSource interface {
	Slugs(locale string) ([]string, error)
}

type RouteBuilder struct {
	Slugs   SlugSource
	Locales []content.Locale
}

// StaticParam is one {locale, slug} pair a post page is generated for.
type StaticParam struct {
	Locale content.Locale
	Slug   string
}

// StaticParams enumerates every post of every locale.
func (rb *RouteBuilder) StaticParams() ([]StaticParam, error) {
	var out []StaticParam
	for _, loc := range rb.Locales {
		slugs, err := rb.Slugs.Slugs(string(loc))
		if err != nil {
			return nil, fmt.Errorf("slugs %s: %w", loc, err)
		}
		for _, s := range slugs {
			out = append(out, StaticParam{Locale: loc, Slug: s})
		}
	}
	return out, nil
}

func (rb *RouteBuilder) BuildPostRoutes() ([]site.Route, error) {
	params, err := rb.StaticParams()
	if err != nil {
		return nil, err
	}
	routes := make([]site.Route, 0, len(params))
	for _, p := range params {
		routes = append(routes, site.NewRoute(site.RoutePost, p.Locale, p.Slug, ""))
	}
	return routes, nil
}

// BuildListingRoutes covers the blog index and every category page of every
// locale, plus the root redirect and the 404 page.
func (rb *RouteBuilder) BuildListingRoutes() []site.Route {
	routes := []site.Route{
		site.NewRoute(site.RouteRoot, "", "", ""),
		site.NewRoute(site.RouteNotFound, "", "", ""),
	}
	for _, loc := range rb.Locales {
		routes = append(routes, site.NewRoute(site.RouteIndex, loc, "", ""))
		for _, c := range content.Categories {
			routes = append(routes, site.NewRoute(site.RouteCategory, loc, "", string(c)))
		}
	}
	return routes
}
