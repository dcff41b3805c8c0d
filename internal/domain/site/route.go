package site

import (
	"fmt"
	"path"
	"strings"

	"dualpace/internal/domain/content"
)

type RouteKind string

const (
	RouteRoot     RouteKind = "root"
	RouteIndex    RouteKind = "index"
	RoutePost     RouteKind = "post"
	RouteCategory RouteKind = "category"
	RouteNotFound RouteKind = "404"
)

// Route is one page of the generated site. Key holds the category for
// RouteCategory.
type Route struct {
	Kind    RouteKind
	Locale  content.Locale
	Slug    string
	Key     string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Locale != "" {
		parts = append(parts, "locale="+string(r.Locale))
	}
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// URL is the public path of the route, always with a trailing slash except
// for the 404 page.
func (r Route) URL() string {
	switch r.Kind {
	case RouteRoot:
		return "/"
	case RouteIndex:
		return BlogURL(r.Locale)
	case RoutePost:
		return PostURL(r.Locale, r.Slug)
	case RouteCategory:
		return CategoryURL(r.Locale, content.Category(r.Key))
	case RouteNotFound:
		return "/404.html"
	}
	return "/"
}

func BlogURL(locale content.Locale) string {
	return fmt.Sprintf("/%s/blog/", locale)
}

func PostURL(locale content.Locale, slug string) string {
	return fmt.Sprintf("/%s/blog/%s/", locale, slug)
}

func CategoryURL(locale content.Locale, category content.Category) string {
	return fmt.Sprintf("/%s/%s/", locale, category)
}

// OutPathFor maps a public URL to the file written under the public dir.
func OutPathFor(url string) string {
	if strings.HasSuffix(url, "/") {
		return path.Join(strings.TrimPrefix(url, "/"), "index.html")
	}
	return strings.TrimPrefix(url, "/")
}

func NewRoute(kind RouteKind, locale content.Locale, slug, key string) Route {
	r := Route{Kind: kind, Locale: locale, Slug: slug, Key: key}
	r.OutPath = OutPathFor(r.URL())
	return r
}
