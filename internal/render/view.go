package render

import (
	"html/template"

	"dualpace/internal/domain/config"
	"dualpace/internal/domain/content"
)

// Page carries what every template needs: site settings, the page locale and
// the alternate locales for the language switcher.
type Page struct {
	Site      config.SiteConfig
	Locale    content.Locale
	Locales   []content.Locale
	Title     string
	DevReload bool
}

type RootPage struct {
	Page
	Target string
}

type IndexPage struct {
	Page
	Featured   *content.Post
	Posts      []content.Post
	Categories []CategoryLink
}

type CategoryLink struct {
	Category content.Category
	Count    int
}

type CategoryPage struct {
	Page
	Category content.Category
	Posts    []content.Post
}

type PostPage struct {
	Page
	Post    content.Post
	HTML    template.HTML
	TOC     []content.Heading
	Related []content.Post
}

type NotFoundPage struct {
	Page
	Path string
}
