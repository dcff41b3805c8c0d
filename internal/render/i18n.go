package render

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dualpace/internal/domain/content"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders a YYYY-MM-DD date as a long date for locale:
// "February 9, 2026" or "9 de febrero de 2026". Unparseable input is
// returned unchanged.
func FormatDate(date string, locale content.Locale) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	if locale == content.LocaleES {
		return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}

var categoryTitles = map[content.Locale]map[content.Category]string{
	content.LocaleEN: {
		content.CategoryTraining:    "Training Chronicles",
		content.CategoryDualLife:    "Dual Life Tactics",
		content.CategoryUnderground: "Underground Endurance",
	},
	content.LocaleES: {
		content.CategoryTraining:    "Crónicas de Entrenamiento",
		content.CategoryDualLife:    "Tácticas de Doble Vida",
		content.CategoryUnderground: "Resistencia Underground",
	},
}

// CategoryTitle is the display name of a category. Unknown categories are
// title-cased from their slug.
func CategoryTitle(c content.Category, locale content.Locale) string {
	if t, ok := categoryTitles[locale][c]; ok {
		return t
	}
	return cases.Title(Tag(locale)).String(strings.ReplaceAll(string(c), "-", " "))
}

// Tag maps a site locale to its BCP 47 tag.
func Tag(locale content.Locale) language.Tag {
	if locale == content.LocaleES {
		return language.Spanish
	}
	return language.English
}

var messages = map[content.Locale]map[string]string{
	content.LocaleEN: {
		"blog":      "Blog",
		"featured":  "Featured",
		"related":   "Keep reading",
		"contents":  "On this page",
		"minRead":   "min read",
		"notFound":  "Page not found",
		"backHome":  "Back to the blog",
		"noPosts":   "No posts yet.",
		"allPosts":  "All posts",
		"published": "Published",
	},
	content.LocaleES: {
		"blog":      "Blog",
		"featured":  "Destacado",
		"related":   "Sigue leyendo",
		"contents":  "En esta página",
		"minRead":   "min de lectura",
		"notFound":  "Página no encontrada",
		"backHome":  "Volver al blog",
		"noPosts":   "Todavía no hay artículos.",
		"allPosts":  "Todos los artículos",
		"published": "Publicado",
	},
}

// T looks up a UI string; unknown keys come back as the key itself.
func T(locale content.Locale, key string) string {
	if m, ok := messages[locale]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages[content.LocaleEN][key]; ok {
		return s
	}
	return key
}
