package serve

import (
	"golang.org/x/text/language"

	"dualpace/internal/domain/content"
	"dualpace/internal/render"
)

// localeMatcher picks one of the site locales for an Accept-Language header.
type localeMatcher struct {
	locales []content.Locale
	matcher language.Matcher
}

// newLocaleMatcher puts def first so it wins when nothing matches.
func newLocaleMatcher(locales []content.Locale, def content.Locale) localeMatcher {
	ordered := []content.Locale{def}
	for _, l := range locales {
		if l != def {
			ordered = append(ordered, l)
		}
	}
	tags := make([]language.Tag, 0, len(ordered))
	for _, l := range ordered {
		tags = append(tags, render.Tag(l))
	}
	return localeMatcher{locales: ordered, matcher: language.NewMatcher(tags)}
}

func (m localeMatcher) Match(acceptLanguage string) content.Locale {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return m.locales[0]
	}
	_, idx, conf := m.matcher.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(m.locales) {
		return m.locales[0]
	}
	return m.locales[idx]
}

// Supports reports whether s names a locale the site is built for.
func (m localeMatcher) Supports(s string) (content.Locale, bool) {
	l, ok := content.ParseLocale(s)
	if !ok {
		return "", false
	}
	for _, x := range m.locales {
		if x == l {
			return l, true
		}
	}
	return "", false
}
