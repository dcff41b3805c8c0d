package content

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	domainerr "dualpace/internal/domain/errors"
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// fieldCheck validates one front matter key. present is false when the key is
// missing or explicitly null. A non-empty return is the failure reason.
type fieldCheck struct {
	field string
	apply func(v any, present bool, fm *Frontmatter) string
}

var checks = []fieldCheck{
	{"title", checkTitle},
	{"slug", checkSlug},
	{"date", checkDate},
	{"excerpt", optionalString(func(fm *Frontmatter, s string) { fm.Excerpt = s })},
	{"category", checkCategory},
	{"locale", checkLocale},
	{"published", optionalBool(func(fm *Frontmatter, b bool) { fm.Published = b })},
	{"coverImage", optionalString(func(fm *Frontmatter, s string) { fm.CoverImage = s })},
	{"bpm", optionalPositiveInt(func(fm *Frontmatter, n int) { fm.BPM = &n })},
	{"readTime", optionalPositiveInt(func(fm *Frontmatter, n int) { fm.ReadTime = &n })},
	{"tags", checkTags},
	{"featured", optionalBool(func(fm *Frontmatter, b bool) { fm.Featured = b })},
}

// Validate turns decoded front matter into a Frontmatter. slug and locale come
// from the file location and win over whatever the block itself declares.
//
// Every failing field is reported; the returned error is a
// domainerr.ValidationError matching errors.Is(err, domainerr.ErrInvalid).
func Validate(raw map[string]any, slug, locale string) (Frontmatter, error) {
	merged := make(map[string]any, len(raw)+2)
	for k, v := range raw {
		merged[k] = v
	}
	merged["slug"] = slug
	merged["locale"] = locale

	fm := Frontmatter{
		Published: true,
		Tags:      []string{},
	}

	var ve domainerr.ValidationError
	for _, c := range checks {
		v, ok := merged[c.field]
		if msg := c.apply(v, ok && v != nil, &fm); msg != "" {
			ve.Add(c.field, msg)
		}
	}
	if ve.HasAny() {
		return Frontmatter{}, ve
	}
	return fm, nil
}

func checkTitle(v any, present bool, fm *Frontmatter) string {
	if !present {
		return "is required"
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("must be a string, got %T", v)
	}
	if strings.TrimSpace(s) == "" {
		return "must not be empty"
	}
	fm.Title = s
	return ""
}

func checkSlug(v any, present bool, fm *Frontmatter) string {
	s, _ := v.(string)
	if !present || !slugPattern.MatchString(s) {
		return "must be kebab-case ([a-z0-9-]+)"
	}
	fm.Slug = s
	return ""
}

func checkDate(v any, present bool, fm *Frontmatter) string {
	if !present {
		return "is required"
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case time.Time:
		s = t.Format(time.DateOnly)
	default:
		return fmt.Sprintf("must be a YYYY-MM-DD string, got %T", v)
	}
	if !datePattern.MatchString(s) {
		return "must be YYYY-MM-DD"
	}
	fm.Date = s
	return ""
}

func checkCategory(v any, present bool, fm *Frontmatter) string {
	s, _ := v.(string)
	c, ok := ParseCategory(s)
	if !present || !ok {
		return fmt.Sprintf("must be one of %s", joinCategories())
	}
	fm.Category = c
	return ""
}

func checkLocale(v any, present bool, fm *Frontmatter) string {
	s, _ := v.(string)
	l, ok := ParseLocale(s)
	if !present || !ok {
		return "must be one of en, es"
	}
	fm.Locale = l
	return ""
}

func checkTags(v any, present bool, fm *Frontmatter) string {
	if !present {
		return ""
	}
	switch t := v.(type) {
	case []string:
		fm.Tags = append([]string{}, t...)
		return ""
	case []any:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return "must be a list of strings"
			}
			tags = append(tags, s)
		}
		fm.Tags = tags
		return ""
	default:
		return "must be a list of strings"
	}
}

func optionalString(set func(*Frontmatter, string)) func(any, bool, *Frontmatter) string {
	return func(v any, present bool, fm *Frontmatter) string {
		if !present {
			return ""
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("must be a string, got %T", v)
		}
		set(fm, s)
		return ""
	}
}

func optionalBool(set func(*Frontmatter, bool)) func(any, bool, *Frontmatter) string {
	return func(v any, present bool, fm *Frontmatter) string {
		if !present {
			return ""
		}
		b, ok := v.(bool)
		if !ok {
			return fmt.Sprintf("must be a boolean, got %T", v)
		}
		set(fm, b)
		return ""
	}
}

func optionalPositiveInt(set func(*Frontmatter, int)) func(any, bool, *Frontmatter) string {
	return func(v any, present bool, fm *Frontmatter) string {
		if !present {
			return ""
		}
		n, msg := asInt(v)
		if msg != "" {
			return msg
		}
		if n <= 0 {
			return "must be positive"
		}
		set(fm, n)
		return ""
	}
}

// asInt accepts any YAML number with no fractional part that fits in an int.
func asInt(v any) (int, string) {
	const tooLarge = "is out of range"
	switch n := v.(type) {
	case int:
		return n, ""
	case int64:
		if n > math.MaxInt || n < math.MinInt {
			return 0, tooLarge
		}
		return int(n), ""
	case uint64:
		if n > math.MaxInt {
			return 0, tooLarge
		}
		return int(n), ""
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, "must be an integer"
		}
		// float64(math.MaxInt) rounds up to 2^63, which itself does not fit.
		if n >= float64(math.MaxInt) || n < float64(math.MinInt) {
			return 0, tooLarge
		}
		return int(n), ""
	}
	return 0, "must be an integer"
}

func joinCategories() string {
	parts := make([]string, 0, len(Categories))
	for _, c := range Categories {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}
