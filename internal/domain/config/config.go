package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"dualpace/internal/domain/content"
	domainerr "dualpace/internal/domain/errors"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Build   BuildConfig   `yaml:"build"`
	Serve   ServeConfig   `yaml:"serve"`
	Log     LogConfig     `yaml:"log"`
}

type SiteConfig struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	SiteURL       string   `yaml:"site_url"`
	DefaultLocale string   `yaml:"default_locale"`
	Locales       []string `yaml:"locales"`
}

type ContentConfig struct {
	PostsDir      string   `yaml:"posts_dir"`
	Extensions    []string `yaml:"extensions"`
	InvalidPolicy string   `yaml:"invalid_policy"`
	ExcerptLength int      `yaml:"excerpt_length"`
	RelatedLimit  int      `yaml:"related_limit"`
}

type BuildConfig struct {
	PublicDir string `yaml:"public_dir"`
	IndexPath string `yaml:"index_path"`
	ThemeDir  string `yaml:"theme_dir"`
}

type ServeConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:         "Dual Pace",
			SiteURL:       "http://localhost:8080",
			DefaultLocale: string(content.LocaleEN),
			Locales:       []string{string(content.LocaleEN), string(content.LocaleES)},
		},
		Content: ContentConfig{
			PostsDir:      "content/posts",
			Extensions:    []string{".mdx", ".md"},
			InvalidPolicy: "fail-fast",
			ExcerptLength: 160,
			RelatedLimit:  3,
		},
		Build: BuildConfig{
			PublicDir: "public",
			IndexPath: ".dualpace/index.db",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if len(c.Site.Locales) == 0 {
		ve.Add("site.locales", "must list at least one locale")
	}
	for _, l := range c.Site.Locales {
		if _, ok := content.ParseLocale(l); !ok {
			ve.Add("site.locales", fmt.Sprintf("unsupported locale %q", l))
		}
	}
	if !contains(c.Site.Locales, c.Site.DefaultLocale) {
		ve.Add("site.default_locale", "must be one of site.locales")
	}

	if strings.TrimSpace(c.Content.PostsDir) == "" {
		ve.Add("content.posts_dir", "must not be empty")
	}
	for _, ext := range c.Content.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			ve.Add("content.extensions", fmt.Sprintf("%q must start with '.'", ext))
		}
	}
	switch c.Content.InvalidPolicy {
	case "", "fail-fast", "skip":
	default:
		ve.Add("content.invalid_policy", "must be 'fail-fast' or 'skip'")
	}
	if c.Content.ExcerptLength < 0 {
		ve.Add("content.excerpt_length", "must not be negative")
	}
	if c.Content.RelatedLimit < 0 {
		ve.Add("content.related_limit", "must not be negative")
	}

	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}

	switch c.Log.Format {
	case "", "console", "json":
	default:
		ve.Add("log.format", "must be 'console' or 'json'")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// SiteLocales returns the configured locales in declaration order.
func (c Config) SiteLocales() []content.Locale {
	out := make([]content.Locale, 0, len(c.Site.Locales))
	for _, s := range c.Site.Locales {
		if l, ok := content.ParseLocale(s); ok {
			out = append(out, l)
		}
	}
	return out
}

func (c Config) DefaultLocale() content.Locale {
	l, _ := content.ParseLocale(c.Site.DefaultLocale)
	return l
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func decode(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Read decodes the file over Default(); keys missing from it keep their
// defaults. It does not validate, so callers can overlay flags and environment
// first and call Validate last. A missing file yields Default().
func Read(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), err
	}
	return decode(data)
}
