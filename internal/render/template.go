package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"

	dombuild "dualpace/internal/domain/build"
	"dualpace/internal/domain/content"
	"dualpace/internal/domain/site"
)

//go:embed theme/*.tmpl
var defaultTheme embed.FS

var requiredTemplates = []string{
	"layout.tmpl",
	"root.tmpl",
	"index.tmpl",
	"category.tmpl",
	"post.tmpl",
	"404.tmpl",
}

type TemplateRenderer struct {
	tpl  *template.Template
	hash string
}

// NewTemplateRenderer parses the built-in theme, or the *.tmpl files of
// themeDir when it is not empty.
func NewTemplateRenderer(themeDir string) (*TemplateRenderer, error) {
	fsys, err := ThemeFS(themeDir)
	if err != nil {
		return nil, err
	}
	if err := CheckThemeTemplates(fsys); err != nil {
		return nil, err
	}
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, err
	}
	hash, err := themeHash(fsys)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl, hash: hash}, nil
}

// ThemeFS resolves the template directory.
func ThemeFS(themeDir string) (fs.FS, error) {
	if themeDir == "" {
		return fs.Sub(defaultTheme, "theme")
	}
	st, err := os.Stat(themeDir)
	if err != nil {
		return nil, fmt.Errorf("theme dir: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("theme dir %s is not a directory", themeDir)
	}
	return os.DirFS(themeDir), nil
}

// ThemeHash identifies the parsed templates for page fingerprints.
func (r *TemplateRenderer) ThemeHash() string {
	return r.hash
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(date string, locale content.Locale) string {
			return FormatDate(date, locale)
		},
		"postURL": func(p content.Post) string {
			return site.PostURL(p.Locale, p.Slug)
		},
		"blogURL": site.BlogURL,
		"categoryURL": func(locale content.Locale, c content.Category) string {
			return site.CategoryURL(locale, c)
		},
		"categoryTitle": CategoryTitle,
		"t":             T,
		"langTag": func(locale content.Locale) string {
			return Tag(locale).String()
		},
		"indent": func(level int) int {
			return (level - 2) * 16
		},
	}
}

func (r *TemplateRenderer) RenderRoot(ctx context.Context, page RootPage) ([]byte, error) {
	return r.exec("root.tmpl", page)
}

func (r *TemplateRenderer) RenderIndex(ctx context.Context, page IndexPage) ([]byte, error) {
	return r.exec("index.tmpl", page)
}

func (r *TemplateRenderer) RenderCategory(ctx context.Context, page CategoryPage) ([]byte, error) {
	return r.exec("category.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(fsys fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(fsys, name); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}

func themeHash(fsys fs.FS) (string, error) {
	var parts [][]byte
	for _, name := range requiredTemplates {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", err
		}
		parts = append(parts, []byte(name), b)
	}
	return dombuild.HashBytes(parts...), nil
}
