package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"dualpace/internal/app"
	"dualpace/internal/domain/config"
	"dualpace/internal/domain/content"
	domainerr "dualpace/internal/domain/errors"
	"dualpace/internal/domain/site"
	"dualpace/internal/index"
	"dualpace/internal/ingest"
	"dualpace/internal/render"
)

type Builder struct {
	Cfg config.Config
	Log zerolog.Logger
	// Force re-renders post pages even when their fingerprint is unchanged.
	Force bool
}

type Result struct {
	Posts    int
	Written  int
	Skipped  int
	Warnings []ingest.Warning
}

// NewRepository opens the posts directory with the content settings of cfg.
func NewRepository(cfg config.Config, log zerolog.Logger) *ingest.Repository {
	return ingest.Open(cfg.Content.PostsDir, ingest.Options{
		Extensions:    cfg.Content.Extensions,
		Policy:        ingest.InvalidPolicy(cfg.Content.InvalidPolicy),
		ExcerptLength: cfg.Content.ExcerptLength,
		Logger:        &log,
	})
}

// SyncIndex loads every locale from repo and then replaces the index contents
// of all of them at once. If any locale fails to load the index is left as it
// was. It returns the number of indexed posts.
func SyncIndex(repo *ingest.Repository, st *index.Store, locales []content.Locale) (int, []ingest.Warning, error) {
	var (
		total int
		warns []ingest.Warning
		sets  = make([]index.LocaleDocs, 0, len(locales))
	)
	for _, loc := range locales {
		docs, w, err := repo.Load(string(loc))
		warns = append(warns, w...)
		if err != nil {
			return 0, warns, fmt.Errorf("load %s: %w", loc, err)
		}
		sets = append(sets, index.LocaleDocs{Locale: loc, Docs: docs})
		total += len(docs)
	}
	if err := st.RebuildAll(sets); err != nil {
		return 0, warns, fmt.Errorf("index: %w", err)
	}
	return total, warns, nil
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	repo := NewRepository(b.Cfg, b.Log)

	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	locales := b.Cfg.SiteLocales()
	n, warns, err := SyncIndex(repo, st, locales)
	if err != nil {
		return nil, err
	}

	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	pages := &app.Pages{
		Cfg:       b.Cfg,
		Store:     st,
		MD:        render.NewMarkdownRenderer(),
		Tpl:       tpl,
		ThemeHash: tpl.ThemeHash(),
	}
	rb := &app.RouteBuilder{Slugs: repo, Locales: locales}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	res := &Result{Posts: n, Warnings: warns}
	for _, r := range rb.BuildListingRoutes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.writeRoute(ctx, pages, outDir, r); err != nil {
			return nil, err
		}
		res.Written++
	}

	if err := b.buildPosts(ctx, pages, st, rb, outDir, res); err != nil {
		return nil, fmt.Errorf("build posts: %w", err)
	}

	if err := b.copyStaticAssets(outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}

	b.Log.Info().
		Int("posts", res.Posts).
		Int("written", res.Written).
		Int("unchanged", res.Skipped).
		Int("warnings", len(res.Warnings)).
		Msg("build finished")
	return res, nil
}

func (b *Builder) buildPosts(ctx context.Context, pages *app.Pages, st *index.Store, rb *app.RouteBuilder, outDir string, res *Result) error {
	routes, err := rb.BuildPostRoutes()
	if err != nil {
		return err
	}
	for _, r := range routes {
		if err := ctx.Err(); err != nil {
			return err
		}

		fp, err := pages.PostFingerprint(r.Locale, r.Slug)
		if errors.Is(err, domainerr.ErrNotFound) {
			// skipped by the loader: invalid or duplicate
			b.Log.Debug().Str("route", r.String()).Msg("post not indexed, no page")
			continue
		}
		if err != nil {
			return err
		}

		if !b.Force {
			prev, err := st.Fingerprint(r.Locale, r.Slug)
			if err != nil {
				return err
			}
			if prev == fp.RenderHash && fileExists(filepath.Join(outDir, r.OutPath)) {
				res.Skipped++
				continue
			}
		}

		if err := b.writeRoute(ctx, pages, outDir, r); err != nil {
			return err
		}
		if err := st.PutFingerprint(r.Locale, r.Slug, fp.RenderHash); err != nil {
			return err
		}
		res.Written++
	}
	return nil
}

func (b *Builder) writeRoute(ctx context.Context, pages *app.Pages, outDir string, r site.Route) error {
	htmlBytes, err := pages.Render(ctx, r)
	if err != nil {
		return fmt.Errorf("render %s: %w", r, err)
	}
	b.Log.Debug().Str("out", r.OutPath).Msg("write page")
	return writeFile(outDir, r.OutPath, htmlBytes)
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// copyStaticAssets mirrors {theme_dir}/static into the public dir.
func (b *Builder) copyStaticAssets(outDir string) error {
	if b.Cfg.Build.ThemeDir == "" {
		return nil
	}
	src := filepath.Join(b.Cfg.Build.ThemeDir, "static")
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return writeFile(outDir, filepath.ToSlash(rel), in)
	})
}
