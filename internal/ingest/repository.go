package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"runtime"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"dualpace/internal/analyze"
	"dualpace/internal/domain/content"
	domainerr "dualpace/internal/domain/errors"
	"dualpace/internal/logging"
)

// InvalidPolicy decides what a bulk load does with a post that fails validation.
type InvalidPolicy string

const (
	// PolicyFailFast aborts the whole listing on the first invalid post.
	PolicyFailFast InvalidPolicy = "fail-fast"
	// PolicySkip logs the invalid post, reports a Warning and leaves it out.
	PolicySkip InvalidPolicy = "skip"
)

func (p InvalidPolicy) Valid() bool {
	return p == PolicyFailFast || p == PolicySkip
}

var DefaultExtensions = []string{".mdx", ".md"}

type Options struct {
	Extensions    []string
	Policy        InvalidPolicy
	ExcerptLength int
	Workers       int
	Logger        *zerolog.Logger
}

type Warning struct {
	Path string
	Msg  string
}

// Repository reads posts laid out as {locale}/{slug}{ext} under one root.
// It holds no state between calls; every read goes to the file system.
type Repository struct {
	fsys fs.FS
	opt  Options
	log  zerolog.Logger
}

func NewRepository(fsys fs.FS, opt Options) *Repository {
	if len(opt.Extensions) == 0 {
		opt.Extensions = DefaultExtensions
	}
	if !opt.Policy.Valid() {
		opt.Policy = PolicyFailFast
	}
	if opt.ExcerptLength <= 0 {
		opt.ExcerptLength = analyze.DefaultExcerptLength
	}
	if opt.Workers <= 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}
	lg := zerolog.Nop()
	if opt.Logger != nil {
		lg = logging.Component(*opt.Logger, "ingest")
	}
	return &Repository{fsys: fsys, opt: opt, log: lg}
}

// Open is NewRepository over a directory on disk.
func Open(dir string, opt Options) *Repository {
	return NewRepository(os.DirFS(dir), opt)
}

// Get reads one post. A missing file yields an error matching
// domainerr.ErrNotFound; bad front matter yields a domainerr.ValidationError.
func (r *Repository) Get(slug, locale string) (content.Document, error) {
	if !validSegment(slug) || !validSegment(locale) {
		return content.Document{}, domainerr.NotFoundError{Kind: "post", Key: locale + "/" + slug}
	}
	for _, ext := range r.opt.Extensions {
		p := path.Join(locale, slug+ext)
		raw, err := fs.ReadFile(r.fsys, p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return content.Document{}, fmt.Errorf("read %s: %w", p, err)
		}
		return r.parse(p, raw, slug, locale)
	}
	return content.Document{}, domainerr.NotFoundError{Kind: "post", Key: locale + "/" + slug}
}

func (r *Repository) parse(p string, raw []byte, slug, locale string) (content.Document, error) {
	meta, body, err := ParseFrontMatter(raw)
	if err != nil {
		return content.Document{}, fmt.Errorf("%s: %w", p, err)
	}
	fm, err := content.Validate(meta, slug, locale)
	if err != nil {
		return content.Document{}, fmt.Errorf("%s: %w", p, err)
	}
	if fm.ReadTime == nil {
		rt := analyze.ReadTime(body)
		fm.ReadTime = &rt
	}
	if fm.Excerpt == "" {
		fm.Excerpt = analyze.Excerpt(body, r.opt.ExcerptLength)
	}
	return content.Document{Frontmatter: fm, Content: body}, nil
}

// All returns every post of a locale, newest first. See Load for warnings.
func (r *Repository) All(locale string) ([]content.Document, error) {
	docs, _, err := r.Load(locale)
	return docs, err
}

type loadResult struct {
	idx int
	doc content.Document
	err error
}

// Load reads every post of a locale concurrently and returns them sorted by
// date, newest first; equal dates keep file name order. A missing locale
// directory gives an empty result. Invalid posts are handled per Policy.
//
// When one slug exists under several extensions the file Get would read wins;
// the others are reported as warnings and never parsed.
func (r *Repository) Load(locale string) ([]content.Document, []Warning, error) {
	found, err := DiscoverLocale(r.fsys, locale, r.opt.Extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("discover %s: %w", locale, err)
	}
	if len(found) == 0 {
		return []content.Document{}, nil, nil
	}

	files, dups := pickWinners(found)
	var warns []Warning
	for _, d := range dups {
		r.log.Warn().Str("path", d.file.Path).Str("kept", d.kept).Msg("duplicate slug, skipped")
		warns = append(warns, Warning{Path: d.file.Path, Msg: "duplicate slug " + d.file.Slug + " (kept " + d.kept + ")"})
	}

	workers := min(r.opt.Workers, len(files))
	jobs := make(chan int)
	results := make(chan loadResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				sf := files[idx]
				raw, err := fs.ReadFile(r.fsys, sf.Path)
				if err != nil {
					results <- loadResult{idx: idx, err: fmt.Errorf("read %s: %w", sf.Path, err)}
					continue
				}
				doc, err := r.parse(sf.Path, raw, sf.Slug, locale)
				results <- loadResult{idx: idx, doc: doc, err: err}
			}
		}()
	}

	go func() {
		for i := range files {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	ordered := make([]loadResult, len(files))
	for res := range results {
		ordered[res.idx] = res
	}

	docs := make([]content.Document, 0, len(files))
	for i, res := range ordered {
		sf := files[i]
		if res.err != nil {
			if r.opt.Policy == PolicyFailFast || !isContentError(res.err) {
				return nil, warns, res.err
			}
			r.log.Warn().Err(res.err).Str("path", sf.Path).Msg("skipping invalid post")
			warns = append(warns, Warning{Path: sf.Path, Msg: res.err.Error()})
			continue
		}
		docs = append(docs, res.doc)
	}

	slices.SortStableFunc(docs, func(a, b content.Document) int {
		return content.NewerFirst(a.Frontmatter.Date, b.Frontmatter.Date)
	})
	r.log.Debug().Str("locale", locale).Int("posts", len(docs)).Int("warnings", len(warns)).Msg("locale loaded")
	return docs, warns, nil
}

type duplicate struct {
	file SourceFile
	kept string
}

// pickWinners keeps one file per slug, the one with the lowest extension rank,
// and returns the survivors in their original order.
func pickWinners(files []SourceFile) ([]SourceFile, []duplicate) {
	best := make(map[string]SourceFile, len(files))
	for _, f := range files {
		if cur, ok := best[f.Slug]; !ok || f.Rank < cur.Rank {
			best[f.Slug] = f
		}
	}
	out := make([]SourceFile, 0, len(best))
	var dups []duplicate
	for _, f := range files {
		win := best[f.Slug]
		if win.Path == f.Path {
			out = append(out, f)
			continue
		}
		dups = append(dups, duplicate{file: f, kept: win.Path})
	}
	return out, dups
}

// isContentError separates a broken post from a broken file system; only the
// former may be skipped.
func isContentError(err error) bool {
	return errors.Is(err, domainerr.ErrInvalid) || errors.Is(err, errInvalidFrontMatter)
}

// ByCategory is All restricted to one category; order is preserved.
func (r *Repository) ByCategory(category content.Category, locale string) ([]content.Document, error) {
	docs, err := r.All(locale)
	if err != nil {
		return nil, err
	}
	out := make([]content.Document, 0, len(docs))
	for _, d := range docs {
		if d.Frontmatter.Category == category {
			out = append(out, d)
		}
	}
	return out, nil
}

// Slugs lists post identifiers of a locale without parsing the files.
func (r *Repository) Slugs(locale string) ([]string, error) {
	files, err := DiscoverLocale(r.fsys, locale, r.opt.Extensions)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		if slices.Contains(out, f.Slug) {
			continue
		}
		out = append(out, f.Slug)
	}
	return out, nil
}

// Posts is All projected to listing posts.
func (r *Repository) Posts(locale string) ([]content.Post, error) {
	docs, err := r.All(locale)
	if err != nil {
		return nil, err
	}
	return content.ToPosts(docs), nil
}
