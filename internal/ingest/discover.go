package ingest

import (
	"errors"
	"io/fs"
	"path"
	"strings"
)

type SourceFile struct {
	Path string
	Slug string
	// Rank is the position of the file's extension in the configured list.
	Rank int
}

// DiscoverLocale lists the content files directly inside the locale directory,
// in file name order. A missing locale directory is not an error.
func DiscoverLocale(fsys fs.FS, locale string, exts []string) ([]SourceFile, error) {
	if !validSegment(locale) {
		return nil, nil
	}
	st, err := fs.Stat(fsys, locale)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !st.IsDir() {
		return nil, nil
	}

	entries, err := fs.ReadDir(fsys, locale)
	if err != nil {
		return nil, err
	}

	var out []SourceFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		slug, rank, ok := trimExt(e.Name(), exts)
		if !ok {
			continue
		}
		out = append(out, SourceFile{
			Path: path.Join(locale, e.Name()),
			Slug: slug,
			Rank: rank,
		})
	}
	return out, nil
}

func trimExt(name string, exts []string) (string, int, bool) {
	lower := strings.ToLower(name)
	for i, ext := range exts {
		if strings.HasSuffix(lower, ext) && len(name) > len(ext) {
			return name[:len(name)-len(ext)], i, true
		}
	}
	return "", 0, false
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
