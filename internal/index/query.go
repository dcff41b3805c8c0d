package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"dualpace/internal/domain/content"
	domainerr "dualpace/internal/domain/errors"
)

// ListOptions pages through a listing. Size <= 0 returns everything.
type ListOptions struct {
	Page int
	Size int
}

// Entry is a stored post together with its markup body.
type Entry struct {
	Post content.Post
	Body string
}

func notFound(locale content.Locale, slug string) error {
	return domainerr.NotFoundError{Kind: "post", Key: string(locale) + "/" + slug}
}

func (s *Store) Get(locale content.Locale, slug string) (Entry, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Entry{}, notFound(locale, slug)
	}
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		metaB := localeBucket(tx, bMeta, string(locale))
		if metaB == nil {
			return notFound(locale, slug)
		}
		v := metaB.Get([]byte(slug))
		if v == nil {
			return notFound(locale, slug)
		}
		if err := json.Unmarshal(v, &e.Post); err != nil {
			return err
		}
		if bodyB := localeBucket(tx, bBody, string(locale)); bodyB != nil {
			e.Body = string(bodyB.Get([]byte(slug)))
		}
		return nil
	})
	return e, err
}

// List returns the posts of locale newest first.
func (s *Store) List(locale content.Locale, opt ListOptions) ([]content.Post, error) {
	var out []content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := localeBucket(tx, bIdxDate, string(locale))
		metaB := localeBucket(tx, bMeta, string(locale))
		if idx == nil || metaB == nil {
			return nil
		}
		out = scan(idx, metaB, opt)
		return nil
	})
	if out == nil {
		out = []content.Post{}
	}
	return out, err
}

// ListByCategory is List restricted to one category.
func (s *Store) ListByCategory(locale content.Locale, category content.Category, opt ListOptions) ([]content.Post, error) {
	var out []content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := localeBucket(tx, bIdxCat, string(locale))
		metaB := localeBucket(tx, bMeta, string(locale))
		if parent == nil || metaB == nil {
			return nil
		}
		sb := parent.Bucket([]byte(category))
		if sb == nil {
			return nil
		}
		out = scan(sb, metaB, opt)
		return nil
	})
	if out == nil {
		out = []content.Post{}
	}
	return out, err
}

func scan(idx, metaB *bolt.Bucket, opt ListOptions) []content.Post {
	skip := 0
	if opt.Size > 0 && opt.Page > 1 {
		skip = (opt.Page - 1) * opt.Size
	}

	var out []content.Post
	cur := idx.Cursor()
	for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
		slug := slugFromDateKey(k)
		if slug == "" {
			continue
		}
		v := metaB.Get([]byte(slug))
		if v == nil {
			continue
		}
		var p content.Post
		if err := json.Unmarshal(v, &p); err != nil {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, p)
		if opt.Size > 0 && len(out) >= opt.Size {
			break
		}
	}
	return out
}
