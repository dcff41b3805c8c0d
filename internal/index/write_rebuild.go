package index

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"dualpace/internal/domain/content"
)

// Rebuild replaces everything stored for locale with docs. docs are expected
// newest first; that order is kept for posts sharing a date. Fingerprints of
// posts that no longer exist are dropped, the rest survive.
func (s *Store) Rebuild(locale content.Locale, docs []content.Document) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return rebuildLocale(tx, locale, docs)
	})
}

// LocaleDocs is the full post set of one locale.
type LocaleDocs struct {
	Locale content.Locale
	Docs   []content.Document
}

// RebuildAll is Rebuild for several locales in a single transaction; either
// every locale is replaced or none is.
func (s *Store) RebuildAll(sets []LocaleDocs) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, set := range sets {
			if err := rebuildLocale(tx, set.Locale, set.Docs); err != nil {
				return fmt.Errorf("rebuild %s: %w", set.Locale, err)
			}
		}
		return nil
	})
}

func rebuildLocale(tx *bolt.Tx, locale content.Locale, docs []content.Document) error {
	loc := []byte(locale)
	buckets := make(map[string]*bolt.Bucket, 4)
	for _, name := range [][]byte{bMeta, bBody, bIdxDate, bIdxCat} {
		parent, err := tx.CreateBucketIfNotExists(name)
		if err != nil {
			return err
		}
		if parent.Bucket(loc) != nil {
			if err := parent.DeleteBucket(loc); err != nil {
				return err
			}
		}
		b, err := parent.CreateBucket(loc)
		if err != nil {
			return err
		}
		buckets[string(name)] = b
	}
	metaB := buckets[string(bMeta)]
	bodyB := buckets[string(bBody)]
	dateB := buckets[string(bIdxDate)]
	catB := buckets[string(bIdxCat)]

	live := make(map[string]struct{}, len(docs))
	for seq, d := range docs {
		p := content.ToPost(d.Frontmatter)
		if p.Slug == "" || p.Locale != locale {
			continue
		}
		if _, dup := live[p.Slug]; dup {
			continue
		}
		live[p.Slug] = struct{}{}

		mb, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode %s: %w", p.Slug, err)
		}
		if err := metaB.Put([]byte(p.Slug), mb); err != nil {
			return err
		}
		if err := bodyB.Put([]byte(p.Slug), []byte(d.Content)); err != nil {
			return err
		}

		key := makeDateKey(p.PublishedAt, seq, p.Slug)
		if err := dateB.Put(key, []byte(p.Slug)); err != nil {
			return err
		}
		sb, err := catB.CreateBucketIfNotExists([]byte(p.Category))
		if err != nil {
			return err
		}
		if err := sb.Put(key, []byte(p.Slug)); err != nil {
			return err
		}
	}

	return pruneFingerprints(tx, loc, live)
}

func pruneFingerprints(tx *bolt.Tx, loc []byte, live map[string]struct{}) error {
	b := localeBucket(tx, bFingerprint, string(loc))
	if b == nil {
		return nil
	}
	var stale [][]byte
	if err := b.ForEach(func(k, _ []byte) error {
		if _, ok := live[string(k)]; !ok {
			stale = append(stale, append([]byte(nil), k...))
		}
		return nil
	}); err != nil {
		return err
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// PutFingerprint records the render hash of a written post page.
func (s *Store) PutFingerprint(locale content.Locale, slug, hash string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		parent, err := tx.CreateBucketIfNotExists(bFingerprint)
		if err != nil {
			return err
		}
		b, err := parent.CreateBucketIfNotExists([]byte(locale))
		if err != nil {
			return err
		}
		return b.Put([]byte(slug), []byte(hash))
	})
}

// Fingerprint returns the stored render hash, or "" when none is recorded.
func (s *Store) Fingerprint(locale content.Locale, slug string) (string, error) {
	var out string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := localeBucket(tx, bFingerprint, string(locale))
		if b == nil {
			return nil
		}
		out = string(b.Get([]byte(slug)))
		return nil
	})
	return out, err
}
