package index

import (
	bolt "go.etcd.io/bbolt"

	"dualpace/internal/domain/content"
)

// CategorySummary describes one category of a locale for navigation.
type CategorySummary struct {
	Category content.Category
	Count    int
	Latest   string // slug of the newest post
}

// Categories lists every known category of locale in taxonomy order,
// including empty ones.
func (s *Store) Categories(locale content.Locale) ([]CategorySummary, error) {
	out := make([]CategorySummary, 0, len(content.Categories))
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := localeBucket(tx, bIdxCat, string(locale))
		for _, c := range content.Categories {
			sum := CategorySummary{Category: c}
			if parent != nil {
				if sb := parent.Bucket([]byte(c)); sb != nil {
					cur := sb.Cursor()
					for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
						if sum.Count == 0 {
							sum.Latest = slugFromDateKey(k)
						}
						sum.Count++
					}
				}
			}
			out = append(out, sum)
		}
		return nil
	})
	return out, err
}
