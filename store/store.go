package store

import (
	"gorm.io/gorm"

	"github.com/quillhq/quill/utils"
)

// Store is the entity store facade: all reads and writes for posts, groups,
// comments and follow edges go through it. Referential integrity (cascade on
// author delete, set-null on group delete, unique slug and follow pair) is
// enforced by the database schema; Store translates driver errors into the
// typed errors in errors.go.
type Store struct {
	db    *gorm.DB
	cache utils.PageCache
}

// New creates a Store on top of an initialized database and page cache.
func New(db *gorm.DB, cache utils.PageCache) *Store {
	return &Store{db: db, cache: cache}
}

// ClearCache drops all cached listings. Administrative and test paths only;
// regular writes rely on TTL expiry instead.
func (s *Store) ClearCache() {
	s.cache.Clear()
}
