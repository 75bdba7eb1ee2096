package content

import (
	"context"
	"sync/atomic"
	"time"

	"sitecontent/internal/domain"
)

const SourceName = "static"

// Store serves the current static collection. Rebuilds replace the whole
// collection at once; readers never see a partially loaded one.
type Store struct {
	current atomic.Pointer[Collection]
}

func NewStore() *Store {
	s := &Store{}
	s.current.Store(newCollection(nil, nil, time.Time{}))
	return s
}

// Swap installs c and returns the previously served collection.
func (s *Store) Swap(c *Collection) *Collection {
	return s.current.Swap(c)
}

func (s *Store) Current() *Collection {
	return s.current.Load()
}

func (s *Store) Name() string {
	return SourceName
}

func (s *Store) GetBySlug(_ context.Context, slug string) (domain.Lookup, error) {
	return s.Current().Lookup(slug), nil
}

func (s *Store) ListByCategory(_ context.Context, categoryID string) ([]domain.Post, error) {
	return s.Current().ListByCategory(categoryID), nil
}

func (s *Store) ListByRefs(_ context.Context, refs []string) ([]domain.Post, error) {
	return s.Current().ListByRefs(refs), nil
}

func (s *Store) GetCategoryBySlug(_ context.Context, slug string) (domain.Category, bool, error) {
	cat, ok := s.Current().Category(slug)
	return cat, ok, nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	return s.Current().Categories(), nil
}

// ListPublished returns published posts, newest publication first.
func (s *Store) ListPublished(_ context.Context, limit int) ([]domain.Post, error) {
	return limitPosts(s.Current().Published(), limit), nil
}

func (s *Store) ListByAuthor(_ context.Context, authorID string) ([]domain.Post, error) {
	return s.Current().ListByAuthor(authorID), nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]domain.Post, error) {
	return limitPosts(s.Current().Posts(), limit), nil
}

func limitPosts(posts []domain.Post, limit int) []domain.Post {
	if limit > 0 && len(posts) > limit {
		return posts[:limit]
	}
	return posts
}
