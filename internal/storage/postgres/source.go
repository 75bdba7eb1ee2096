package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"sitecontent/internal/domain"
)

const SourceName = "postgres"

// Source serves posts and categories from the managed database.
type Source struct {
	posts      *PostStore
	categories *CategoryStore
}

func NewSource(db *sqlx.DB) *Source {
	return &Source{
		posts:      NewPostStore(db),
		categories: NewCategoryStore(db),
	}
}

func (s *Source) Name() string {
	return SourceName
}

func (s *Source) GetBySlug(ctx context.Context, slug string) (domain.Lookup, error) {
	return s.posts.GetBySlug(ctx, slug)
}

func (s *Source) ListByCategory(ctx context.Context, categoryID string) ([]domain.Post, error) {
	return s.posts.ListByCategory(ctx, categoryID)
}

func (s *Source) ListByRefs(ctx context.Context, refs []string) ([]domain.Post, error) {
	return s.posts.ListByRefs(ctx, refs)
}

func (s *Source) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	return s.posts.ListRecentlyModified(ctx, limit)
}

func (s *Source) ListPublished(ctx context.Context, limit int) ([]domain.Post, error) {
	return s.posts.ListPublished(ctx, limit)
}

func (s *Source) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

func (s *Source) GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, bool, error) {
	return s.categories.GetBySlug(ctx, slug)
}

func (s *Source) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}
