package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"html/template"

	"sitecontent/internal/content"
	"sitecontent/internal/domain"
)

// PostSource is the read contract shared by the static collection, the
// managed database and the hosted document store.
type PostSource interface {
	Name() string
	GetBySlug(ctx context.Context, slug string) (domain.Lookup, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Post, error)
	ListByRefs(ctx context.Context, refs []string) ([]domain.Post, error)
	ListPublished(ctx context.Context, limit int) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Post, error)
	GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, bool, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type TransactionManager interface {
	WithReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type Renderer interface {
	Render(src string) (template.HTML, error)
}

type Loader interface {
	Load(ctx context.Context) (*content.Collection, error)
}

type CollectionStore interface {
	Name() string
	Swap(c *content.Collection) *content.Collection
}

type Publisher interface {
	Publish(ctx context.Context, change domain.ContentChange) error
	Close() error
}
