package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sitecontent/internal/domain"
)

type categoryRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description *string   `db:"description"`
}

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:          r.ID.String(),
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
	}
}

type CategoryStore struct {
	db *sqlx.DB
}

func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (domain.Category, bool, error) {
	var row categoryRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row,
		"SELECT id, name, slug, description FROM categories WHERE slug = $1",
		slug,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, false, nil
	}
	if err != nil {
		return domain.Category{}, false, err
	}
	return row.toDomain(), true, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows,
		"SELECT id, name, slug, description FROM categories ORDER BY name, slug",
	)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, len(rows))
	for i, r := range rows {
		categories[i] = r.toDomain()
	}
	return categories, nil
}
