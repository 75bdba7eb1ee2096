package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sitecontent/internal/domain"
)

const postColumns = `
	p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image, p.category_id,
	p.author_id, p.author_name, p.status, p.published_at, p.scheduled_for, p.modified_at,
	p.seo_meta_title, p.seo_meta_description, p.seo_og_image, p.seo_noindex, p.related_post_ids`

type postRow struct {
	ID                 uuid.UUID      `db:"id"`
	Title              string         `db:"title"`
	Slug               string         `db:"slug"`
	Content            string         `db:"content"`
	Excerpt            *string        `db:"excerpt"`
	FeaturedImage      *string        `db:"featured_image"`
	CategoryID         uuid.NullUUID  `db:"category_id"`
	AuthorID           *string        `db:"author_id"`
	AuthorName         string         `db:"author_name"`
	Status             string         `db:"status"`
	PublishedAt        *time.Time     `db:"published_at"`
	ScheduledFor       *time.Time     `db:"scheduled_for"`
	ModifiedAt         time.Time      `db:"modified_at"`
	SEOMetaTitle       *string        `db:"seo_meta_title"`
	SEOMetaDescription *string        `db:"seo_meta_description"`
	SEOOGImage         *string        `db:"seo_og_image"`
	SEONoIndex         bool           `db:"seo_noindex"`
	RelatedPostIDs     pq.StringArray `db:"related_post_ids"`
}

type postWithCategoryRow struct {
	postRow
	CatID          uuid.NullUUID `db:"cat_id"`
	CatName        *string       `db:"cat_name"`
	CatSlug        *string       `db:"cat_slug"`
	CatDescription *string       `db:"cat_description"`
}

func (r postRow) toDomain() domain.Post {
	post := domain.Post{
		ID:             r.ID.String(),
		Title:          r.Title,
		Slug:           r.Slug,
		Content:        r.Content,
		Excerpt:        r.Excerpt,
		FeaturedImage:  r.FeaturedImage,
		AuthorID:       r.AuthorID,
		AuthorName:     r.AuthorName,
		Status:         domain.Status(r.Status),
		PublishedAt:    r.PublishedAt,
		ScheduledFor:   r.ScheduledFor,
		ModifiedAt:     r.ModifiedAt,
		RelatedPostIDs: []string(r.RelatedPostIDs),
	}
	if r.CategoryID.Valid {
		id := r.CategoryID.UUID.String()
		post.CategoryID = &id
	}
	if r.SEOMetaTitle != nil || r.SEOMetaDescription != nil || r.SEOOGImage != nil || r.SEONoIndex {
		post.SEO = &domain.SEO{
			MetaTitle:       r.SEOMetaTitle,
			MetaDescription: r.SEOMetaDescription,
			OGImage:         r.SEOOGImage,
			NoIndex:         r.SEONoIndex,
		}
	}
	if len(post.RelatedPostIDs) == 0 {
		post.RelatedPostIDs = nil
	}
	return post
}

type PostStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

// GetBySlug returns the post joined with its category, or an Absent lookup.
func (s *PostStore) GetBySlug(ctx context.Context, slug string) (domain.Lookup, error) {
	query := `
		SELECT ` + postColumns + `,
			c.id AS cat_id, c.name AS cat_name, c.slug AS cat_slug, c.description AS cat_description
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1`

	var row postWithCategoryRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Absent(), nil
	}
	if err != nil {
		return domain.Lookup{}, err
	}

	post := row.toDomain()
	if !row.CategoryID.Valid {
		return domain.Found(post, nil), nil
	}
	if !row.CatID.Valid {
		// the foreign key nulls category_id on delete, so this is a torn read
		return domain.Absent(), nil
	}

	cat := &domain.Category{
		ID:          row.CatID.UUID.String(),
		Name:        deref(row.CatName),
		Slug:        deref(row.CatSlug),
		Description: row.CatDescription,
	}
	return domain.Found(post, cat), nil
}

// ListPublished returns published posts, newest publication first.
func (s *PostStore) ListPublished(ctx context.Context, limit int) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		WHERE p.status = 'published'
		ORDER BY p.published_at DESC NULLS LAST, p.slug
		LIMIT $1`
	return s.selectPosts(ctx, query, limitOrAll(limit))
}

func (s *PostStore) ListByCategory(ctx context.Context, categoryID string) ([]domain.Post, error) {
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return []domain.Post{}, nil
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		WHERE p.category_id = $1
		ORDER BY p.modified_at DESC, p.slug`
	return s.selectPosts(ctx, query, id)
}

func (s *PostStore) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		WHERE p.author_id = $1
		ORDER BY p.modified_at DESC, p.slug`
	return s.selectPosts(ctx, query, authorID)
}

func (s *PostStore) ListRecentlyModified(ctx context.Context, limit int) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		ORDER BY p.modified_at DESC, p.slug
		LIMIT $1`
	return s.selectPosts(ctx, query, limitOrAll(limit))
}

// ListByRefs returns posts whose id or slug is in refs, in refs order.
func (s *PostStore) ListByRefs(ctx context.Context, refs []string) ([]domain.Post, error) {
	if len(refs) == 0 {
		return []domain.Post{}, nil
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		WHERE p.id::text = ANY($1) OR p.slug = ANY($1)`
	posts, err := s.selectPosts(ctx, query, pq.Array(refs))
	if err != nil {
		return nil, err
	}

	byRef := make(map[string]domain.Post, len(posts)*2)
	for _, p := range posts {
		byRef[p.ID] = p
		byRef[p.Slug] = p
	}

	out := make([]domain.Post, 0, len(posts))
	for _, ref := range refs {
		if p, ok := byRef[ref]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PostStore) selectPosts(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	var rows []postRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, len(rows))
	for i, r := range rows {
		posts[i] = r.toDomain()
	}
	return posts, nil
}

// limitOrAll maps a non-positive limit to LIMIT ALL.
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
