package service

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sitecontent/internal/config"
	"sitecontent/internal/domain"
	"sitecontent/internal/seo"
	"sitecontent/internal/views"
)

const defaultRelatedLimit = 3

type ContentConfig struct {
	// Prefix is the public path the route serves posts under, e.g. "/blog".
	Prefix       string
	RelatedLimit int

	// ShowDrafts serves drafts and future scheduled posts. Preview routes only.
	ShowDrafts bool
}

// Page is a fully resolved post page.
type Page struct {
	Source         string               `json:"source"`
	Path           string               `json:"path"`
	Post           domain.Post          `json:"post"`
	Category       *domain.Category     `json:"category,omitempty"`
	HTML           template.HTML        `json:"html"`
	Related        []domain.Post        `json:"related"`
	Meta           []seo.Tag            `json:"meta"`
	Head           template.HTML        `json:"head"`
	StructuredData []seo.StructuredData `json:"structuredData"`
	JSONLD         []template.HTML      `json:"jsonLd,omitempty"`
}

type CategoryPage struct {
	Source         string               `json:"source"`
	Path           string               `json:"path"`
	Category       domain.Category      `json:"category"`
	Posts          []domain.Post        `json:"posts"`
	Meta           []seo.Tag            `json:"meta"`
	Head           template.HTML        `json:"head"`
	StructuredData []seo.StructuredData `json:"structuredData"`
	JSONLD         []template.HTML      `json:"jsonLd,omitempty"`
}

// ContentService resolves pages for one route against exactly one source.
type ContentService struct {
	source    PostSource
	txManager TransactionManager
	renderer  Renderer
	site      seo.Site
	config    ContentConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewContentService creates a content service. txManager may be nil for
// sources without snapshot support.
func NewContentService(
	source PostSource,
	txManager TransactionManager,
	renderer Renderer,
	site seo.Site,
	cfg ContentConfig,
	logger *slog.Logger,
) *ContentService {
	if cfg.RelatedLimit <= 0 {
		cfg.RelatedLimit = defaultRelatedLimit
	}
	cfg.Prefix = config.NormalizePrefix(cfg.Prefix)

	return &ContentService{
		source:    source,
		txManager: txManager,
		renderer:  renderer,
		site:      site,
		config:    cfg,
		logger:    logger.With("source", source.Name(), "prefix", cfg.Prefix),
		now:       time.Now,
	}
}

func (s *ContentService) Source() string {
	return s.source.Name()
}

// ResolvePage resolves slug to a page. found is false when the post is absent
// or not publicly visible; err is reserved for source failures.
func (s *ContentService) ResolvePage(ctx context.Context, slug string) (page Page, found bool, err error) {
	err = s.snapshot(ctx, func(ctx context.Context) error {
		lookup, err := s.source.GetBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("get post %q: %w", slug, err)
		}
		if !lookup.IsFound() || !s.visible(lookup.Post) {
			return nil
		}

		related, err := s.related(ctx, lookup.Post)
		if err != nil {
			return fmt.Errorf("related posts for %q: %w", slug, err)
		}

		page, err = s.buildPage(lookup.Post, lookup.Category, related)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return Page{}, false, err
	}

	if !found {
		s.logger.Debug("page not found", "slug", slug)
	}
	return page, found, nil
}

// CategoryPage resolves a category and its visible posts, most recently
// modified first.
func (s *ContentService) CategoryPage(ctx context.Context, slug string) (page CategoryPage, found bool, err error) {
	err = s.snapshot(ctx, func(ctx context.Context) error {
		cat, ok, err := s.source.GetCategoryBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("get category %q: %w", slug, err)
		}
		if !ok {
			return nil
		}

		posts, err := s.source.ListByCategory(ctx, cat.ID)
		if err != nil {
			return fmt.Errorf("list posts for category %q: %w", slug, err)
		}
		posts = s.filterVisible(posts)
		views.SortByRecency(posts)

		path := s.config.Prefix + "/category/" + cat.Slug
		desc := seo.PageDescriptor{
			Site:  s.site,
			Path:  path,
			Title: cat.Name,
		}
		if cat.Description != nil {
			desc.Description = *cat.Description
		}

		structured := []seo.StructuredData{
			seo.Breadcrumb(s.site, []seo.BreadcrumbItem{
				{Name: "Home", Path: "/"},
				{Name: s.sectionName(), Path: s.config.Prefix},
				{Name: cat.Name, Path: path},
			}),
		}
		jsonld, err := seo.RenderJSONLD(structured)
		if err != nil {
			return fmt.Errorf("render structured data: %w", err)
		}

		meta := seo.MetaTags(desc)
		page = CategoryPage{
			Source:         s.source.Name(),
			Path:           path,
			Category:       cat,
			Posts:          posts,
			Meta:           meta,
			Head:           seo.RenderMeta(meta),
			StructuredData: structured,
			JSONLD:         jsonld,
		}
		found = true
		return nil
	})
	if err != nil {
		return CategoryPage{}, false, err
	}
	return page, found, nil
}

// ListPublished returns up to limit published posts, newest first. A
// non-positive limit returns all of them. Routes that show drafts list every
// post instead, most recently modified first.
func (s *ContentService) ListPublished(ctx context.Context, limit int) ([]domain.Post, error) {
	if s.config.ShowDrafts {
		posts, err := s.source.ListRecent(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("list recent: %w", err)
		}
		return s.filterVisible(posts), nil
	}

	posts, err := s.source.ListPublished(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}
	return posts, nil
}

// ListRecent returns up to limit visible posts ordered by modification
// date, newest first.
func (s *ContentService) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	fetch := limit
	if !s.config.ShowDrafts {
		fetch = 0
	}
	posts, err := s.source.ListRecent(ctx, fetch)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	posts = s.filterVisible(posts)
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *ContentService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	posts, err := s.source.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list by author %q: %w", authorID, err)
	}
	return s.filterVisible(posts), nil
}

func (s *ContentService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.source.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *ContentService) snapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.WithReadOnly(ctx, fn)
}

// related gathers the candidates RelatedPosts may choose from: the explicit
// override refs and the post's category siblings.
func (s *ContentService) related(ctx context.Context, post domain.Post) ([]domain.Post, error) {
	var candidates []domain.Post
	seen := make(map[string]bool)
	add := func(posts []domain.Post) {
		for _, p := range posts {
			if !seen[p.Slug] {
				seen[p.Slug] = true
				candidates = append(candidates, p)
			}
		}
	}

	if len(post.RelatedPostIDs) > 0 {
		posts, err := s.source.ListByRefs(ctx, post.RelatedPostIDs)
		if err != nil {
			return nil, err
		}
		add(posts)
	}
	if post.CategoryID != nil {
		posts, err := s.source.ListByCategory(ctx, *post.CategoryID)
		if err != nil {
			return nil, err
		}
		add(posts)
	}

	return views.RelatedPosts(s.filterVisible(candidates), post, s.config.RelatedLimit), nil
}

func (s *ContentService) buildPage(post domain.Post, category *domain.Category, related []domain.Post) (Page, error) {
	html, err := s.renderer.Render(post.Content)
	if err != nil {
		return Page{}, fmt.Errorf("render %q: %w", post.Slug, err)
	}

	path := s.config.Prefix + "/" + post.Slug
	crumbs := []seo.BreadcrumbItem{
		{Name: "Home", Path: "/"},
		{Name: s.sectionName(), Path: s.config.Prefix},
	}
	if category != nil {
		crumbs = append(crumbs, seo.BreadcrumbItem{Name: category.Name, Path: s.config.Prefix + "/category/" + category.Slug})
	}
	crumbs = append(crumbs, seo.BreadcrumbItem{Name: post.Title, Path: path})

	structured := []seo.StructuredData{
		seo.Article(s.site, path, post, category),
		seo.Breadcrumb(s.site, crumbs),
	}
	jsonld, err := seo.RenderJSONLD(structured)
	if err != nil {
		return Page{}, fmt.Errorf("render structured data: %w", err)
	}

	meta := seo.MetaTags(seo.DescribePost(s.site, path, post, category))
	return Page{
		Source:         s.source.Name(),
		Path:           path,
		Post:           post,
		Category:       category,
		HTML:           html,
		Related:        related,
		Meta:           meta,
		Head:           seo.RenderMeta(meta),
		StructuredData: structured,
		JSONLD:         jsonld,
	}, nil
}

func (s *ContentService) visible(post domain.Post) bool {
	return s.config.ShowDrafts || post.VisibleAt(s.now())
}

func (s *ContentService) filterVisible(posts []domain.Post) []domain.Post {
	if s.config.ShowDrafts {
		if posts == nil {
			return []domain.Post{}
		}
		return posts
	}
	return views.Visible(posts, s.now())
}

// sectionName turns the route prefix into a breadcrumb label: "/blog" is "Blog".
func (s *ContentService) sectionName() string {
	name := strings.Trim(s.config.Prefix, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return s.site.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}
