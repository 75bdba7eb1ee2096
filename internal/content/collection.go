package content

import (
	"sort"
	"time"

	"sitecontent/internal/domain"
	"sitecontent/internal/views"
)

// Collection is an immutable set of static posts, ordered most recently
// modified first.
type Collection struct {
	posts      []domain.Post
	bySlug     map[string]int
	categories []domain.Category
	loadedAt   time.Time
}

func newCollection(posts []domain.Post, categories []domain.Category, loadedAt time.Time) *Collection {
	sorted := append([]domain.Post(nil), posts...)
	views.SortByRecency(sorted)

	c := &Collection{
		posts:      sorted,
		bySlug:     make(map[string]int, len(sorted)),
		categories: append([]domain.Category(nil), categories...),
		loadedAt:   loadedAt,
	}
	for i, p := range c.posts {
		c.bySlug[p.Slug] = i
	}
	return c
}

// NewCollection builds a collection from already validated posts. Category
// references that are not in categories get a derived category.
func NewCollection(posts []domain.Post, categories []domain.Category) *Collection {
	return newCollection(posts, deriveMissingCategories(append([]domain.Category(nil), categories...), posts), time.Now())
}

func (c *Collection) GetBySlug(slug string) (domain.Post, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return domain.Post{}, false
	}
	return c.posts[i], true
}

// Lookup resolves a slug to a post joined with its category.
func (c *Collection) Lookup(slug string) domain.Lookup {
	post, ok := c.GetBySlug(slug)
	if !ok {
		return domain.Absent()
	}
	if post.CategoryID == nil {
		return domain.Found(post, nil)
	}
	cat, ok := c.Category(*post.CategoryID)
	if !ok {
		return domain.Absent()
	}
	return domain.Found(post, &cat)
}

// Related returns up to n posts related to slug. An unknown slug yields an
// empty list.
func (c *Collection) Related(slug string, n int) []domain.Post {
	post, ok := c.GetBySlug(slug)
	if !ok {
		return []domain.Post{}
	}
	return views.RelatedPosts(c.posts, post, n)
}

func (c *Collection) ListByCategory(categoryID string) []domain.Post {
	out := []domain.Post{}
	for _, p := range c.posts {
		if p.InCategory(categoryID) {
			out = append(out, p)
		}
	}
	return out
}

// ListByRefs returns posts whose id or slug is in refs, in refs order.
func (c *Collection) ListByRefs(refs []string) []domain.Post {
	out := []domain.Post{}
	for _, ref := range refs {
		if p, ok := c.GetBySlug(ref); ok {
			out = append(out, p)
			continue
		}
		for _, p := range c.posts {
			if p.ID == ref {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Published returns published posts ordered by publication date, newest
// first; posts without a publication date sort last.
func (c *Collection) Published() []domain.Post {
	out := []domain.Post{}
	for _, p := range c.posts {
		if p.Status == domain.StatusPublished {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return out
}

// ListByAuthor matches authorID against the author id, falling back to the
// display name for posts without one.
func (c *Collection) ListByAuthor(authorID string) []domain.Post {
	out := []domain.Post{}
	for _, p := range c.posts {
		if (p.AuthorID != nil && *p.AuthorID == authorID) || (p.AuthorID == nil && p.AuthorName == authorID) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Collection) Posts() []domain.Post {
	return append([]domain.Post(nil), c.posts...)
}

func (c *Collection) Categories() []domain.Category {
	return append([]domain.Category(nil), c.categories...)
}

func (c *Collection) Category(slug string) (domain.Category, bool) {
	return views.CategoryBySlug(c.categories, slug)
}

func (c *Collection) Len() int {
	return len(c.posts)
}

// LoadedAt is when the loader finished reading the collection.
func (c *Collection) LoadedAt() time.Time {
	return c.loadedAt
}
