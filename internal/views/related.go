package views

import (
	"sort"
	"time"

	"sitecontent/internal/domain"
)

// RelatedPosts returns up to n posts related to current. An explicit
// RelatedPostIDs list wins when at least one entry resolves (matched by id or
// slug, order kept). Otherwise posts sharing current's category are ranked
// most recently modified first, ties broken by slug. The current post is
// never included and the result is never nil.
func RelatedPosts(posts []domain.Post, current domain.Post, n int) []domain.Post {
	out := []domain.Post{}
	if n <= 0 {
		return out
	}

	if len(current.RelatedPostIDs) > 0 {
		out = explicitRelated(posts, current, n)
		if len(out) > 0 {
			return out
		}
	}

	if current.CategoryID == nil {
		return out
	}

	for _, p := range posts {
		if p.Slug == current.Slug || !p.InCategory(*current.CategoryID) {
			continue
		}
		out = append(out, p)
	}

	SortByRecency(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func explicitRelated(posts []domain.Post, current domain.Post, n int) []domain.Post {
	index := make(map[string]int, len(posts)*2)
	for i, p := range posts {
		if p.ID != "" {
			index[p.ID] = i
		}
		index[p.Slug] = i
	}

	out := []domain.Post{}
	seen := map[string]bool{current.Slug: true}
	for _, ref := range current.RelatedPostIDs {
		i, ok := index[ref]
		if !ok || seen[posts[i].Slug] {
			continue
		}
		seen[posts[i].Slug] = true
		out = append(out, posts[i])
		if len(out) == n {
			break
		}
	}
	return out
}

// SortByRecency orders posts by ModifiedAt descending, then slug ascending.
func SortByRecency(posts []domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.ModifiedAt.Equal(b.ModifiedAt) {
			return a.ModifiedAt.After(b.ModifiedAt)
		}
		return a.Slug < b.Slug
	})
}

// Visible keeps posts that may be shown publicly at now.
func Visible(posts []domain.Post, now time.Time) []domain.Post {
	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if p.VisibleAt(now) {
			out = append(out, p)
		}
	}
	return out
}

func CategoryBySlug(categories []domain.Category, slug string) (domain.Category, bool) {
	for _, c := range categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return domain.Category{}, false
}
