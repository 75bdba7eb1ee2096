package domain

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled:
		return true
	}
	return false
}

// Post is the canonical blog post shared by every post source. ID is opaque
// to callers; Slug is the only key exposed in URLs.
type Post struct {
	ID             string     `json:"id,omitempty"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	Excerpt        *string    `json:"excerpt,omitempty"`
	FeaturedImage  *string    `json:"featuredImage,omitempty"`
	CategoryID     *string    `json:"categoryId,omitempty"`
	AuthorID       *string    `json:"authorId,omitempty"`
	AuthorName     string     `json:"authorName"`
	Status         Status     `json:"status"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	ScheduledFor   *time.Time `json:"scheduledFor,omitempty"`
	ModifiedAt     time.Time  `json:"modifiedAt"`
	SEO            *SEO       `json:"seo,omitempty"`
	RelatedPostIDs []string   `json:"relatedPostIds,omitempty"`
}

type SEO struct {
	MetaTitle       *string `json:"metaTitle,omitempty"`
	MetaDescription *string `json:"metaDescription,omitempty"`
	OGImage         *string `json:"ogImage,omitempty"`
	NoIndex         bool    `json:"noindex,omitempty"`
}

// InCategory reports whether the post references the given category id.
func (p Post) InCategory(categoryID string) bool {
	return p.CategoryID != nil && *p.CategoryID == categoryID
}

// VisibleAt reports whether the post may be shown publicly at t. Scheduled
// posts become visible once their scheduled time has passed.
func (p Post) VisibleAt(t time.Time) bool {
	switch p.Status {
	case StatusPublished:
		return true
	case StatusScheduled:
		return p.ScheduledFor != nil && !p.ScheduledFor.After(t)
	}
	return false
}

type Category struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}
