package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecontent/internal/domain"
)

func validPost() map[string]any {
	return map[string]any{
		"title":      "Local SEO for Hotels",
		"slug":       "local-seo-for-hotels",
		"authorName": "Dana Reyes",
		"status":     "published",
		"modifiedAt": "2024-03-03T10:00:00Z",
	}
}

func TestDecodePost_RoundTripsRequiredFields(t *testing.T) {
	post, err := DecodePost(validPost())
	require.NoError(t, err)

	assert.Equal(t, "Local SEO for Hotels", post.Title)
	assert.Equal(t, "local-seo-for-hotels", post.Slug)
	assert.Equal(t, "Dana Reyes", post.AuthorName)
	assert.Equal(t, domain.StatusPublished, post.Status)
	assert.Equal(t, time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC), post.ModifiedAt)
	assert.Nil(t, post.SEO)
	assert.Nil(t, post.CategoryID)
}

func TestDecodePost_MissingRequiredFieldIsNamed(t *testing.T) {
	for _, field := range []string{"title", "slug", "authorName", "status", "modifiedAt"} {
		t.Run(field, func(t *testing.T) {
			raw := validPost()
			delete(raw, field)

			_, err := DecodePost(raw)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Has(field), "expected %s in %v", field, verr.Fields)
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestDecodePost_ReportsEveryViolation(t *testing.T) {
	raw := map[string]any{
		"slug":        "Not A Slug",
		"status":      "archived",
		"modifiedAt":  "yesterday",
		"publishedAt": 12.5,
		"excerpt":     42,
		"seo": map[string]any{
			"ogImage": "images/og.png",
			"noindex": "yes",
		},
	}

	_, err := DecodePost(raw)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "post", verr.Kind)
	for _, field := range []string{"title", "slug", "authorName", "status", "modifiedAt", "excerpt", "seo.ogImage", "seo.noindex"} {
		assert.True(t, verr.Has(field), "missing violation for %s", field)
	}
	assert.Contains(t, err.Error(), "status: must be one of draft, published, scheduled")
}

func TestDecodePost_TypeErrorReportedOnce(t *testing.T) {
	raw := validPost()
	raw["title"] = 7

	_, err := DecodePost(raw)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, FieldError{Field: "title", Reason: "must be a string"}, verr.Fields[0])
}

func TestDecodePost_PublishedWithoutPublishedAtIsAccepted(t *testing.T) {
	raw := validPost()
	raw["status"] = "published"

	post, err := DecodePost(raw)

	require.NoError(t, err)
	assert.Nil(t, post.PublishedAt)
}

func TestDecodePost_OptionalFields(t *testing.T) {
	raw := validPost()
	raw["category"] = "local-seo"
	raw["excerpt"] = "Rank in the map pack."
	raw["publishedAt"] = "2024-03-01"
	raw["related"] = []any{"gbp-checklist", "review-velocity"}
	raw["seo"] = map[any]any{
		"metaTitle": "Hotel SEO",
		"ogImage":   "/og/hotel.png",
		"noindex":   true,
	}

	post, err := DecodePost(raw)
	require.NoError(t, err)

	require.NotNil(t, post.CategoryID)
	assert.Equal(t, "local-seo", *post.CategoryID)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *post.PublishedAt)
	assert.Equal(t, []string{"gbp-checklist", "review-velocity"}, post.RelatedPostIDs)
	require.NotNil(t, post.SEO)
	assert.Equal(t, "Hotel SEO", *post.SEO.MetaTitle)
	assert.Equal(t, "/og/hotel.png", *post.SEO.OGImage)
	assert.True(t, post.SEO.NoIndex)
}

func TestDecodePost_DatabaseDocumentKeys(t *testing.T) {
	modified := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	raw := map[string]any{
		"_id":         "j57a0c1",
		"title":       "GEO Basics",
		"slug":        "geo-basics",
		"author_name": "Sam Okafor",
		"status":      "scheduled",
		"modified_at": float64(modified.UnixMilli()),
		"category_id": "k3c9",
	}

	post, err := DecodePost(raw)
	require.NoError(t, err)

	assert.Equal(t, "j57a0c1", post.ID)
	assert.Equal(t, "Sam Okafor", post.AuthorName)
	assert.Equal(t, domain.StatusScheduled, post.Status)
	assert.True(t, modified.Equal(post.ModifiedAt))
	assert.Equal(t, "k3c9", *post.CategoryID)
}

func TestDecodeCategory(t *testing.T) {
	cat, err := DecodeCategory(map[string]any{"name": "Local SEO", "slug": "local-seo"})
	require.NoError(t, err)
	assert.Equal(t, domain.Category{Name: "Local SEO", Slug: "local-seo"}, cat)

	_, err = DecodeCategory(map[string]any{"slug": "bad slug"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("name"))
	assert.True(t, verr.Has("slug"))
}
