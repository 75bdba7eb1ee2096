package seo

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecontent/internal/domain"
	"sitecontent/testdata/utils"
)

var testSite = Site{
	Name:    "Northwind Digital",
	BaseURL: "https://example.com/",
	Logo:    "/logo.png",
	Twitter: "@northwind",
}

func samplePost() (domain.Post, *domain.Category) {
	return domain.Post{
		ID:            "p1",
		Title:         "Map Pack Guide",
		Slug:          "map-pack",
		Excerpt:       utils.Ptr("How to rank"),
		FeaturedImage: utils.Ptr("/img/map.png"),
		AuthorName:    "Dana Reyes",
		Status:        domain.StatusPublished,
		PublishedAt:   utils.Ptr(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		ModifiedAt:    time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC),
		SEO:           &domain.SEO{MetaTitle: utils.Ptr("Rank in the Map Pack")},
	}, &domain.Category{ID: "local-seo", Name: "Local SEO", Slug: "local-seo"}
}

func TestMetaTags_Post(t *testing.T) {
	post, cat := samplePost()

	got := MetaTags(DescribePost(testSite, "/blog/map-pack", post, cat))

	want := []Tag{
		{"title", "Rank in the Map Pack | Northwind Digital"},
		{"description", "How to rank"},
		{"canonical", "https://example.com/blog/map-pack"},
		{"og:type", "article"},
		{"og:title", "Rank in the Map Pack"},
		{"og:description", "How to rank"},
		{"og:url", "https://example.com/blog/map-pack"},
		{"og:image", "https://example.com/img/map.png"},
		{"og:site_name", "Northwind Digital"},
		{"twitter:card", "summary_large_image"},
		{"twitter:site", "@northwind"},
		{"twitter:title", "Rank in the Map Pack"},
		{"twitter:description", "How to rank"},
		{"twitter:image", "https://example.com/img/map.png"},
		{"article:published_time", "2024-03-01T10:00:00Z"},
		{"article:modified_time", "2024-03-03T09:00:00Z"},
		{"article:author", "Dana Reyes"},
		{"article:section", "Local SEO"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MetaTags() mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaTags_EmptyDescriptorOmitsEverythingOptional(t *testing.T) {
	got := MetaTags(PageDescriptor{})

	want := []Tag{
		{"og:type", "website"},
		{"twitter:card", "summary"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MetaTags() mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaTags_NoIndex(t *testing.T) {
	post, _ := samplePost()
	post.SEO.NoIndex = true

	tags := MetaTags(DescribePost(testSite, "/blog/map-pack", post, nil))

	assert.Contains(t, tags, Tag{"robots", "noindex, nofollow"})
	for _, tag := range tags {
		assert.NotEqual(t, "article:section", tag.Key)
	}
}

func TestRenderMeta(t *testing.T) {
	out := RenderMeta([]Tag{
		{"title", `Fish & "Chips"`},
		{"canonical", "https://example.com/a"},
		{"og:title", "A"},
		{"description", "B"},
	})

	want := "<title>Fish &amp; &#34;Chips&#34;</title>\n" +
		`<link rel="canonical" href="https://example.com/a">` + "\n" +
		`<meta property="og:title" content="A">` + "\n" +
		`<meta name="description" content="B">` + "\n"
	assert.Equal(t, want, string(out))
}

func TestArticle(t *testing.T) {
	post, cat := samplePost()

	got := Article(testSite, "/blog/map-pack", post, cat)

	want := StructuredData{
		Type: "Article",
		Data: map[string]any{
			"headline":         "Rank in the Map Pack",
			"description":      "How to rank",
			"image":            "https://example.com/img/map.png",
			"mainEntityOfPage": "https://example.com/blog/map-pack",
			"datePublished":    "2024-03-01T10:00:00Z",
			"dateModified":     "2024-03-03T09:00:00Z",
			"author":           map[string]any{"@type": "Person", "name": "Dana Reyes"},
			"articleSection":   "Local SEO",
			"publisher": map[string]any{
				"@type": "Organization",
				"name":  "Northwind Digital",
				"url":   "https://example.com/",
				"logo":  "https://example.com/logo.png",
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Article() mismatch (-want +got):\n%s", diff)
	}
}

func TestArticle_MinimalPost(t *testing.T) {
	got := Article(Site{}, "", domain.Post{Title: "Bare"}, nil)

	want := StructuredData{Type: "Article", Data: map[string]any{"headline": "Bare"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Article() mismatch (-want +got):\n%s", diff)
	}
}

func TestBreadcrumb(t *testing.T) {
	got := Breadcrumb(testSite, []BreadcrumbItem{
		{Name: "Home", Path: "/"},
		{Name: "Blog", Path: "/blog"},
		{Name: "Map Pack Guide"},
	})

	want := StructuredData{
		Type: "BreadcrumbList",
		Data: map[string]any{"itemListElement": []any{
			map[string]any{"@type": "ListItem", "position": 1, "name": "Home", "item": "https://example.com/"},
			map[string]any{"@type": "ListItem", "position": 2, "name": "Blog", "item": "https://example.com/blog"},
			map[string]any{"@type": "ListItem", "position": 3, "name": "Map Pack Guide"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Breadcrumb() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderJSONLD_EmptyIsNoOp(t *testing.T) {
	out, err := RenderJSONLD(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = RenderJSONLD([]StructuredData{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestRenderJSONLD_KeepsInputOrder(t *testing.T) {
	post, cat := samplePost()

	out, err := RenderJSONLD([]StructuredData{
		Breadcrumb(testSite, []BreadcrumbItem{{Name: "Home", Path: "/"}}),
		Article(testSite, "/blog/map-pack", post, cat),
		Organization(testSite),
	})
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.True(t, strings.HasPrefix(string(out[0]), `<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList"`))
	assert.Contains(t, string(out[1]), `"@type":"Article"`)
	assert.Contains(t, string(out[2]), `"@type":"Organization"`)
}

func TestRenderJSONLD_EscapesScriptClose(t *testing.T) {
	out, err := RenderJSONLD([]StructuredData{{Type: "Thing", Data: map[string]any{"name": "</script><b>"}}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 1, strings.Count(string(out[0]), "</script>"))
}

func TestRenderJSONLD_UnencodableData(t *testing.T) {
	_, err := RenderJSONLD([]StructuredData{{Type: "Thing", Data: map[string]any{"bad": make(chan int)}}})
	assert.Error(t, err)
}
