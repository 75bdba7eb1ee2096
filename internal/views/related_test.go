package views

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"sitecontent/internal/domain"
	"sitecontent/testdata/utils"
)

var day = func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func post(slug, category string, modified time.Time) domain.Post {
	p := domain.Post{ID: "id-" + slug, Slug: slug, Title: slug, Status: domain.StatusPublished, ModifiedAt: modified}
	if category != "" {
		p.CategoryID = utils.Ptr(category)
	}
	return p
}

func slugs(posts []domain.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestRelatedPosts(t *testing.T) {
	a := post("a", "blog", day(3))
	b := post("b", "blog", day(2))
	c := post("c", "other", day(1))
	d := post("d", "blog", day(5))
	e := post("e", "blog", day(5))
	lonely := post("lonely", "solo", day(1))
	uncategorized := post("uncategorized", "", day(1))

	withOverride := post("override", "blog", day(4))
	withOverride.RelatedPostIDs = []string{"c", "id-b", "missing", "override", "c"}

	deadOverride := post("dead", "blog", day(4))
	deadOverride.RelatedPostIDs = []string{"missing"}

	tests := []struct {
		name    string
		posts   []domain.Post
		current domain.Post
		n       int
		want    []string
	}{
		{"excludes self and other categories", []domain.Post{a, b, c}, a, 3, []string{"b"}},
		{"recency then slug", []domain.Post{a, b, e, d}, b, 3, []string{"d", "e", "a"}},
		{"capped at n", []domain.Post{a, b, d, e}, a, 2, []string{"d", "e"}},
		{"no siblings", []domain.Post{a, b, lonely}, lonely, 3, []string{}},
		{"no category", []domain.Post{a, uncategorized}, uncategorized, 3, []string{}},
		{"zero limit", []domain.Post{a, b}, a, 0, []string{}},
		{"explicit override keeps order", []domain.Post{a, b, c, withOverride}, withOverride, 3, []string{"c", "b"}},
		{"unresolvable override falls back", []domain.Post{a, b, deadOverride}, deadOverride, 3, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelatedPosts(tt.posts, tt.current, tt.n)
			assert.NotNil(t, got)
			if diff := cmp.Diff(tt.want, slugs(got)); diff != "" {
				t.Errorf("RelatedPosts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRelatedPosts_Deterministic(t *testing.T) {
	posts := []domain.Post{
		post("x", "blog", day(1)),
		post("m", "blog", day(2)),
		post("k", "blog", day(2)),
		post("z", "blog", day(2)),
	}
	current := post("self", "blog", day(9))

	first := RelatedPosts(posts, current, 3)
	second := RelatedPosts(posts, current, 3)

	assert.Equal(t, []string{"k", "m", "z"}, slugs(first))
	assert.Equal(t, slugs(first), slugs(second))
	assert.Equal(t, []string{"x", "m", "k", "z"}, slugs(posts), "input must not be reordered")
}

func TestVisible(t *testing.T) {
	now := day(10)
	draft := post("draft", "", day(1))
	draft.Status = domain.StatusDraft
	due := post("due", "", day(1))
	due.Status = domain.StatusScheduled
	due.ScheduledFor = utils.Ptr(day(9))
	future := post("future", "", day(1))
	future.Status = domain.StatusScheduled
	future.ScheduledFor = utils.Ptr(day(11))
	live := post("live", "", day(1))

	got := Visible([]domain.Post{draft, due, future, live}, now)

	assert.Equal(t, []string{"due", "live"}, slugs(got))
}

func TestCategoryBySlug(t *testing.T) {
	cats := []domain.Category{{Slug: "blog", Name: "Blog"}, {Slug: "geo", Name: "GEO"}}

	got, ok := CategoryBySlug(cats, "geo")
	assert.True(t, ok)
	assert.Equal(t, "GEO", got.Name)

	_, ok = CategoryBySlug(cats, "missing")
	assert.False(t, ok)
}
