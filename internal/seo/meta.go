// Package seo maps resolved pages to meta tags and JSON-LD structured data.
// Every input field is optional; a missing field omits its tag.
package seo

import (
	"html/template"
	"strings"
	"time"

	"sitecontent/internal/domain"
)

// Site describes the publishing site.
type Site struct {
	Name    string
	BaseURL string
	Logo    string
	Twitter string
	SameAs  []string
}

// URL resolves path against the site base URL. Absolute URLs pass through.
func (s Site) URL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if s.BaseURL == "" {
		return path
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// PageDescriptor is the page-level input to MetaTags.
type PageDescriptor struct {
	Site        Site
	Path        string
	Title       string
	Description string
	Image       string
	Type        string
	Author      string
	Section     string
	NoIndex     bool
	PublishedAt *time.Time
	ModifiedAt  *time.Time
}

// DescribePost builds the descriptor for a post page. SEO overrides win over
// the post's own title, excerpt and featured image.
func DescribePost(site Site, path string, post domain.Post, category *domain.Category) PageDescriptor {
	d := PageDescriptor{
		Site:        site,
		Path:        path,
		Title:       post.Title,
		Type:        "article",
		Author:      post.AuthorName,
		PublishedAt: post.PublishedAt,
	}
	if !post.ModifiedAt.IsZero() {
		m := post.ModifiedAt
		d.ModifiedAt = &m
	}
	if post.Excerpt != nil {
		d.Description = *post.Excerpt
	}
	if post.FeaturedImage != nil {
		d.Image = *post.FeaturedImage
	}
	if category != nil {
		d.Section = category.Name
	}
	if seo := post.SEO; seo != nil {
		if seo.MetaTitle != nil && *seo.MetaTitle != "" {
			d.Title = *seo.MetaTitle
		}
		if seo.MetaDescription != nil && *seo.MetaDescription != "" {
			d.Description = *seo.MetaDescription
		}
		if seo.OGImage != nil && *seo.OGImage != "" {
			d.Image = *seo.OGImage
		}
		d.NoIndex = seo.NoIndex
	}
	return d
}

// Tag is one meta tag. Keys with an og: or article: prefix are properties.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (t Tag) Attr() string {
	if strings.HasPrefix(t.Key, "og:") || strings.HasPrefix(t.Key, "article:") {
		return "property"
	}
	return "name"
}

// MetaTags returns the page's meta tags in a fixed order.
func MetaTags(d PageDescriptor) []Tag {
	var tags []Tag
	add := func(key, value string) {
		if value != "" {
			tags = append(tags, Tag{Key: key, Value: value})
		}
	}

	title := d.Title
	if title != "" && d.Site.Name != "" && title != d.Site.Name {
		title += " | " + d.Site.Name
	}
	canonical := d.Site.URL(d.Path)
	image := d.Site.URL(d.Image)

	add("title", title)
	add("description", d.Description)
	add("canonical", canonical)
	if d.NoIndex {
		add("robots", "noindex, nofollow")
	}

	ogType := d.Type
	if ogType == "" {
		ogType = "website"
	}
	add("og:type", ogType)
	add("og:title", d.Title)
	add("og:description", d.Description)
	add("og:url", canonical)
	add("og:image", image)
	add("og:site_name", d.Site.Name)

	card := "summary"
	if image != "" {
		card = "summary_large_image"
	}
	add("twitter:card", card)
	add("twitter:site", d.Site.Twitter)
	add("twitter:title", d.Title)
	add("twitter:description", d.Description)
	add("twitter:image", image)

	if d.PublishedAt != nil {
		add("article:published_time", d.PublishedAt.UTC().Format(time.RFC3339))
	}
	if d.ModifiedAt != nil {
		add("article:modified_time", d.ModifiedAt.UTC().Format(time.RFC3339))
	}
	if ogType == "article" {
		add("article:author", d.Author)
		add("article:section", d.Section)
	}

	return tags
}

// RenderMeta renders tags as HTML head elements.
func RenderMeta(tags []Tag) template.HTML {
	var b strings.Builder
	for _, t := range tags {
		v := template.HTMLEscapeString(t.Value)
		switch t.Key {
		case "title":
			b.WriteString("<title>" + v + "</title>\n")
		case "canonical":
			b.WriteString(`<link rel="canonical" href="` + v + `">` + "\n")
		default:
			b.WriteString(`<meta ` + t.Attr() + `="` + template.HTMLEscapeString(t.Key) + `" content="` + v + `">` + "\n")
		}
	}
	return template.HTML(b.String())
}
