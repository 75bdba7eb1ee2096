package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"sitecontent/internal/domain"
)

const schemaContext = "https://schema.org"

// StructuredData is one JSON-LD object. Type becomes @type.
type StructuredData struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func (sd StructuredData) document() map[string]any {
	doc := make(map[string]any, len(sd.Data)+2)
	for k, v := range sd.Data {
		doc[k] = v
	}
	doc["@context"] = schemaContext
	doc["@type"] = sd.Type
	return doc
}

// Article describes a post as a schema.org Article.
func Article(site Site, path string, post domain.Post, category *domain.Category) StructuredData {
	d := DescribePost(site, path, post, category)

	data := map[string]any{
		"headline": d.Title,
	}
	if d.Description != "" {
		data["description"] = d.Description
	}
	if img := site.URL(d.Image); img != "" {
		data["image"] = img
	}
	if url := site.URL(path); url != "" {
		data["mainEntityOfPage"] = url
	}
	if post.PublishedAt != nil {
		data["datePublished"] = post.PublishedAt.UTC().Format(time.RFC3339)
	}
	if !post.ModifiedAt.IsZero() {
		data["dateModified"] = post.ModifiedAt.UTC().Format(time.RFC3339)
	}
	if post.AuthorName != "" {
		data["author"] = map[string]any{"@type": "Person", "name": post.AuthorName}
	}
	if category != nil {
		data["articleSection"] = category.Name
	}
	if site.Name != "" {
		org := Organization(site)
		org.Data["@type"] = org.Type
		data["publisher"] = org.Data
	}

	return StructuredData{Type: "Article", Data: data}
}

type BreadcrumbItem struct {
	Name string
	Path string
}

// Breadcrumb builds a BreadcrumbList with 1-based positions in item order.
func Breadcrumb(site Site, items []BreadcrumbItem) StructuredData {
	elements := make([]any, 0, len(items))
	for i, item := range items {
		el := map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     item.Name,
		}
		if url := site.URL(item.Path); url != "" {
			el["item"] = url
		}
		elements = append(elements, el)
	}
	return StructuredData{Type: "BreadcrumbList", Data: map[string]any{"itemListElement": elements}}
}

func Organization(site Site) StructuredData {
	data := map[string]any{}
	if site.Name != "" {
		data["name"] = site.Name
	}
	if site.BaseURL != "" {
		data["url"] = site.BaseURL
	}
	if logo := site.URL(site.Logo); logo != "" {
		data["logo"] = logo
	}
	if len(site.SameAs) > 0 {
		data["sameAs"] = site.SameAs
	}
	return StructuredData{Type: "Organization", Data: data}
}

// RenderJSONLD renders one script element per item, in input order. No
// items produce no output.
func RenderJSONLD(items []StructuredData) ([]template.HTML, error) {
	if len(items) == 0 {
		return nil, nil
	}

	out := make([]template.HTML, 0, len(items))
	for i, item := range items {
		// json.Marshal escapes <, > and & so the payload cannot close the script.
		b, err := json.Marshal(item.document())
		if err != nil {
			return nil, fmt.Errorf("marshal structured data %d (%s): %w", i, item.Type, err)
		}
		out = append(out, template.HTML(`<script type="application/ld+json">`+string(b)+`</script>`))
	}
	return out, nil
}
