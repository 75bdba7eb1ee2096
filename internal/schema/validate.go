package schema

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"sitecontent/internal/domain"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ref", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
	})
	return v
}

type postRecord struct {
	ID             string     `json:"id"`
	Title          string     `json:"title" validate:"required"`
	Slug           string     `json:"slug" validate:"required,slug"`
	Content        string     `json:"content"`
	Excerpt        *string    `json:"excerpt" validate:"omitempty,min=1"`
	FeaturedImage  *string    `json:"featuredImage" validate:"omitempty,min=1"`
	CategoryID     *string    `json:"categoryId" validate:"omitempty,min=1"`
	AuthorID       *string    `json:"authorId" validate:"omitempty,min=1"`
	AuthorName     string     `json:"authorName" validate:"required"`
	Status         string     `json:"status" validate:"required,oneof=draft published scheduled"`
	PublishedAt    *time.Time `json:"publishedAt"`
	ScheduledFor   *time.Time `json:"scheduledFor"`
	ModifiedAt     *time.Time `json:"modifiedAt" validate:"required"`
	SEO            *seoRecord `json:"seo" validate:"omitempty"`
	RelatedPostIDs []string   `json:"relatedPostIds" validate:"omitempty,dive,required"`
}

type seoRecord struct {
	MetaTitle       *string `json:"metaTitle" validate:"omitempty,min=1"`
	MetaDescription *string `json:"metaDescription" validate:"omitempty,min=1"`
	OGImage         *string `json:"ogImage" validate:"omitempty,ref"`
	NoIndex         bool    `json:"noindex"`
}

type categoryRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug" validate:"required,slug"`
	Description *string `json:"description"`
}

// DecodePost validates a raw frontmatter or database document and returns
// the normalized post. Content is taken from the record when present; the
// static loader attaches the file body afterwards. Both camelCase and
// snake_case keys are accepted.
//
// A published post without publishedAt is accepted.
func DecodePost(raw map[string]any) (domain.Post, error) {
	d := newDecoder(raw, "")

	rec := postRecord{
		ID:             d.str("id", "_id"),
		Title:          d.str("title"),
		Slug:           d.str("slug"),
		Content:        d.str("content"),
		Excerpt:        d.optStr("excerpt"),
		FeaturedImage:  d.optStr("featuredImage", "featured_image"),
		CategoryID:     d.optStr("categoryId", "category_id", "category"),
		AuthorID:       d.optStr("authorId", "author_id"),
		AuthorName:     d.str("authorName", "author_name", "author"),
		Status:         d.str("status"),
		PublishedAt:    d.optTime("publishedAt", "published_at"),
		ScheduledFor:   d.optTime("scheduledFor", "scheduled_for"),
		ModifiedAt:     d.optTime("modifiedAt", "modified_at"),
		RelatedPostIDs: d.strList("relatedPostIds", "related_post_ids", "related"),
	}

	if seoRaw, ok := d.object("seo"); ok {
		sd := newDecoder(seoRaw, "seo.")
		rec.SEO = &seoRecord{
			MetaTitle:       sd.optStr("metaTitle", "meta_title"),
			MetaDescription: sd.optStr("metaDescription", "meta_description"),
			OGImage:         sd.optStr("ogImage", "og_image"),
			NoIndex:         sd.boolean("noindex", "noIndex", "no_index"),
		}
		d.errs = append(d.errs, sd.errs...)
	}

	if err := check("post", rec, d.errs); err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{
		ID:             rec.ID,
		Title:          rec.Title,
		Slug:           rec.Slug,
		Content:        rec.Content,
		Excerpt:        rec.Excerpt,
		FeaturedImage:  rec.FeaturedImage,
		CategoryID:     rec.CategoryID,
		AuthorID:       rec.AuthorID,
		AuthorName:     rec.AuthorName,
		Status:         domain.Status(rec.Status),
		PublishedAt:    rec.PublishedAt,
		ScheduledFor:   rec.ScheduledFor,
		ModifiedAt:     *rec.ModifiedAt,
		RelatedPostIDs: rec.RelatedPostIDs,
	}
	if rec.SEO != nil {
		post.SEO = &domain.SEO{
			MetaTitle:       rec.SEO.MetaTitle,
			MetaDescription: rec.SEO.MetaDescription,
			OGImage:         rec.SEO.OGImage,
			NoIndex:         rec.SEO.NoIndex,
		}
	}

	return post, nil
}

// DecodeCategory validates a raw category record.
func DecodeCategory(raw map[string]any) (domain.Category, error) {
	d := newDecoder(raw, "")

	rec := categoryRecord{
		ID:          d.str("id", "_id"),
		Name:        d.str("name"),
		Slug:        d.str("slug"),
		Description: d.optStr("description"),
	}

	if err := check("category", rec, d.errs); err != nil {
		return domain.Category{}, err
	}

	return domain.Category{
		ID:          rec.ID,
		Name:        rec.Name,
		Slug:        rec.Slug,
		Description: rec.Description,
	}, nil
}

// check merges decode failures with struct rule violations. A field that
// already failed to decode is not reported a second time.
func check(kind string, rec any, decodeErrs []FieldError) error {
	fields := append([]FieldError(nil), decodeErrs...)
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f.Field] = true
	}

	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			name := fieldName(fe)
			if seen[name] {
				continue
			}
			seen[name] = true
			fields = append(fields, FieldError{Field: name, Reason: reason(fe)})
		}
	}

	if len(fields) == 0 {
		return nil
	}

	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &ValidationError{Kind: kind, Fields: fields}
}

// fieldName drops the struct name from the validator namespace,
// e.g. "postRecord.seo.ogImage" becomes "seo.ogImage".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "slug":
		return "must be a lowercase URL-safe slug"
	case "ref":
		return "must be an absolute path or http(s) URL"
	case "min":
		return "must not be empty"
	}
	return "failed " + fe.Tag() + " rule"
}
