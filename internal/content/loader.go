package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"sitecontent/internal/domain"
	"sitecontent/internal/schema"
)

const CategoriesFile = "categories.yaml"

var DefaultPatterns = []string{"*.mdx", "*.md"}

// Loader reads a content directory into a Collection.
type Loader struct {
	dir      string
	patterns []string
	logger   *slog.Logger
}

func NewLoader(dir string, patterns []string, logger *slog.Logger) *Loader {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Loader{
		dir:      dir,
		patterns: patterns,
		logger:   logger.With("component", "content_loader", "dir", dir),
	}
}

// Load parses every matching file under the directory. Any invalid file
// fails the whole load; the returned *LoadError lists every problem found.
func (l *Loader) Load(ctx context.Context) (*Collection, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return nil, fmt.Errorf("stat content dir: %w", err)
	}

	categories, problems, err := l.loadCategories()
	if err != nil {
		return nil, err
	}

	var (
		posts []domain.Post
		files int
	)
	seen := make(map[string]string)

	walkErr := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !l.matches(d.Name()) {
			return nil
		}
		files++

		post, err := l.parseFile(path)
		if err != nil {
			problems = append(problems, FileError{Path: path, Err: err})
			return nil
		}

		if prev, dup := seen[post.Slug]; dup {
			problems = append(problems, FileError{
				Path: path,
				Err:  fmt.Errorf("duplicate slug %q, first defined in %s", post.Slug, prev),
			})
			return nil
		}
		seen[post.Slug] = path
		posts = append(posts, post)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk content dir: %w", walkErr)
	}

	if len(problems) > 0 {
		return nil, &LoadError{Dir: l.dir, Files: problems}
	}

	categories = deriveMissingCategories(categories, posts)
	c := newCollection(posts, categories, time.Now())

	l.logger.Info("content loaded",
		"files", files,
		"posts", len(posts),
		"categories", len(categories),
	)

	return c, nil
}

func (l *Loader) matches(name string) bool {
	for _, p := range l.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func (l *Loader) parseFile(path string) (domain.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Post{}, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]any
	body, err := frontmatter.MustParse(bytes.NewReader(data), &raw)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return domain.Post{}, errors.New("missing frontmatter")
		}
		return domain.Post{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	post, err := schema.DecodePost(raw)
	if err != nil {
		return domain.Post{}, err
	}

	post.Content = strings.TrimSpace(string(body))
	if post.ID == "" {
		post.ID = post.Slug
	}
	return post, nil
}

// loadCategories reads the optional categories file. Category ids equal
// their slugs so static posts can reference them by slug. Invalid entries
// are returned as problems so they are reported together with invalid posts.
func (l *Loader) loadCategories() ([]domain.Category, []FileError, error) {
	path := filepath.Join(l.dir, CategoriesFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read categories: %w", err)
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, []FileError{{Path: path, Err: fmt.Errorf("parse categories: %w", err)}}, nil
	}

	var (
		categories []domain.Category
		problems   []FileError
	)
	seen := make(map[string]bool)

	for i, r := range raw {
		cat, err := schema.DecodeCategory(r)
		if err != nil {
			problems = append(problems, FileError{Path: fmt.Sprintf("%s[%d]", path, i), Err: err})
			continue
		}
		if seen[cat.Slug] {
			problems = append(problems, FileError{Path: fmt.Sprintf("%s[%d]", path, i), Err: fmt.Errorf("duplicate slug %q", cat.Slug)})
			continue
		}
		seen[cat.Slug] = true
		cat.ID = cat.Slug
		categories = append(categories, cat)
	}

	return categories, problems, nil
}

// deriveMissingCategories adds a category for every slug referenced by a
// post but absent from the categories file.
func deriveMissingCategories(categories []domain.Category, posts []domain.Post) []domain.Category {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Slug] = true
	}

	caser := cases.Title(language.English)
	for _, p := range posts {
		if p.CategoryID == nil || known[*p.CategoryID] {
			continue
		}
		slug := *p.CategoryID
		known[slug] = true
		categories = append(categories, domain.Category{
			ID:   slug,
			Slug: slug,
			Name: caser.String(strings.ReplaceAll(slug, "-", " ")),
		})
	}
	return categories
}
