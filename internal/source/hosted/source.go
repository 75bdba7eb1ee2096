package hosted

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sitecontent/internal/domain"
	"sitecontent/internal/schema"
)

const SourceName = "hosted"

// Config holds hosted document store client configuration.
type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source reads posts from a hosted document database over its HTTP query
// API. Transport failures and 5xx responses are retried with backoff.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a new hosted source.
func New(cfg Config, logger *slog.Logger) *Source {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		maxAttempts:    attempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceName),
	}
}

func (s *Source) Name() string {
	return SourceName
}

// GetBySlug fetches a post and its category. A 404 is an Absent lookup.
func (s *Source) GetBySlug(ctx context.Context, slug string) (domain.Lookup, error) {
	var resp postResponse
	err := s.get(ctx, "/posts/"+url.PathEscape(slug), nil, &resp)
	if isNotFound(err) {
		return domain.Absent(), nil
	}
	if err != nil {
		return domain.Lookup{}, fmt.Errorf("get post %q: %w", slug, err)
	}
	if resp.Post == nil {
		return domain.Absent(), nil
	}

	post, err := schema.DecodePost(resp.Post)
	if err != nil {
		return domain.Lookup{}, fmt.Errorf("decode post %q: %w", slug, err)
	}

	if post.CategoryID == nil {
		return domain.Found(post, nil), nil
	}
	if resp.Category == nil {
		return domain.Absent(), nil
	}
	cat, err := schema.DecodeCategory(resp.Category)
	if err != nil {
		return domain.Lookup{}, fmt.Errorf("decode category for %q: %w", slug, err)
	}
	return domain.Found(post, &cat), nil
}

func (s *Source) ListByCategory(ctx context.Context, categoryID string) ([]domain.Post, error) {
	return s.listPosts(ctx, url.Values{"category": {categoryID}})
}

func (s *Source) ListByRefs(ctx context.Context, refs []string) ([]domain.Post, error) {
	if len(refs) == 0 {
		return []domain.Post{}, nil
	}
	return s.listPosts(ctx, url.Values{"refs": {strings.Join(refs, ",")}})
}

func (s *Source) ListPublished(ctx context.Context, limit int) ([]domain.Post, error) {
	q := url.Values{"status": {string(domain.StatusPublished)}, "order": {"published"}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return s.listPosts(ctx, q)
}

func (s *Source) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	return s.listPosts(ctx, url.Values{"author": {authorID}})
}

func (s *Source) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	q := url.Values{"order": {"modified"}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return s.listPosts(ctx, q)
}

func (s *Source) GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, bool, error) {
	var resp categoryResponse
	err := s.get(ctx, "/categories/"+url.PathEscape(slug), nil, &resp)
	if isNotFound(err) {
		return domain.Category{}, false, nil
	}
	if err != nil {
		return domain.Category{}, false, fmt.Errorf("get category %q: %w", slug, err)
	}
	if resp.Category == nil {
		return domain.Category{}, false, nil
	}

	cat, err := schema.DecodeCategory(resp.Category)
	if err != nil {
		return domain.Category{}, false, fmt.Errorf("decode category %q: %w", slug, err)
	}
	return cat, true, nil
}

func (s *Source) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp categoriesResponse
	if err := s.get(ctx, "/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(resp.Categories))
	for _, raw := range resp.Categories {
		cat, err := schema.DecodeCategory(raw)
		if err != nil {
			s.logger.Warn("skipping invalid category", "error", err)
			continue
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

// listPosts decodes every returned document; invalid ones are logged and
// skipped so one bad document does not hide the rest of a listing.
func (s *Source) listPosts(ctx context.Context, query url.Values) ([]domain.Post, error) {
	var resp postsResponse
	if err := s.get(ctx, "/posts", query, &resp); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]domain.Post, 0, len(resp.Posts))
	for _, raw := range resp.Posts {
		post, err := schema.DecodePost(raw)
		if err != nil {
			s.logger.Warn("skipping invalid post document", "error", err)
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Source) get(ctx context.Context, path string, query url.Values, out any) error {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.doRequest(ctx, u, out)
		if err == nil || !retryable(err) {
			return err
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "sitecontent/1.0")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if s.maxBackoff > 0 && backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

func isNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// retryable reports whether err may succeed on a later attempt: transport
// errors and server-side failures are, client errors are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	return true
}
