package httpapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sitecontent/internal/config"
	"sitecontent/internal/domain"
	"sitecontent/internal/service"
	"sitecontent/internal/views"
)

//go:embed llms.txt
var llmsTxt []byte

const maxListLimit = 100

// Pages is the per-route page resolver.
type Pages interface {
	Source() string
	ResolvePage(ctx context.Context, slug string) (service.Page, bool, error)
	CategoryPage(ctx context.Context, slug string) (service.CategoryPage, bool, error)
	ListPublished(ctx context.Context, limit int) ([]domain.Post, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Route serves one source under one path prefix.
type Route struct {
	Prefix string
	Pages  Pages
}

type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	cfg       Config
	mux       *http.ServeMux
	customers []domain.Customer
	logger    *slog.Logger
}

func NewServer(cfg Config, routes []Route, customers []domain.Customer, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		mux:       http.NewServeMux(),
		customers: customers,
		logger:    logger.With("component", "http"),
	}

	for _, r := range routes {
		prefix := config.NormalizePrefix(r.Prefix)
		s.mux.HandleFunc("GET "+prefix+"/{slug}", s.handlePost(r.Pages))
		s.mux.HandleFunc("GET "+prefix+"/category/{slug}", s.handleCategory(r.Pages))
		s.mux.HandleFunc("GET "+prefix+"/author/{id}", s.handleAuthor(r.Pages))
		s.mux.HandleFunc("GET "+prefix+"/categories", s.handleCategories(r.Pages))
		s.mux.HandleFunc("GET "+prefix+"/recent", s.handleRecent(r.Pages))
		s.mux.HandleFunc("GET "+prefix+"/{$}", s.handleIndex(r.Pages))
		if prefix != "" {
			s.mux.HandleFunc("GET "+prefix, s.handleIndex(r.Pages))
		}
		s.logger.Info("route registered", "prefix", prefix, "source", r.Pages.Source())
	}

	s.mux.HandleFunc("GET /customers", s.handleCustomers)
	s.mux.HandleFunc("GET /customers/featured", s.handleFeaturedCustomer)
	s.mux.HandleFunc("GET /llms.txt", s.handleLLMs)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	s.logger.Info("http server stopped")
	return ctx.Err()
}

func (s *Server) handlePost(pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, found, err := pages.ResolvePage(r.Context(), r.PathValue("slug"))
		s.respond(w, r, page, found, err)
	}
}

func (s *Server) handleCategory(pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, found, err := pages.CategoryPage(r.Context(), r.PathValue("slug"))
		s.respond(w, r, page, found, err)
	}
}

func (s *Server) handleAuthor(pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := pages.ListByAuthor(r.Context(), r.PathValue("id"))
		s.respond(w, r, map[string]any{"posts": posts}, true, err)
	}
}

func (s *Server) handleCategories(pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := pages.ListCategories(r.Context())
		s.respond(w, r, map[string]any{"categories": cats}, true, err)
	}
}

func (s *Server) handleIndex(pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		posts, err := pages.ListPublished(r.Context(), limit)
		s.respond(w, r, map[string]any{"posts": posts}, true, err)
	}
}

func (s *Server) handleRecent(pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		posts, err := pages.ListRecent(r.Context(), limit)
		s.respond(w, r, map[string]any{"posts": posts}, true, err)
	}
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	customers := s.customers
	q := r.URL.Query()
	if industry := q.Get("industry"); industry != "" {
		customers = views.ByIndustry(customers, industry)
	}
	if on, _ := strconv.ParseBool(q.Get("testimonials")); on {
		customers = views.WithTestimonials(customers)
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"customers":  customers,
		"industries": views.Industries(s.customers),
	})
}

func (s *Server) handleFeaturedCustomer(w http.ResponseWriter, r *http.Request) {
	c, ok := views.Featured(s.customers)
	s.respond(w, r, c, ok, nil)
}

func (s *Server) handleLLMs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(llmsTxt)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respond maps a lookup outcome to a status: found 200, absent 404, source
// failure 500.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, body any, found bool, err error) {
	switch {
	case err != nil:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	case !found:
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		writeJSON(w, http.StatusOK, body)
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
