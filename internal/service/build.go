package service

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"sitecontent/internal/content"
	"sitecontent/internal/domain"
)

// BuildService rebuilds the static collection and announces what changed.
// Builds are serialized; a failed build leaves the served collection as is.
type BuildService struct {
	loader    Loader
	store     CollectionStore
	publisher Publisher
	logger    *slog.Logger

	mu sync.Mutex
}

// NewBuildService creates a build service. publisher may be nil.
func NewBuildService(loader Loader, store CollectionStore, publisher Publisher, logger *slog.Logger) *BuildService {
	return &BuildService{
		loader:    loader,
		store:     store,
		publisher: publisher,
		logger:    logger.With("source", store.Name()),
	}
}

func (s *BuildService) Build(ctx context.Context) (*domain.BuildStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := time.Now()
	s.logger.Info("starting build")

	collection, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	previous := s.store.Swap(collection)
	changes := Diff(previous, collection, s.store.Name())

	stats := &domain.BuildStats{
		Loaded:   collection.Len(),
		LoadedAt: collection.LoadedAt(),
	}
	for _, ch := range changes {
		switch ch.Action {
		case domain.ChangeCreate:
			stats.New++
		case domain.ChangeUpdate:
			stats.Updated++
		case domain.ChangeDelete:
			stats.Removed++
		}
	}
	stats.Unchanged = stats.Loaded - stats.New - stats.Updated

	if s.publisher != nil {
		for _, ch := range changes {
			if err := s.publisher.Publish(ctx, ch); err != nil {
				s.logger.Error("failed to publish change",
					"slug", ch.Slug,
					"action", ch.Action,
					"error", err,
				)
				stats.Errors++
				continue
			}
			stats.Published++
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("build completed",
		"loaded", stats.Loaded,
		"new", stats.New,
		"updated", stats.Updated,
		"removed", stats.Removed,
		"unchanged", stats.Unchanged,
		"published", stats.Published,
		"errors", stats.Errors,
		"duration", stats.Duration,
		"loaded_at", stats.LoadedAt,
	)

	return stats, nil
}

// Diff lists the posts created or updated in next, in next's order, followed
// by the posts removed since prev, in prev's order. A nil prev counts as
// empty.
func Diff(prev, next *content.Collection, source string) []domain.ContentChange {
	var changes []domain.ContentChange

	for _, p := range next.Posts() {
		var old domain.Post
		var ok bool
		if prev != nil {
			old, ok = prev.GetBySlug(p.Slug)
		}

		switch {
		case !ok:
			changes = append(changes, change(domain.ChangeCreate, source, p))
		case !reflect.DeepEqual(old, p):
			changes = append(changes, change(domain.ChangeUpdate, source, p))
		}
	}

	if prev != nil {
		for _, p := range prev.Posts() {
			if _, ok := next.GetBySlug(p.Slug); !ok {
				changes = append(changes, change(domain.ChangeDelete, source, p))
			}
		}
	}

	return changes
}

func change(action domain.ChangeAction, source string, p domain.Post) domain.ContentChange {
	return domain.ContentChange{
		Action:     action,
		Source:     source,
		Slug:       p.Slug,
		ModifiedAt: p.ModifiedAt,
	}
}
