package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sitecontent/internal/config"
	"sitecontent/internal/content"
	"sitecontent/internal/service"
	"sitecontent/internal/source/hosted"
	"sitecontent/internal/storage/postgres"
)

// sources holds one post source per configured backend. Only the backends
// some route uses are opened.
type sources struct {
	static *content.Store
	bySrc  map[string]service.PostSource
	tx     service.TransactionManager
	db     *sqlx.DB
}

func openSources(ctx context.Context, cfg *config.Config, store *content.Store, logger *slog.Logger) (*sources, error) {
	s := &sources{
		static: store,
		bySrc:  map[string]service.PostSource{config.SourceStatic: store},
	}

	if cfg.Uses(config.SourcePostgres) {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		logger.Info("connected to database")

		s.db = db
		s.bySrc[config.SourcePostgres] = postgres.NewSource(db)
		s.tx = postgres.NewTransactionManager(db)
	}

	if cfg.Uses(config.SourceHosted) {
		s.bySrc[config.SourceHosted] = hosted.New(hosted.Config{
			BaseURL:        cfg.Hosted.BaseURL,
			Token:          cfg.Hosted.Token,
			Timeout:        cfg.Hosted.Timeout,
			MaxAttempts:    cfg.Hosted.Retry.MaxAttempts,
			InitialBackoff: cfg.Hosted.Retry.InitialBackoff,
			MaxBackoff:     cfg.Hosted.Retry.MaxBackoff,
		}, logger)
	}

	return s, nil
}

func (s *sources) get(name string) (service.PostSource, error) {
	src, ok := s.bySrc[name]
	if !ok {
		return nil, fmt.Errorf("source %q is not configured", name)
	}
	return src, nil
}

// txFor returns the snapshot manager for name, or nil when the source has
// no transactions.
func (s *sources) txFor(name string) service.TransactionManager {
	if name == config.SourcePostgres {
		return s.tx
	}
	return nil
}

func (s *sources) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
