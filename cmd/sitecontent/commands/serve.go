package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sitecontent/internal/config"
	"sitecontent/internal/content"
	"sitecontent/internal/customers"
	"sitecontent/internal/httpapi"
	"sitecontent/internal/publisher"
	"sitecontent/internal/render"
	"sitecontent/internal/scheduler"
	"sitecontent/internal/seo"
	"sitecontent/internal/service"
	"sitecontent/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the static collection and serve content over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
			PathPrefix: staticPrefix(cfg),
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	store := content.NewStore()
	loader := content.NewLoader(cfg.Content.Dir, cfg.Content.Patterns, logger)
	builds := service.NewBuildService(loader, store, pub, logger)

	if _, err := builds.Build(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	srcs, err := openSources(ctx, cfg, store, logger)
	if err != nil {
		return err
	}
	defer srcs.Close()

	site := seo.Site{
		Name:    cfg.Site.Name,
		BaseURL: cfg.Site.BaseURL,
		Logo:    cfg.Site.Logo,
		Twitter: cfg.Site.Twitter,
		SameAs:  cfg.Site.SameAs,
	}
	renderer := render.NewMarkdown(renderOptions(cfg.Content)...)

	routes := make([]httpapi.Route, 0, len(cfg.Server.Routes))
	for _, rc := range cfg.Server.Routes {
		src, err := srcs.get(rc.Source)
		if err != nil {
			return err
		}
		pages := service.NewContentService(src, srcs.txFor(rc.Source), renderer, site, service.ContentConfig{
			Prefix:       rc.Prefix,
			RelatedLimit: cfg.Content.RelatedLimit,
			ShowDrafts:   rc.ShowDrafts,
		}, logger)
		routes = append(routes, httpapi.Route{Prefix: rc.Prefix, Pages: pages})
		logger.Info("route registered", "prefix", rc.Prefix, "source", rc.Source, "show_drafts", rc.ShowDrafts)
	}

	all, err := customers.Load()
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}

	server := httpapi.NewServer(httpapi.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, routes, all, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		return scheduler.NewScheduler(builds, cfg.Content.RefreshInterval, logger).Start(gctx)
	})
	if cfg.Content.Watch {
		g.Go(func() error {
			return watcher.New(cfg.Content.Dir, cfg.Content.Patterns, builds, cfg.Content.WatchDebounce, logger).Run(gctx)
		})
	}

	logger.Info("starting sitecontent",
		"addr", cfg.Server.Addr,
		"content_dir", cfg.Content.Dir,
		"refresh_interval", cfg.Content.RefreshInterval,
		"watch", cfg.Content.Watch,
		"publisher", pub != nil,
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func renderOptions(c config.ContentConfig) []render.Option {
	var opts []render.Option
	if c.RawHTML {
		opts = append(opts, render.WithUnsafe())
	}
	if c.HardWraps {
		opts = append(opts, render.WithHardWraps())
	}
	return opts
}

// staticPrefix is the prefix of the first static route. Change events only
// describe static posts, so their paths are built from it.
func staticPrefix(cfg *config.Config) string {
	for _, r := range cfg.Server.Routes {
		if r.Source == config.SourceStatic {
			return r.Prefix
		}
	}
	return ""
}
