package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sitecontent/internal/config"
	"sitecontent/internal/content"
	"sitecontent/internal/lookup"
)

var (
	lookupSource  string
	lookupTimeout time.Duration
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <slug>",
	Short: "Resolve a slug against one source and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupSource, "source", config.SourceStatic, "source to query: static, postgres or hosted")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", 5*time.Second, "how long to wait before reporting the lookup as pending")
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store := content.NewStore()
	if lookupSource == config.SourceStatic {
		collection, err := content.NewLoader(cfg.Content.Dir, cfg.Content.Patterns, logger).Load(ctx)
		if err != nil {
			return err
		}
		store.Swap(collection)
	}

	cfg.Server.Routes = []config.RouteConfig{{Source: lookupSource}}
	srcs, err := openSources(ctx, cfg, store, logger)
	if err != nil {
		return err
	}
	defer srcs.Close()

	src, err := srcs.get(lookupSource)
	if err != nil {
		return err
	}

	q := lookup.Start(ctx, args[0], src.GetBySlug)
	defer q.Cancel()

	waitCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	res := q.Wait(waitCtx)
	out := cmd.OutOrStdout()
	switch {
	case res.Lookup.IsPending() && errors.Is(res.Err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%s: pending after %s\n", args[0], lookupTimeout)
		return nil
	case res.Err != nil:
		return fmt.Errorf("lookup %s: %w", args[0], res.Err)
	case res.Lookup.IsAbsent():
		fmt.Fprintf(out, "%s: not found in %s\n", args[0], src.Name())
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"state":    res.Lookup.State.String(),
		"post":     res.Lookup.Post,
		"category": res.Lookup.Category,
	})
}
