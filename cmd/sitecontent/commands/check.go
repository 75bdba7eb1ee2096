package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sitecontent/internal/content"
	"sitecontent/internal/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate every content file without serving",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.Content.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	collection, err := content.NewLoader(dir, cfg.Content.Patterns, logger).Load(cmd.Context())
	out := cmd.OutOrStdout()

	var loadErr *content.LoadError
	switch {
	case errors.As(err, &loadErr):
		for _, f := range loadErr.Files {
			var invalid *schema.ValidationError
			if !errors.As(f.Err, &invalid) {
				fmt.Fprintf(out, "%s: %v\n", f.Path, f.Err)
				continue
			}
			for _, field := range invalid.Fields {
				fmt.Fprintf(out, "%s: %s: %s\n", f.Path, field.Field, field.Reason)
			}
		}
		return fmt.Errorf("%d invalid file(s) in %s", len(loadErr.Files), dir)
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "%s: %d post(s), %d categor(ies) ok\n", dir, collection.Len(), len(collection.Categories()))
	return nil
}
