package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/crud"
	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/internal/logging"
)

// watchDebounce groups the events of one editor save into one run.
const watchDebounce = 300 * time.Millisecond

func fromSchemaCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "from-schema",
		Short: "Generate the CRUD resources of every table in a schema directory",
		Long: `Read every *.sql script of a directory, infer the many-to-many relations
of the pivot tables, and generate the resource of every other table. No
migration is written since the scripts already define the tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("path")
			watchFlag, _ := cmd.Flags().GetBool("watch")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			opts, err := generationOptions(cmd.Flags())
			if err != nil {
				return err
			}
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(g.dir, dir)
			}
			run := func() error {
				return fromSchema(cmd, g, dir, dryRun, opts)
			}
			if err := run(); err != nil {
				return err
			}
			if !watchFlag {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", dir)
			return watch(cmd.Context(), dir, run)
		},
	}
	cmd.Flags().String("path", gen.DefaultPaths[gen.KindMigration], "directory of the schema scripts, relative to --dir")
	cmd.Flags().Bool("watch", false, "regenerate when a script changes")
	addGenerationFlags(cmd.Flags())
	return cmd
}

// fromSchema runs one batch over the scripts of dir.
func fromSchema(cmd *cobra.Command, g *globals, dir string, dryRun bool, opts []gen.Option) error {
	cfg, err := g.resolve(opts...)
	if err != nil {
		return err
	}
	entities, err := schemaEntities(cmd.Context(), dir, cfg.IgnoreTables)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}
	// Reapplied so the batch also sees the entity names.
	batch := slices.Concat(opts, []gen.Option{gen.WithSkip(gen.KindMigration), gen.WithKnownEntities(names...)})
	if cfg, err = g.resolve(batch...); err != nil {
		return err
	}

	arts, err := crud.NewPipeline(cfg).RunBatch(cmd.Context(), entities, cfg)
	if err != nil {
		return fmt.Errorf("generate from %s: %w", dir, err)
	}
	report, err := gen.NewWriter(g.dir).WithDryRun(dryRun).Apply(cmd.Context(), arts, cfg.Force)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report, dryRun)
	return nil
}

// schemaEntities extracts every script of dir and returns the entities of
// the tables that are not pivots, with the inferred many-to-many hints.
func schemaEntities(ctx context.Context, dir string, ignore []string) ([]gen.Entity, error) {
	tables, err := load.LoadDir(ctx, dir, ignore)
	if err != nil {
		return nil, err
	}
	pivots := load.Pivots(tables)
	hints := load.InferPivots(tables)

	entities := make([]gen.Entity, 0, len(tables))
	for _, t := range tables {
		if pivots[t.Name] {
			logging.Warn("pivot table skipped", zap.String("table", t.Name), zap.String("path", t.Source))
			continue
		}
		entities = append(entities, gen.Entity{
			Name:      t.Entity(),
			Fields:    t.Fields,
			Relations: slices.Concat(t.Relations, hints[t.Entity()]),
		})
	}
	return entities, nil
}

// watch calls run after every change to a script of dir until ctx is done.
// Failed runs are logged, not returned.
func watch(ctx context.Context, dir string, run func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !strings.EqualFold(filepath.Ext(ev.Name), ".sql") {
				continue
			}
			logging.Debug("schema script changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := run(); err != nil {
				logging.Warn("regeneration failed", zap.String("dir", dir), zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watch error", zap.String("dir", dir), zap.Error(err))
		}
	}
}
