package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/crud"
	"github.com/syssam/crudgen/internal/logging"
)

// skipFlags maps each --no-<name> flag to the kinds it disables.
var skipFlags = []struct {
	name  string
	kinds []gen.Kind
}{
	{"entity", []gen.Kind{gen.KindEntity}},
	{"migration", []gen.Kind{gen.KindMigration}},
	{"controller", []gen.Kind{gen.KindController}},
	{"service", []gen.Kind{gen.KindService}},
	{"repository", []gen.Kind{gen.KindRepository}},
	{"requests", []gen.Kind{gen.KindStoreRequest, gen.KindUpdateRequest}},
	{"resource", []gen.Kind{gen.KindResource}},
	{"factory", []gen.Kind{gen.KindFactory}},
	{"seeder", []gen.Kind{gen.KindSeeder}},
	{"policy", []gen.Kind{gen.KindPolicy}},
	{"routes", []gen.Kind{gen.KindRoutes}},
}

// boolFlags are the generation switches shared by generate and from-schema.
var boolFlags = []struct {
	name  string
	usage string
	opt   func(bool) gen.Option
}{
	{"soft-deletes", "add a deleted_at column and soft delete queries", gen.WithSoftDeletes},
	{"uuid", "use UUID primary keys", gen.WithUUID},
	{"web", "generate the HTML form controller instead of the JSON one", gen.WithWeb},
	{"force", "overwrite existing files", gen.WithForce},
	{"repository", "generate a repository and a service delegating to it", gen.WithRepository},
}

func addGenerationFlags(fs *pflag.FlagSet) {
	for _, s := range skipFlags {
		fs.Bool("no-"+s.name, false, "do not generate the "+s.name)
	}
	for _, b := range boolFlags {
		fs.Bool(b.name, false, b.usage)
	}
	fs.Bool("dry-run", false, "report what would be written without touching files")
	fs.String("dialect", "", "SQL dialect of the migration: postgres, mysql or sqlite")
	fs.String("migration-format", "", "migration file format: goose, dbmate or atlas")
	fs.Int("pagination", 0, "default page size of the search endpoints")
}

// generationOptions returns the options of the flags set on the command
// line. Unset flags leave the resolved configuration alone.
func generationOptions(fs *pflag.FlagSet) ([]gen.Option, error) {
	var (
		opts []gen.Option
		skip []gen.Kind
	)
	for _, s := range skipFlags {
		if v, err := fs.GetBool("no-" + s.name); err != nil {
			return nil, err
		} else if v {
			skip = append(skip, s.kinds...)
		}
	}
	if len(skip) > 0 {
		opts = append(opts, gen.WithSkip(skip...))
	}
	for _, b := range boolFlags {
		if !fs.Changed(b.name) {
			continue
		}
		v, err := fs.GetBool(b.name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, b.opt(v))
	}
	if fs.Changed("dialect") {
		v, _ := fs.GetString("dialect")
		opts = append(opts, gen.WithDialect(v))
	}
	if fs.Changed("migration-format") {
		v, _ := fs.GetString("migration-format")
		opts = append(opts, gen.WithMigrationFormat(v))
	}
	if fs.Changed("pagination") {
		v, _ := fs.GetInt("pagination")
		opts = append(opts, gen.WithPagination(v))
	}
	return opts, nil
}

func generateCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <Name>",
		Short: "Generate the CRUD resource of one entity",
		Long: `Generate the CRUD resource of one entity from a field specification:

  crudgen generate Post --fields "title:string:unique, body:text:nullable, author_id:foreignId"

Existing files are skipped unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, _ := cmd.Flags().GetString("fields")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			opts, err := generationOptions(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := g.resolve(opts...)
			if err != nil {
				return err
			}

			arts, err := crud.NewPipeline(cfg).RunSpec(args[0], fields, nil, cfg)
			if err != nil {
				return fmt.Errorf("generate %s: %w", args[0], err)
			}
			logging.Info("entity rendered", zap.String("entity", args[0]), zap.Int("artifacts", len(arts)))

			report, err := gen.NewWriter(g.dir).WithDryRun(dryRun).Apply(cmd.Context(), arts, cfg.Force)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report, dryRun)
			return nil
		},
	}
	cmd.Flags().String("fields", "", `field specification, like "title:string:unique, body:text:nullable"`)
	addGenerationFlags(cmd.Flags())
	return cmd
}
