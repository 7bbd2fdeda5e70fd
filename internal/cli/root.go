// Package cli implements the crudgen commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/internal/config"
	"github.com/syssam/crudgen/internal/logging"
)

// globals are the persistent flags shared by every command.
type globals struct {
	dir      string
	config   string
	logLevel string
	logDir   string

	closeLog func()
}

// NewRootCmd returns the crudgen command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:     "crudgen",
		Short:   "Generate a layered CRUD resource for a Go web project",
		Version: crudgen.Version,
		Long: `crudgen renders the model, migration, controller, service, repository,
requests, resource, factory, seeder, policy and route registration of one
entity from a field specification, or of every table of a schema directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			closeFn, err := logging.InitGlobalLogger(logging.Options{
				Dir:     g.logDir,
				Console: cmd.ErrOrStderr(),
				Level:   g.logLevel,
			})
			if err != nil {
				return err
			}
			g.closeLog = closeFn
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if g.closeLog != nil {
				g.closeLog()
				g.closeLog = nil
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.dir, "dir", ".", "root of the target project")
	pf.StringVar(&g.config, "config", "", "config file (default <dir>/"+config.FileName+")")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error (default $LOG_LEVEL)")
	pf.StringVar(&g.logDir, "log-dir", "", "directory of the rotated log file (default ~/.crudgen/logs)")

	root.AddCommand(generateCmd(g))
	root.AddCommand(fromSchemaCmd(g))
	root.AddCommand(inspectCmd(g))
	root.AddCommand(policiesCmd(g))
	return root
}

// resolve builds the configuration of the target project with the command
// options applied last.
func (g *globals) resolve(opts ...gen.Option) (gen.Config, error) {
	return config.ResolveFile(g.dir, g.config, opts...)
}
