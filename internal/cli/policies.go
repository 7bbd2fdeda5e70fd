package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/crud"
	"github.com/syssam/crudgen/internal/logging"
)

var (
	modelType  = regexp.MustCompile(`(?m)^type (\w+) struct`)
	policyType = regexp.MustCompile(`(?m)^type (\w+)Policy struct`)
)

func policiesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "Rewrite the policy registry from the models and policies of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.resolve()
			if err != nil {
				return err
			}
			names, err := policyEntities(g.dir, cfg)
			if err != nil {
				return err
			}
			a, err := crud.Registry(names, cfg)
			if err != nil {
				return err
			}
			report, err := gen.NewWriter(g.dir).Apply(cmd.Context(), []*gen.Artifact{a}, true)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d policies registered\n", len(names))
			printReport(cmd.OutOrStdout(), report, false)
			return nil
		},
	}
}

// policyEntities returns the entities that have both a model and a policy
// in the target project.
func policyEntities(root string, cfg gen.Config) ([]string, error) {
	models, err := scanTypes(filepath.Join(root, cfg.Dir(gen.KindEntity)), modelType)
	if err != nil {
		return nil, err
	}
	policies, err := scanTypes(filepath.Join(root, cfg.Dir(gen.KindPolicy)), policyType)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range policies {
		if !slices.Contains(models, name) {
			logging.Warn("policy without a model", zap.String("entity", name))
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// scanTypes returns the sorted first submatches of re in the non-test Go
// files of dir. A missing dir has no types.
func scanTypes(dir string, re *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") || strings.HasSuffix(e.Name(), "_test.go") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		for _, m := range re.FindAllStringSubmatch(string(data), -1) {
			names = append(names, m[1])
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}
