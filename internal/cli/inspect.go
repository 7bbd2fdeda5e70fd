package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/bndr/gotabulate"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/internal/config"
	"github.com/syssam/crudgen/schema/field"
)

func inspectCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the fields parsed from a specification or extracted from scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, _ := cmd.Flags().GetString("fields")
			dir, _ := cmd.Flags().GetString("path")
			dump, _ := cmd.Flags().GetBool("dump")
			out := cmd.OutOrStdout()

			switch {
			case spec != "":
				specs := field.Parse(spec)
				if dump {
					spew.Fdump(out, specs)
					return nil
				}
				printFields(out, specs)
				return nil
			case dir != "":
				if !filepath.IsAbs(dir) {
					dir = filepath.Join(g.dir, dir)
				}
				ignore := load.DefaultIgnoreTables
				if f, err := config.Load(g.dir); err == nil && len(f.IgnoreTables) > 0 {
					ignore = f.IgnoreTables
				}
				tables, err := load.LoadDir(cmd.Context(), dir, ignore)
				if err != nil {
					return err
				}
				if dump {
					spew.Fdump(out, tables)
					return nil
				}
				pivots := load.Pivots(tables)
				for _, t := range tables {
					title := fmt.Sprintf("%s (%s)", t.Name, t.Entity())
					if pivots[t.Name] {
						title += " pivot"
					}
					fmt.Fprintln(out, title)
					printFields(out, t.Fields)
				}
				return nil
			}
			return errors.New("one of --fields or --path is required")
		},
	}
	cmd.Flags().String("fields", "", "field specification to parse")
	cmd.Flags().String("path", "", "directory of schema scripts to extract")
	cmd.Flags().Bool("dump", false, "dump the parsed values instead of a table")
	return cmd
}

func printFields(w io.Writer, specs []*field.Spec) {
	if len(specs) == 0 {
		fmt.Fprintln(w, "no fields")
		return
	}
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		foreign := ""
		if s.Foreign != nil {
			foreign = s.Foreign.RelatedTable
		}
		rows = append(rows, []string{
			s.Name,
			string(s.Type),
			strconv.FormatBool(s.Nullable),
			strconv.FormatBool(s.Unique),
			strconv.FormatBool(s.Index),
			intOrEmpty(s.Length),
			intOrEmpty(s.Precision),
			stringOrEmpty(s.Default),
			foreign,
		})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"name", "type", "nullable", "unique", "index", "length", "precision", "default", "references"})
	t.SetAlign("left")
	t.SetEmptyString("-")
	fmt.Fprintln(w, t.Render("grid"))
}

func intOrEmpty(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func stringOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
