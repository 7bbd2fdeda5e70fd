package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bndr/gotabulate"
	"github.com/fatih/color"

	"github.com/syssam/crudgen/compiler/gen"
)

func status(res gen.WriteResult) string {
	label := fmt.Sprintf("%-8s", res)
	switch res {
	case gen.Written, gen.Appended:
		return color.New(color.FgGreen).Sprint(label)
	case gen.Skipped:
		return color.New(color.FgYellow).Sprint(label)
	default:
		return color.New(color.FgRed).Sprint(label)
	}
}

// printReport prints one status line per artifact and a summary table.
func printReport(w io.Writer, r *gen.Report, dryRun bool) {
	for _, e := range r.Entries {
		fmt.Fprintf(w, "%s %s\n", status(e.Result), e.Path)
		if e.Err != nil {
			fmt.Fprintf(w, "         %v\n", e.Err)
		}
	}
	rows := make([][]string, 0, 4)
	for _, res := range []gen.WriteResult{gen.Written, gen.Appended, gen.Skipped, gen.Failed} {
		rows = append(rows, []string{res.String(), strconv.Itoa(r.Count(res))})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"result", "artifacts"})
	t.SetAlign("left")
	if dryRun {
		fmt.Fprintln(w, "dry run, nothing written:")
	}
	fmt.Fprintln(w, t.Render("grid"))
}
