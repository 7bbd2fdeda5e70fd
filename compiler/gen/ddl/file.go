package ddl

import (
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/sqltool"
)

// Migration file formats.
const (
	FormatGoose  = "goose"
	FormatDBMate = "dbmate"
	FormatAtlas  = "atlas"
)

var formatters = map[string]migrate.Formatter{
	FormatGoose:  sqltool.GooseFormatter,
	FormatDBMate: sqltool.DBMateFormatter,
	FormatAtlas:  migrate.DefaultFormatter,
}

// Formats returns the supported migration file formats.
func Formats() []string {
	return []string{FormatGoose, FormatDBMate, FormatAtlas}
}

// ValidFormat reports whether the migration format is supported.
func ValidFormat(format string) bool {
	_, ok := formatters[format]
	return ok
}

// Plan returns the migration plan creating the table.
func (t *Table) Plan(name string) *migrate.Plan {
	stmts := t.Create()
	plan := &migrate.Plan{Name: name}
	plan.Changes = append(plan.Changes, &migrate.Change{
		Cmd:     stmts[0],
		Comment: fmt.Sprintf("create %q table", t.Name),
		Reverse: t.Drop(),
	})
	for _, s := range stmts[1:] {
		plan.Changes = append(plan.Changes, &migrate.Change{Cmd: s})
	}
	return plan
}

// File renders the migration creating the table in the given format. Only
// the content is returned; the caller names the file.
func (t *Table) File(name, format string) ([]byte, error) {
	f, ok := formatters[format]
	if !ok {
		return nil, fmt.Errorf("ddl: unsupported migration format %q", format)
	}
	files, err := f.Format(t.Plan(name))
	if err != nil {
		return nil, fmt.Errorf("ddl: format migration: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("ddl: formatter %q produced no file", format)
	}
	return files[0].Bytes(), nil
}
