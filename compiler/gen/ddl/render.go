package ddl

import (
	"strings"

	"ariga.io/atlas/sql/schema"
)

// Create returns the statements creating the table: the CREATE TABLE
// statement followed by one CREATE INDEX per non-unique index. Statements
// carry no terminating semicolon.
func (t *Table) Create() []string {
	var (
		d     = t.dialect
		lines []string
	)
	for _, c := range t.Declared() {
		lines = append(lines, t.columnDef(c))
	}
	fks := make([]string, 0, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		fks = append(fks, t.foreignKeyDef(fk))
	}
	if !d.TrailingConstraints {
		lines = append(lines, fks...)
	}
	for _, c := range t.Trailing() {
		lines = append(lines, t.columnDef(c))
	}
	if d.TrailingConstraints {
		lines = append(lines, fks...)
	}
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(d.Quote(t.Name))
	b.WriteString(" (\n")
	for i, l := range lines {
		b.WriteString("  ")
		b.WriteString(l)
		if i < len(lines)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteByte(')')
	stmts := []string{b.String()}
	for _, idx := range t.Indexes {
		if inline(idx) {
			continue
		}
		stmts = append(stmts, t.indexDef(idx))
	}
	return stmts
}

// Drop returns the statement dropping the table.
func (t *Table) Drop() string {
	return "DROP TABLE IF EXISTS " + t.dialect.Quote(t.Name)
}

func (t *Table) columnDef(c *schema.Column) string {
	d := t.dialect
	if t.PrimaryKey != nil && len(t.PrimaryKey.Parts) == 1 && t.PrimaryKey.Parts[0].C == c {
		return d.Quote(c.Name) + " " + c.Type.Raw
	}
	b := []string{d.Quote(c.Name), c.Type.Raw}
	if c.Type.Null {
		b = append(b, "NULL")
	} else {
		b = append(b, "NOT NULL")
	}
	switch x := c.Default.(type) {
	case *schema.Literal:
		b = append(b, "DEFAULT", x.V)
	case *schema.RawExpr:
		b = append(b, "DEFAULT", x.X)
	}
	for _, idx := range c.Indexes {
		if inline(idx) {
			b = append(b, "UNIQUE")
			break
		}
	}
	return strings.Join(b, " ")
}

func (t *Table) foreignKeyDef(fk *schema.ForeignKey) string {
	d := t.dialect
	var b strings.Builder
	b.WriteString("CONSTRAINT ")
	b.WriteString(d.Quote(fk.Symbol))
	b.WriteString(" FOREIGN KEY (")
	b.WriteString(quoteColumns(d, fk.Columns))
	b.WriteString(") REFERENCES ")
	b.WriteString(d.Quote(fk.RefTable.Name))
	b.WriteString(" (")
	b.WriteString(quoteColumns(d, fk.RefColumns))
	b.WriteByte(')')
	if fk.OnDelete != "" {
		b.WriteString(" ON DELETE ")
		b.WriteString(string(fk.OnDelete))
	}
	return b.String()
}

func (t *Table) indexDef(idx *schema.Index) string {
	d := t.dialect
	cols := make([]*schema.Column, 0, len(idx.Parts))
	for _, p := range idx.Parts {
		cols = append(cols, p.C)
	}
	kw := "CREATE INDEX "
	if idx.Unique {
		kw = "CREATE UNIQUE INDEX "
	}
	return kw + d.Quote(idx.Name) + " ON " + d.Quote(t.Name) + " (" + quoteColumns(d, cols) + ")"
}

// inline reports whether the index is rendered as a column UNIQUE keyword.
func inline(idx *schema.Index) bool {
	return idx.Unique && len(idx.Parts) == 1
}

func quoteColumns(d *Dialect, cols []*schema.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = d.Quote(c.Name)
	}
	return strings.Join(names, ", ")
}
