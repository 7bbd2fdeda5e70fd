// Package ddl builds the table model of a generated entity and renders it as
// SQL for the supported dialects.
//
// The table is described with atlas schema types. Rendering is done here
// rather than by an atlas plan because generated scripts keep a fixed column
// layout:
//
//	id
//	declared fields
//	foreign key constraints
//	deleted_at            (soft deletes)
//	created_at, updated_at (timestamps)
package ddl

import (
	"fmt"
	"strings"

	"ariga.io/atlas/sql/postgres"
	"github.com/lib/pq"
)

// Supported dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Dialect describes how one database spells identifiers, literals and
// column types.
type Dialect struct {
	Name string
	// Quote quotes an identifier.
	Quote func(string) string
	// Literal quotes a string literal.
	Literal func(string) string
	// ID returns the primary key column definition, without the name.
	ID func(uuid bool) string
	// Types maps abstract column kinds to the dialect spelling.
	Types map[Kind]string
	// TrailingConstraints forces table constraints after every column.
	TrailingConstraints bool
	// Bool renders a boolean literal.
	Bool func(bool) string
}

// Kind is a dialect independent column kind.
type Kind int

// Column kinds.
const (
	KindString Kind = iota
	KindChar
	KindText
	KindInt
	KindBigInt
	KindSmallInt
	KindTinyInt
	KindUint
	KindBigUint
	KindDecimal
	KindFloat
	KindDouble
	KindBool
	KindDate
	KindDateTime
	KindTimestamp
	KindTime
	KindJSON
	KindJSONB
	KindUUID
	KindForeignID
)

var dialects = []*Dialect{
	{
		Name:    Postgres,
		Quote:   pq.QuoteIdentifier,
		Literal: pq.QuoteLiteral,
		ID: func(uuid bool) string {
			if uuid {
				return "uuid NOT NULL PRIMARY KEY"
			}
			return postgres.TypeBigSerial + " NOT NULL PRIMARY KEY"
		},
		Types: map[Kind]string{
			KindString:    "varchar",
			KindChar:      "char",
			KindText:      "text",
			KindInt:       "integer",
			KindBigInt:    "bigint",
			KindSmallInt:  "smallint",
			KindTinyInt:   "smallint",
			KindUint:      "integer",
			KindBigUint:   "bigint",
			KindDecimal:   "decimal",
			KindFloat:     "real",
			KindDouble:    "double precision",
			KindBool:      "boolean",
			KindDate:      "date",
			KindDateTime:  "timestamp",
			KindTimestamp: "timestamptz",
			KindTime:      "time",
			KindJSON:      "json",
			KindJSONB:     "jsonb",
			KindUUID:      "uuid",
			KindForeignID: "bigint",
		},
		Bool: func(b bool) string { return fmt.Sprint(b) },
	},
	{
		Name:    MySQL,
		Quote:   func(s string) string { return "`" + strings.ReplaceAll(s, "`", "``") + "`" },
		Literal: quoteLiteral,
		ID: func(uuid bool) string {
			if uuid {
				return "char(36) NOT NULL PRIMARY KEY"
			}
			return "bigint unsigned NOT NULL AUTO_INCREMENT PRIMARY KEY"
		},
		Types: map[Kind]string{
			KindString:    "varchar",
			KindChar:      "char",
			KindText:      "text",
			KindInt:       "int",
			KindBigInt:    "bigint",
			KindSmallInt:  "smallint",
			KindTinyInt:   "tinyint",
			KindUint:      "int unsigned",
			KindBigUint:   "bigint unsigned",
			KindDecimal:   "decimal",
			KindFloat:     "float",
			KindDouble:    "double",
			KindBool:      "tinyint(1)",
			KindDate:      "date",
			KindDateTime:  "datetime",
			KindTimestamp: "timestamp",
			KindTime:      "time",
			KindJSON:      "json",
			KindJSONB:     "json",
			KindUUID:      "char(36)",
			KindForeignID: "bigint unsigned",
		},
		Bool: func(b bool) string {
			if b {
				return "1"
			}
			return "0"
		},
	},
	{
		Name:    SQLite,
		Quote:   quoteIdent,
		Literal: quoteLiteral,
		ID: func(uuid bool) string {
			if uuid {
				return "varchar(36) NOT NULL PRIMARY KEY"
			}
			return "integer NOT NULL PRIMARY KEY AUTOINCREMENT"
		},
		Types: map[Kind]string{
			KindString:    "varchar",
			KindChar:      "char",
			KindText:      "text",
			KindInt:       "integer",
			KindBigInt:    "integer",
			KindSmallInt:  "integer",
			KindTinyInt:   "integer",
			KindUint:      "integer",
			KindBigUint:   "integer",
			KindDecimal:   "numeric",
			KindFloat:     "real",
			KindDouble:    "real",
			KindBool:      "boolean",
			KindDate:      "date",
			KindDateTime:  "datetime",
			KindTimestamp: "timestamp",
			KindTime:      "time",
			KindJSON:      "json",
			KindJSONB:     "json",
			KindUUID:      "varchar(36)",
			KindForeignID: "integer",
		},
		TrailingConstraints: true,
		Bool:                func(b bool) string { return fmt.Sprint(b) },
	},
}

// Dialects returns the supported dialect names.
func Dialects() []string {
	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = d.Name
	}
	return names
}

// NewDialect returns the dialect with the given name.
func NewDialect(name string) (*Dialect, error) {
	for _, d := range dialects {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("ddl: unsupported dialect %q", name)
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
