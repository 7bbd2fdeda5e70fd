// Package load reads existing SQL migration scripts back into field specs and
// relation hints, the alternative input to the field DSL.
//
// Extraction is pattern based, not a SQL parser. It understands:
//   - one CREATE TABLE statement per script
//   - one column definition or table constraint per top-level comma
//   - single-column CREATE [UNIQUE] INDEX statements
//
// Anything else is ignored rather than reported.
package load

import (
	"github.com/syssam/crudgen/internal/naming"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// Table is the field and relation data recovered from one schema script.
type Table struct {
	Name      string        `json:"name"`
	Fields    []*field.Spec `json:"fields"`
	Relations []edge.Hint   `json:"relations,omitempty"`
	// Source is the script path, empty when extracted from a string.
	Source string `json:"source,omitempty"`
}

// Entity returns the entity name of the table: blog_posts is BlogPost.
func (t *Table) Entity() string {
	return naming.Pascal(naming.Singular(t.Name))
}

// IsPivot reports whether the table only links two entities: it has exactly
// two belongs-to relations and exactly two fields.
func (t *Table) IsPivot() bool {
	return len(edge.Filter(t.Relations, edge.BelongsTo)) == 2 && len(t.Fields) == 2
}

// DefaultIgnoreTables are framework and system tables skipped by the loader.
var DefaultIgnoreTables = []string{
	"migrations",
	"schema_migrations",
	"goose_db_version",
	"atlas_schema_revisions",
	"jobs",
	"failed_jobs",
	"job_batches",
	"sessions",
	"cache",
	"cache_locks",
	"password_reset_tokens",
	"personal_access_tokens",
	"audit_logs",
}

// autoColumns are managed by every generated migration and never extracted.
var autoColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"deleted_at": true,
}
