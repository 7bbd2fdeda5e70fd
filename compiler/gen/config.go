package gen

import (
	"path"
	"slices"
	"time"

	"github.com/syssam/crudgen/compiler/gen/ddl"
	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/schema/edge"
)

// Kind identifies an artifact.
type Kind string

// Artifact kinds, in generation order.
const (
	KindEntity        Kind = "entity"
	KindMigration     Kind = "migration"
	KindController    Kind = "controller"
	KindService       Kind = "service"
	KindRepository    Kind = "repository"
	KindStoreRequest  Kind = "store_request"
	KindUpdateRequest Kind = "update_request"
	KindResource      Kind = "resource"
	KindFactory       Kind = "factory"
	KindSeeder        Kind = "seeder"
	KindPolicy        Kind = "policy"
	KindRoutes        Kind = "routes"
)

// Kinds returns every artifact kind in generation order.
func Kinds() []Kind {
	return []Kind{
		KindEntity, KindMigration, KindController, KindService, KindRepository,
		KindStoreRequest, KindUpdateRequest, KindResource, KindFactory, KindSeeder,
		KindPolicy, KindRoutes,
	}
}

// DefaultPaths are the output directories of a target project, relative to
// its root. The base of each directory is the Go package name.
var DefaultPaths = map[Kind]string{
	KindEntity:        "internal/models",
	KindMigration:     "db/migrations",
	KindController:    "internal/http/controllers",
	KindService:       "internal/services",
	KindRepository:    "internal/repositories",
	KindStoreRequest:  "internal/http/requests",
	KindUpdateRequest: "internal/http/requests",
	KindResource:      "internal/http/resources",
	KindFactory:       "database/factories",
	KindSeeder:        "database/seeders",
	KindPolicy:        "internal/policies",
	KindRoutes:        "internal/routes",
}

// Route file names.
const (
	APIRoutesFile = "api.go"
	WebRoutesFile = "web.go"
)

// Config is the resolved generation configuration. It is built once per run
// and passed by value to every generator.
type Config struct {
	// Module is the Go module path of the target project.
	Module string
	// Header is written at the top of every generated Go file.
	Header string
	// Paths overrides DefaultPaths per kind.
	Paths map[Kind]string

	SoftDeletes   bool
	UUID          bool
	UseRepository bool
	// DefaultPagination is the page size of search endpoints.
	DefaultPagination int
	AddRoutes         bool
	Timestamps        bool
	// IgnoreTables are skipped by the schema script extractor.
	IgnoreTables []string

	Dialect         string
	MigrationFormat string

	// Web selects the HTML form flavor of the controller.
	Web   bool
	Force bool
	Skip  map[Kind]bool
	// Now is the migration version clock.
	Now time.Time

	// KnownEntities are related entities with a factory in the target.
	KnownEntities []string
	// Relations are merged with the hints derived from fields.
	Relations []edge.Hint
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config {
	return Config{
		UseRepository:     true,
		DefaultPagination: 15,
		AddRoutes:         true,
		Timestamps:        true,
		Dialect:           ddl.Postgres,
		MigrationFormat:   ddl.FormatGoose,
		IgnoreTables:      slices.Clone(load.DefaultIgnoreTables),
	}
}

// Dir returns the output directory of the kind.
func (c Config) Dir(k Kind) string {
	if p, ok := c.Paths[k]; ok && p != "" {
		return p
	}
	return DefaultPaths[k]
}

// Package returns the Go package name of the kind.
func (c Config) Package(k Kind) string {
	return path.Base(c.Dir(k))
}

// ImportPath returns the import path of the kind's package in the target.
func (c Config) ImportPath(k Kind) string {
	return path.Join(c.Module, c.Dir(k))
}

// Skipped reports whether the kind is not generated.
func (c Config) Skipped(k Kind) bool {
	switch {
	case c.Skip[k]:
		return true
	case k == KindRoutes && !c.AddRoutes:
		return true
	case k == KindRepository && !c.UseRepository:
		return true
	}
	return false
}

// Known reports whether the entity has a factory in the target.
func (c Config) Known(entity string) bool {
	return slices.Contains(c.KnownEntities, entity)
}

// RoutesFile returns the path of the routes file the route block is appended
// to.
func (c Config) RoutesFile() string {
	name := APIRoutesFile
	if c.Web {
		name = WebRoutesFile
	}
	return path.Join(c.Dir(KindRoutes), name)
}

// DDL returns the table model options.
func (c Config) DDL() ddl.Options {
	return ddl.Options{
		Dialect:     c.Dialect,
		UUID:        c.UUID,
		SoftDeletes: c.SoftDeletes,
		Timestamps:  c.Timestamps,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Module == "" {
		return NewConfigError("Module", nil, "module path cannot be empty")
	}
	if _, err := ddl.NewDialect(c.Dialect); err != nil {
		return NewConfigError("Dialect", c.Dialect, "unsupported dialect; use postgres, mysql, or sqlite")
	}
	if !ddl.ValidFormat(c.MigrationFormat) {
		return NewConfigError("MigrationFormat", c.MigrationFormat, "unsupported format; use goose, dbmate, or atlas")
	}
	if c.DefaultPagination <= 0 {
		return NewConfigError("DefaultPagination", c.DefaultPagination, "must be positive")
	}
	return nil
}
