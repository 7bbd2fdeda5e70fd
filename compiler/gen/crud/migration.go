package crud

import (
	"fmt"
	"path"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/ddl"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// VersionLayout formats the migration version from the config clock.
const VersionLayout = "20060102150405"

type migration struct{}

func (migration) Kind() gen.Kind { return gen.KindMigration }

// Generate renders the CREATE TABLE migration. The file name embeds the
// table, so a batch run sharing one clock never collides.
func (migration) Generate(n gen.Naming, fields []*field.Spec, _ []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	name := MigrationName(n)
	file := path.Join(cfg.Dir(gen.KindMigration), fmt.Sprintf("%s_%s.sql", cfg.Now.Format(VersionLayout), name))
	t, err := ddl.Build(n.Table, fields, cfg.DDL())
	if err != nil {
		return nil, gen.NewGenerationError(gen.KindMigration, n.Name, file, "build table", err)
	}
	content, err := t.File(name, cfg.MigrationFormat)
	if err != nil {
		return nil, gen.NewGenerationError(gen.KindMigration, n.Name, file, "format migration", err)
	}
	return &gen.Artifact{Kind: gen.KindMigration, Path: file, Content: content}, nil
}

// MigrationName returns the migration name of the entity table:
// create_blog_posts_table.
func MigrationName(n gen.Naming) string {
	return "create_" + n.Table + "_table"
}
