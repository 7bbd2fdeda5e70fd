package crud

import (
	"fmt"
	"path"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/ddl"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

type entity struct{}

func (entity) Kind() gen.Kind { return gen.KindEntity }

// Generate renders the gorm model. Relation fields carry the same JSON keys
// the resource uses.
func (entity) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	f := gen.NewFile(gen.KindEntity, cfg)

	f.Commentf("%s is a row of the %s table.", n.Name, n.Table)
	f.Type().Id(n.Name).StructFunc(func(group *jen.Group) {
		idTag := "primaryKey"
		if cfg.UUID {
			idTag += ";size:36"
		}
		group.Id("ID").Add(gen.IDType(cfg).Code()).Tag(map[string]string{"gorm": idTag, "json": "id"})
		for _, c := range d.Columns {
			group.Id(c.GoName).Add(c.Type.Ptr(c.Nullable)).Tag(map[string]string{
				"gorm": gormTag(c, n.Table),
				"json": c.Column,
			})
		}
		if cfg.Timestamps {
			group.Id("CreatedAt").Qual(gen.PkgTime, "Time").Tag(map[string]string{"json": ddl.ColumnCreatedAt})
			group.Id("UpdatedAt").Qual(gen.PkgTime, "Time").Tag(map[string]string{"json": ddl.ColumnUpdatedAt})
		}
		if cfg.SoftDeletes {
			group.Id("DeletedAt").Qual(gen.PkgGorm, "DeletedAt").Tag(map[string]string{
				"gorm": "index",
				"json": ddl.ColumnDeletedAt + ",omitempty",
			})
		}
		for _, r := range d.Relations {
			if r.Many {
				group.Id(r.GoName).Index().Id(r.Related).Tag(map[string]string{
					"gorm": "many2many:" + r.Hint.Through,
					"json": r.Key + ",omitempty",
				})
				continue
			}
			group.Id(r.GoName).Op("*").Id(r.Related).Tag(map[string]string{
				"gorm": "foreignKey:" + r.ForeignKey,
				"json": r.Key + ",omitempty",
			})
		}
	})

	f.Comment("TableName returns the table of the model.")
	f.Func().Params(jen.Id(n.Name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(n.Table)),
	)

	f.Commentf("%sFillable are the columns a request may set.", n.Name)
	f.Var().Id(n.Name + "Fillable").Op("=").Index().String().ValuesFunc(func(group *jen.Group) {
		for _, c := range d.Columns {
			group.Lit(c.Column)
		}
	})

	f.Commentf("%sRelations are preloaded when a single %s is read.", n.Name, strings.ToLower(n.Label))
	f.Var().Id(n.Name + "Relations").Op("=").Index().String().ValuesFunc(func(group *jen.Group) {
		for _, name := range d.RelationNames() {
			group.Lit(name)
		}
	})

	f.Commentf("%sCasts maps columns to the runtime type their stored value converts to.", n.Name)
	f.Var().Id(n.Name + "Casts").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(dict jen.Dict) {
		for _, c := range d.Columns {
			if cast := c.Spec.Type.Cast(); cast != field.CastNone {
				dict[jen.Lit(c.Column)] = jen.Lit(string(cast))
			}
		}
	}))

	if cfg.UUID {
		recv := jen.Id(n.Receiver)
		f.Comment("BeforeCreate assigns a random UUID to a new record without an id.")
		f.Func().Params(recv.Clone().Op("*").Id(n.Name)).Id("BeforeCreate").Params(
			jen.Id("tx").Op("*").Qual(gen.PkgGorm, "DB"),
		).Error().Block(
			jen.If(recv.Clone().Dot("ID").Op("==").Lit("")).Block(
				recv.Clone().Dot("ID").Op("=").Qual(gen.PkgUUID, "NewString").Call(),
			),
			jen.Return(jen.Nil()),
		)
	}

	return jenArtifact(gen.KindEntity, n, f, n.FileName(".go"), cfg)
}

// gormTag returns the gorm struct tag of a column. Index names match the
// ones of the migration.
func gormTag(c column, table string) string {
	s := c.Spec
	parts := []string{"column:" + c.Column}
	switch ddl.KindOf(s, false) {
	case ddl.KindString, ddl.KindChar:
		n := ddl.DefaultLength
		if s.Length != nil && *s.Length > 0 {
			n = *s.Length
		}
		parts = append(parts, fmt.Sprintf("size:%d", n))
	}
	if !s.Nullable {
		parts = append(parts, "not null")
	}
	switch {
	case s.Unique:
		parts = append(parts, "uniqueIndex:"+table+"_"+c.Column+"_unique")
	case s.Index:
		parts = append(parts, "index:"+table+"_"+c.Column+"_index")
	}
	if s.Default != nil && !strings.EqualFold(*s.Default, "null") {
		parts = append(parts, "default:"+*s.Default)
	}
	return strings.Join(parts, ";")
}

// jenArtifact renders a jennifer file of kind k.
func jenArtifact(k gen.Kind, n gen.Naming, f *jen.File, file string, cfg gen.Config) (*gen.Artifact, error) {
	p := path.Join(cfg.Dir(k), file)
	content, err := gen.RenderFile(f)
	if err != nil {
		return nil, gen.NewGenerationError(k, n.Name, p, "render", err)
	}
	return &gen.Artifact{Kind: k, Path: p, Content: content}, nil
}
