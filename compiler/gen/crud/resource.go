package crud

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/ddl"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

type resource struct{}

func (resource) Kind() gen.Kind { return gen.KindResource }

// Generate renders the JSON representation of the entity. Times are
// formatted as RFC 3339, dates as 2006-01-02, and loaded relations nest the
// related resources under the model's JSON keys.
func (resource) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	f := gen.NewFile(gen.KindResource, cfg)
	name := n.Name + "Resource"
	model := jen.Qual(cfg.ImportPath(gen.KindEntity), n.Name)

	f.Commentf("%s is the JSON representation of a %s.", name, strings.ToLower(n.Label))
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		group.Id("ID").Add(gen.IDType(cfg).Code()).Tag(map[string]string{"json": "id"})
		for _, c := range d.Columns {
			t := c.Type.Code()
			if c.Type == gen.TypeTime {
				t = jen.String()
			}
			if c.Nullable {
				t = jen.Op("*").Add(t)
			}
			group.Id(c.GoName).Add(t).Tag(map[string]string{"json": c.Column})
		}
		if cfg.Timestamps {
			group.Id("CreatedAt").String().Tag(map[string]string{"json": ddl.ColumnCreatedAt})
			group.Id("UpdatedAt").String().Tag(map[string]string{"json": ddl.ColumnUpdatedAt})
		}
		if cfg.SoftDeletes {
			group.Id("DeletedAt").Op("*").String().Tag(map[string]string{"json": ddl.ColumnDeletedAt + ",omitempty"})
		}
		for _, r := range d.Relations {
			if r.Many {
				group.Id(r.GoName).Index().Id(r.Related + "Resource").Tag(map[string]string{"json": r.Key + ",omitempty"})
				continue
			}
			group.Id(r.GoName).Op("*").Id(r.Related + "Resource").Tag(map[string]string{"json": r.Key + ",omitempty"})
		}
	})

	f.Commentf("New%s converts a model.", name)
	f.Func().Id("New"+name).Params(jen.Id("m").Op("*").Add(model.Clone())).Id(name).BlockFunc(func(body *jen.Group) {
		body.Id("r").Op(":=").Id(name).Values(jen.DictFunc(func(dict jen.Dict) {
			dict[jen.Id("ID")] = jen.Id("m").Dot("ID")
			for _, c := range d.Columns {
				if c.Type != gen.TypeTime {
					dict[jen.Id(c.GoName)] = jen.Id("m").Dot(c.GoName)
				}
			}
		}))
		for _, c := range d.Columns {
			if c.Type != gen.TypeTime {
				continue
			}
			layout := jen.Qual(gen.PkgTime, "RFC3339")
			if c.Spec.Type == field.TypeDate {
				layout = jen.Lit(c.Layout)
			}
			if c.Nullable {
				body.If(jen.Id("m").Dot(c.GoName).Op("!=").Nil()).Block(
					jen.Id("s").Op(":=").Id("m").Dot(c.GoName).Dot("Format").Call(layout),
					jen.Id("r").Dot(c.GoName).Op("=").Op("&").Id("s"),
				)
				continue
			}
			body.Id("r").Dot(c.GoName).Op("=").Id("m").Dot(c.GoName).Dot("Format").Call(layout)
		}
		if cfg.Timestamps {
			for _, ts := range []string{"CreatedAt", "UpdatedAt"} {
				body.Id("r").Dot(ts).Op("=").Id("m").Dot(ts).Dot("Format").Call(jen.Qual(gen.PkgTime, "RFC3339"))
			}
		}
		if cfg.SoftDeletes {
			body.If(jen.Id("m").Dot("DeletedAt").Dot("Valid")).Block(
				jen.Id("s").Op(":=").Id("m").Dot("DeletedAt").Dot("Time").Dot("Format").Call(jen.Qual(gen.PkgTime, "RFC3339")),
				jen.Id("r").Dot("DeletedAt").Op("=").Op("&").Id("s"),
			)
		}
		for _, r := range d.Relations {
			if r.Many {
				body.If(jen.Len(jen.Id("m").Dot(r.GoName)).Op(">").Lit(0)).Block(
					jen.Id("r").Dot(r.GoName).Op("=").Id("New" + r.Related + "Collection").Call(jen.Id("m").Dot(r.GoName)),
				)
				continue
			}
			body.If(jen.Id("m").Dot(r.GoName).Op("!=").Nil()).Block(
				jen.Id("related").Op(":=").Id("New" + r.Related + "Resource").Call(jen.Id("m").Dot(r.GoName)),
				jen.Id("r").Dot(r.GoName).Op("=").Op("&").Id("related"),
			)
		}
		body.Return(jen.Id("r"))
	})

	f.Commentf("New%sCollection converts a list of models.", n.Name)
	f.Func().Id("New"+n.Name+"Collection").Params(jen.Id("ms").Index().Add(model.Clone())).Index().Id(name).Block(
		jen.Id("out").Op(":=").Make(jen.Index().Id(name), jen.Lit(0), jen.Len(jen.Id("ms"))),
		jen.For(jen.Id("i").Op(":=").Range().Id("ms")).Block(
			jen.Id("out").Op("=").Append(jen.Id("out"), jen.Id("New"+name).Call(jen.Op("&").Id("ms").Index(jen.Id("i")))),
		),
		jen.Return(jen.Id("out")),
	)

	return jenArtifact(gen.KindResource, n, f, n.FileName("_resource.go"), cfg)
}
