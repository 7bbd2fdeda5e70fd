package crud

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// request renders the validated payload of the create or the update
// endpoint. Both variants have the same fields so that one converts to the
// other.
type request struct {
	mode gen.Mode
}

func (r request) Kind() gen.Kind {
	if r.mode == gen.Update {
		return gen.KindUpdateRequest
	}
	return gen.KindStoreRequest
}

func (r request) prefix() string {
	if r.mode == gen.Update {
		return "Update"
	}
	return "Store"
}

func (r request) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	k := r.Kind()
	f := gen.NewFile(k, cfg)
	name := r.prefix() + n.Name + "Request"
	model := jen.Qual(cfg.ImportPath(gen.KindEntity), n.Name)

	rules := make([]gen.Rules, len(d.Columns))
	if r.mode == gen.Update {
		f.Commentf("%s is the payload updating a %s. Absent fields are left unchanged.", name, strings.ToLower(n.Label))
	} else {
		f.Commentf("%s is the payload creating a %s.", name, strings.ToLower(n.Label))
	}
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for i, c := range d.Columns {
			rules[i] = gen.Validation(c.Spec, r.mode, cfg)
			group.Id(c.GoName).Add(c.Request.Ptr(c.RequestPtr)).Tag(map[string]string{
				"json":     c.Column + ",omitempty",
				"validate": rules[i].Tag(),
			})
		}
	})

	params := []jen.Code{
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("db").Op("*").Qual(gen.PkgGorm, "DB"),
		jen.Id("v").Op("*").Qual(gen.PkgValidator, "Validate"),
	}
	if r.mode == gen.Update {
		params = append(params, jen.Id("id").Add(gen.IDType(cfg).Code()))
		f.Comment("Validate checks the tags of the fields, then that unique values are not")
		f.Comment("used by another record and that referenced records exist.")
	} else {
		f.Comment("Validate checks the tags of the fields, then that unique values are")
		f.Comment("unused and that referenced records exist.")
	}
	f.Func().Params(jen.Id("r").Op("*").Id(name)).Id("Validate").Params(params...).Error().BlockFunc(func(body *jen.Group) {
		body.If(jen.Err().Op(":=").Id("v").Dot("StructCtx").Call(jen.Id("ctx"), jen.Id("r")), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Err()),
		)
		for i, c := range d.Columns {
			rule := rules[i]
			if !rule.Unique && rule.Exists == "" {
				continue
			}
			value := jen.Id("r").Dot(c.GoName)
			present := value.Clone().Op("!=").Nil()
			if c.RequestPtr {
				value = jen.Op("*").Add(value)
			}
			if rule.Unique {
				where := []jen.Code{jen.Lit(c.Column + " = ?"), value.Clone()}
				if r.mode == gen.Update {
					where = []jen.Code{jen.Lit(c.Column + " = ? AND id <> ?"), value.Clone(), jen.Id("id")}
				}
				body.If(present.Clone()).Block(
					countQuery(jen.Id("db").Dot("WithContext").Call(jen.Id("ctx")).Dot("Model").Call(jen.Op("&").Add(model.Clone()).Values()), where),
					jen.If(jen.Id("n").Op(">").Lit(0)).Block(
						jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(c.Column+": has already been taken"))),
					),
				)
			}
			if rule.Exists != "" {
				where := []jen.Code{jen.Lit("id = ?"), value.Clone()}
				body.If(present.Clone()).Block(
					countQuery(jen.Id("db").Dot("WithContext").Call(jen.Id("ctx")).Dot("Table").Call(jen.Lit(rule.Exists)), where),
					jen.If(jen.Id("n").Op("==").Lit(0)).Block(
						jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(c.Column+": selected value does not exist"))),
					),
				)
			}
		}
		body.Return(jen.Nil())
	})

	f.Comment("Fill copies the present fields into m.")
	f.Func().Params(jen.Id("r").Op("*").Id(name)).Id("Fill").Params(
		jen.Id("m").Op("*").Add(model.Clone()),
	).Error().BlockFunc(func(body *jen.Group) {
		for _, c := range d.Columns {
			body.If(jen.Id("r").Dot(c.GoName).Op("!=").Nil()).BlockFunc(func(g *jen.Group) {
				fill(g, c)
			})
		}
		body.Return(jen.Nil())
	})

	file := n.FileName("_request.go")
	if r.mode == gen.Update {
		file = "update_" + file
	} else {
		file = "store_" + file
	}
	return jenArtifact(k, n, f, file, cfg)
}

// countQuery declares n and counts the rows of q matching where into it,
// returning the query error.
func countQuery(q *jen.Statement, where []jen.Code) jen.Code {
	return jen.Var().Id("n").Int64().Line().If(
		jen.Err().Op(":=").Add(q).Dot("Where").Call(where...).Dot("Count").Call(jen.Op("&").Id("n")).Dot("Error"),
		jen.Err().Op("!=").Nil(),
	).Block(jen.Return(jen.Err()))
}

// fill assigns the request field of c to the model.
func fill(g *jen.Group, c column) {
	src := jen.Id("r").Dot(c.GoName)
	dst := jen.Id("m").Dot(c.GoName)
	switch {
	case c.Type == gen.TypeTime:
		g.List(jen.Id("t"), jen.Err()).Op(":=").Qual(gen.PkgTime, "Parse").Call(jen.Lit(c.Layout), jen.Op("*").Add(src))
		g.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(c.Column+": %w"), jen.Err())),
		)
		if c.Nullable {
			g.Add(dst).Op("=").Op("&").Id("t")
		} else {
			g.Add(dst).Op("=").Id("t")
		}
	case c.Type == gen.TypeJSON:
		g.Add(dst).Op("=").Qual(gen.PkgDatatypes, "JSON").Call(src)
	case c.Nullable:
		g.Id("v").Op(":=").Op("*").Add(src)
		g.Add(dst).Op("=").Op("&").Id("v")
	default:
		g.Add(dst).Op("=").Op("*").Add(src)
	}
}
