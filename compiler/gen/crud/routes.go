package crud

import (
	"bytes"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// routes renders the block appended to the routes file of the target. The
// routes file owns a registrars slice and imports net/http, gorm and the
// controllers package (html/template too for the web flavor):
//
//	var registrars []func(mux *http.ServeMux, db *gorm.DB)
//
// Each appended block registers one controller from an init function.
type routes struct{}

func (routes) Kind() gen.Kind { return gen.KindRoutes }

func (routes) Generate(n gen.Naming, _ []*field.Spec, _ []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	f := gen.NewFile(gen.KindRoutes, cfg)
	f.ImportName("net/http", "http")
	f.ImportName("html/template", "template")

	prefix := "/" + n.Table
	params := []jen.Code{
		jen.Id("mux").Op("*").Qual("net/http", "ServeMux"),
		jen.Id("db").Op("*").Qual(gen.PkgGorm, "DB"),
	}
	args := []jen.Code{jen.Id("db")}
	if cfg.Web {
		params = append(params, jen.Id("views").Op("*").Qual("html/template", "Template"))
		args = append(args, jen.Id("views"))
	}
	block := jen.Commentf("%s routes", n.Name).Line().
		Func().Id("init").Params().Block(
		jen.Id("registrars").Op("=").Append(
			jen.Id("registrars"),
			jen.Func().Params(params...).Block(
				jen.Qual(cfg.ImportPath(gen.KindController), "New"+n.Name+"Controller").Call(args...).
					Dot("Routes").Call(jen.Id("mux"), jen.Lit(prefix)),
			),
		),
	)

	var buf bytes.Buffer
	buf.WriteString("\n")
	p := cfg.RoutesFile()
	if err := block.RenderWithFile(&buf, f); err != nil {
		return nil, gen.NewGenerationError(gen.KindRoutes, n.Name, p, "render", err)
	}
	buf.WriteString("\n")
	return &gen.Artifact{
		Kind:    gen.KindRoutes,
		Path:    p,
		Content: buf.Bytes(),
		Append:  true,
		Marker:  RouteMarker(n),
	}, nil
}

// RouteMarker returns the text whose presence in the routes file means the
// entity is registered: its quoted route prefix.
func RouteMarker(n gen.Naming) string {
	return strconv.Quote("/" + n.Table)
}
