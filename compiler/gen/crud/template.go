package crud

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/syssam/crudgen/compiler/gen"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// templates is parsed once. Executing a parsed template is safe for
// parallel use by batch workers.
var templates = template.Must(template.New("crud").Funcs(TemplateFuncs()).ParseFS(templateFS, "templates/*.tmpl"))

// TemplateFuncs returns the helpers available to the crud templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower": strings.ToLower,
		"quote": strconv.Quote,
		"join":  strings.Join,
		"quoteAll": func(ss []string) string {
			q := make([]string, len(ss))
			for i, s := range ss {
				q[i] = strconv.Quote(s)
			}
			return strings.Join(q, ", ")
		},
	}
}

// render executes the named template with d and formats the result as the
// Go file filename.
func render(name, filename string, d *data) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, d); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return gen.FormatSource(filename, buf.Bytes())
}

// importSet collects the imports of a template rendered file. Templates
// are formatted without import resolution, so the set must be exact.
type importSet map[string]bool

func (s importSet) add(paths ...string) importSet {
	for _, p := range paths {
		if p != "" {
			s[p] = true
		}
	}
	return s
}

// block renders the import declaration: standard library, third party and
// module local groups.
func (s importSet) block(module string) string {
	var std, ext, local []string
	for p := range s {
		switch {
		case module != "" && (p == module || strings.HasPrefix(p, module+"/")):
			local = append(local, p)
		case !strings.Contains(strings.Split(p, "/")[0], "."):
			std = append(std, p)
		default:
			ext = append(ext, p)
		}
	}
	var b strings.Builder
	b.WriteString("import (\n")
	for i, group := range [][]string{std, ext, local} {
		if len(group) == 0 {
			continue
		}
		if i > 0 && b.Len() > len("import (\n") {
			b.WriteString("\n")
		}
		slices.Sort(group)
		for _, p := range group {
			fmt.Fprintf(&b, "\t%q\n", p)
		}
	}
	b.WriteString(")")
	return b.String()
}

// templateArtifact renders a whole file of kind k for the entity.
func templateArtifact(k gen.Kind, name, file string, d *data, imports importSet, cfg gen.Config) (*gen.Artifact, error) {
	d.Package = cfg.Package(k)
	d.Q = newQualifiers(k, cfg)
	delete(imports, cfg.ImportPath(k))
	d.Imports = imports.block(cfg.Module)
	p := path.Join(cfg.Dir(k), file)
	content, err := render(name, p, d)
	if err != nil {
		return nil, gen.NewGenerationError(k, d.Name, p, "render", err)
	}
	return &gen.Artifact{Kind: k, Path: p, Content: content}, nil
}
