package gen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// Artifact is one rendered output of a generator.
type Artifact struct {
	Kind Kind
	// Path is relative to the target project root.
	Path    string
	Content []byte
	// Append marks a block appended to an existing file instead of a
	// whole file.
	Append bool
	// Marker identifies an appended block. The block is not appended again
	// when the file already contains it.
	Marker string
}

// Generator renders one artifact kind. Generators do no I/O.
type Generator interface {
	// Kind returns the artifact kind the generator renders.
	Kind() Kind
	// Generate renders the artifact of one entity.
	Generate(n Naming, fields []*field.Spec, rels []edge.Hint, cfg Config) (*Artifact, error)
}

// NewFile creates a jennifer file in the package of the kind, with the
// configured header.
func NewFile(k Kind, cfg Config) *jen.File {
	f := jen.NewFilePathName(cfg.ImportPath(k), cfg.Package(k))
	f.ImportNames(map[string]string{
		PkgGorm:      "gorm",
		PkgDatatypes: "datatypes",
		PkgUUID:      "uuid",
		PkgValidator: "validator",
		PkgFaker:     "gofakeit",
	})
	for _, kind := range Kinds() {
		if cfg.ImportPath(kind) != cfg.ImportPath(k) {
			f.ImportName(cfg.ImportPath(kind), cfg.Package(kind))
		}
	}
	if cfg.Header != "" {
		f.HeaderComment(cfg.Header)
	}
	return f
}

// RenderFile renders a jennifer file.
func RenderFile(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatSource formats template output. Imports are expected to be
// complete; only grouping and layout change.
func FormatSource(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	return out, nil
}
