package crud

import (
	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// queryImports are used by the shared query and search partials.
var queryImports = []string{"context", "errors", "fmt", "slices", "strconv", "strings", gen.PkgGorm}

type controller struct{}

func (controller) Kind() gen.Kind { return gen.KindController }

func (controller) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	imports := importSet{}.add(
		"errors", "net/http", gen.PkgGorm, gen.PkgValidator,
		cfg.ImportPath(gen.KindEntity),
		cfg.ImportPath(gen.KindService),
		cfg.ImportPath(gen.KindStoreRequest),
		cfg.ImportPath(gen.KindUpdateRequest),
		cfg.ImportPath(gen.KindResource),
	)
	name := "controller_api"
	if cfg.Web {
		name = "controller_web"
		imports.add("bytes", "fmt", "html/template")
		if d.HasRaw() {
			imports.add(gen.PkgJSON)
		}
		if !cfg.UUID || d.HasParsed() {
			imports.add("strconv")
		}
	} else {
		imports.add(gen.PkgJSON)
		if !cfg.UUID {
			imports.add("strconv")
		}
	}
	return templateArtifact(gen.KindController, name, n.FileName("_controller.go"), d, imports, cfg)
}

type repository struct{}

func (repository) Kind() gen.Kind { return gen.KindRepository }

func (repository) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	d.Owner, d.Recv = n.Name+"Repository", "r"
	imports := importSet{}.add(queryImports...).add(cfg.ImportPath(gen.KindEntity))
	return templateArtifact(gen.KindRepository, "repository", n.FileName("_repository.go"), d, imports, cfg)
}

// repoService delegates to the generated repository.
type repoService struct{}

func (repoService) Kind() gen.Kind { return gen.KindService }

func (repoService) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	imports := importSet{}.add("context", gen.PkgGorm, cfg.ImportPath(gen.KindEntity), cfg.ImportPath(gen.KindRepository))
	return templateArtifact(gen.KindService, "service_repository", n.FileName("_service.go"), d, imports, cfg)
}

// inlineService queries the database itself with the same partials as the
// repository.
type inlineService struct{}

func (inlineService) Kind() gen.Kind { return gen.KindService }

func (inlineService) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	d.Owner, d.Recv = n.Name+"Service", "s"
	imports := importSet{}.add(queryImports...).add(cfg.ImportPath(gen.KindEntity))
	return templateArtifact(gen.KindService, "service_inline", n.FileName("_service.go"), d, imports, cfg)
}

// NewService returns the service generator of the configured strategy.
func NewService(cfg gen.Config) gen.Generator {
	if cfg.UseRepository {
		return repoService{}
	}
	return inlineService{}
}

type factory struct{}

func (factory) Kind() gen.Kind { return gen.KindFactory }

func (factory) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	imports := importSet{}.add("fmt", gen.PkgGorm, cfg.ImportPath(gen.KindEntity))
	for _, c := range d.Columns {
		imports.add(c.Sample.Imports...)
	}
	return templateArtifact(gen.KindFactory, "factory", n.FileName("_factory.go"), d, imports, cfg)
}

type seeder struct{}

func (seeder) Kind() gen.Kind { return gen.KindSeeder }

func (seeder) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	imports := importSet{}.add("context", "fmt", gen.PkgGorm, cfg.ImportPath(gen.KindFactory))
	return templateArtifact(gen.KindSeeder, "seeder", n.FileName("_seeder.go"), d, imports, cfg)
}

type policy struct{}

func (policy) Kind() gen.Kind { return gen.KindPolicy }

func (policy) Generate(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) (*gen.Artifact, error) {
	d := newData(n, fields, rels, cfg)
	imports := importSet{}.add("context", cfg.ImportPath(gen.KindEntity))
	return templateArtifact(gen.KindPolicy, "policy", n.FileName("_policy.go"), d, imports, cfg)
}
