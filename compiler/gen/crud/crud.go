// Package crud holds the artifact generators of a CRUD resource.
//
// Files with a fixed shape (the controller, service, repository, factory,
// seeder and policy) are text templates embedded from templates/. Files
// whose shape follows the fields (the model, requests and resource) and the
// appended route block are built with jennifer. Every generator reads the
// same naming and the same rule tables from package gen, so names, tags and
// JSON keys agree across artifacts.
package crud

import "github.com/syssam/crudgen/compiler/gen"

// All returns the generators of every artifact kind in generation order.
// The service strategy follows cfg.UseRepository.
func All(cfg gen.Config) []gen.Generator {
	return []gen.Generator{
		entity{},
		migration{},
		controller{},
		NewService(cfg),
		repository{},
		request{mode: gen.Store},
		request{mode: gen.Update},
		resource{},
		factory{},
		seeder{},
		policy{},
		routes{},
	}
}

// NewPipeline returns a pipeline running All(cfg).
func NewPipeline(cfg gen.Config) *gen.Pipeline {
	return gen.NewPipeline(All(cfg)...)
}
