package crud

import (
	"path"
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
)

// RegistryFile is the policy registry written next to the policies.
const RegistryFile = "registry.go"

// Registry renders the map from entity name to policy for the entities that
// have one. The file is rewritten from scratch on every run.
func Registry(entities []string, cfg gen.Config) (*gen.Artifact, error) {
	names := slices.Clone(entities)
	slices.Sort(names)
	names = slices.Compact(names)

	f := gen.NewFile(gen.KindPolicy, cfg)
	f.Comment("Registry maps entity names to their policy.")
	f.Var().Id("Registry").Op("=").Map(jen.String()).Id("any").Values(jen.DictFunc(func(dict jen.Dict) {
		for _, name := range names {
			dict[jen.Lit(name)] = jen.Id(name + "Policy").Values()
		}
	}))
	f.Comment("For returns the policy of an entity, or nil.")
	f.Func().Id("For").Params(jen.Id("entity").String()).Id("any").Block(
		jen.Return(jen.Id("Registry").Index(jen.Id("entity"))),
	)

	p := path.Join(cfg.Dir(gen.KindPolicy), RegistryFile)
	content, err := gen.RenderFile(f)
	if err != nil {
		return nil, gen.NewGenerationError(gen.KindPolicy, "", p, "render registry", err)
	}
	return &gen.Artifact{Kind: gen.KindPolicy, Path: p, Content: content}, nil
}
