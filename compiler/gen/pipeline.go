package gen

import (
	"context"
	"errors"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/crudgen/internal/logging"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// Entity is the input of one entity in a batch.
type Entity struct {
	Name      string
	Fields    []*field.Spec
	Relations []edge.Hint
}

// Pipeline runs a set of generators over entities.
type Pipeline struct {
	generators []Generator
	workers    int
}

// NewPipeline creates a pipeline running the given generators in order.
func NewPipeline(generators ...Generator) *Pipeline {
	return &Pipeline{
		generators: generators,
		workers:    runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of entities rendered in parallel by RunBatch.
func (p *Pipeline) WithWorkers(n int) *Pipeline {
	if n > 0 {
		p.workers = n
	}
	return p
}

// Generators returns the generators of the pipeline.
func (p *Pipeline) Generators() []Generator {
	return p.generators
}

// RunSpec parses a field spec string and runs the pipeline.
func (p *Pipeline) RunSpec(name, spec string, rels []edge.Hint, cfg Config) ([]*Artifact, error) {
	return p.Run(name, field.Parse(spec), rels, cfg)
}

// Run renders every non-skipped artifact of one entity. The naming is
// derived once and the relations are the field derived hints merged with
// the configured and the given ones.
func (p *Pipeline) Run(name string, fields []*field.Spec, rels []edge.Hint, cfg Config) ([]*Artifact, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("", "", name, "entity name cannot be empty", nil)
	}
	n := DeriveNaming(name)
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			return nil, NewValidationError(n.Name, f.Name, nil, "", err)
		}
	}
	rels = edge.Merge(edge.FromFields(fields), cfg.Relations, rels)

	var out []*Artifact
	for _, g := range p.generators {
		k := g.Kind()
		if cfg.Skipped(k) {
			logging.Debug("artifact skipped by config", zap.String("entity", n.Name), zap.String("kind", string(k)))
			continue
		}
		a, err := g.Generate(n, fields, rels, cfg)
		if err != nil {
			if !errors.Is(err, ErrGenerationFailed) {
				err = NewGenerationError(k, n.Name, "", "", err)
			}
			return nil, err
		}
		logging.Debug("artifact rendered",
			zap.String("entity", n.Name),
			zap.String("kind", string(k)),
			zap.String("path", a.Path),
			zap.Int("bytes", len(a.Content)),
		)
		out = append(out, a)
	}
	return out, nil
}

// RunBatch renders the entities in parallel and returns their artifacts in
// entity order. Callers extract every script and infer pivots before
// calling it.
func (p *Pipeline) RunBatch(ctx context.Context, entities []Entity, cfg Config) ([]*Artifact, error) {
	results := make([][]*Artifact, len(entities))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for i, e := range entities {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			arts, err := p.Run(e.Name, e.Fields, e.Relations, cfg)
			if err != nil {
				return err
			}
			results[i] = arts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	var out []*Artifact
	for _, arts := range results {
		out = append(out, arts...)
	}
	return out, nil
}
