package gen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// recorder renders the inputs it receives.
type recorder struct {
	kind  Kind
	calls atomic.Int32
	err   error
}

func (r *recorder) Kind() Kind { return r.kind }

func (r *recorder) Generate(n Naming, fields []*field.Spec, rels []edge.Hint, cfg Config) (*Artifact, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", n.Name, n.Table)
	for _, h := range rels {
		fmt.Fprintf(&b, " %s:%s", h.Type, h.Related)
	}
	return &Artifact{Kind: r.kind, Path: cfg.Dir(r.kind) + "/" + n.Snake + ".go", Content: []byte(b.String())}, nil
}

func testConfig(t *testing.T, opts ...Option) Config {
	t.Helper()
	cfg, err := NewConfig(append([]Option{WithModule("example.com/blog")}, opts...)...)
	require.NoError(t, err)
	return cfg
}

func TestPipelineRun(t *testing.T) {
	entity := &recorder{kind: KindEntity}
	service := &recorder{kind: KindService}
	p := NewPipeline(entity, service)

	arts, err := p.RunSpec("blog_posts", "title, author_id:foreignId", nil, testConfig(t))
	require.NoError(t, err)
	require.Len(t, arts, 2)
	assert.Equal(t, "internal/models/blog_post.go", arts[0].Path)
	assert.Equal(t, "BlogPost blog_posts belongsTo:Author", string(arts[0].Content))
	assert.Equal(t, string(arts[0].Content), string(arts[1].Content))
}

func TestPipelineRunMergesRelations(t *testing.T) {
	p := NewPipeline(&recorder{kind: KindEntity})
	cfg := testConfig(t, WithRelations(edge.Hint{Type: edge.BelongsToMany, Related: "Tag", Through: "post_tag"}))
	explicit := []edge.Hint{
		{Type: edge.BelongsToMany, Related: "Tag", Through: "post_tag"},
		{Type: edge.BelongsToMany, Related: "Category", Through: "category_post"},
	}

	arts, err := p.Run("Post", field.Parse("author_id"), explicit, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Post posts belongsTo:Author belongsToMany:Tag belongsToMany:Category", string(arts[0].Content))
}

func TestPipelineRunSkips(t *testing.T) {
	entity := &recorder{kind: KindEntity}
	repo := &recorder{kind: KindRepository}
	routes := &recorder{kind: KindRoutes}
	p := NewPipeline(entity, repo, routes)

	arts, err := p.RunSpec("Post", "title", nil, testConfig(t, WithRepository(false), WithSkip(KindRoutes)))
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, KindEntity, arts[0].Kind)
	assert.Zero(t, repo.calls.Load())
	assert.Zero(t, routes.calls.Load())
}

func TestPipelineRunErrors(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := NewPipeline().RunSpec(" ", "title", nil, testConfig(t))
		require.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("invalid field", func(t *testing.T) {
		_, err := NewPipeline(&recorder{kind: KindEntity}).Run("Post", []*field.Spec{{Name: "title"}}, nil, testConfig(t))
		require.ErrorIs(t, err, ErrValidationFailed)
		require.ErrorIs(t, err, crudgen.ErrInvalidField)
	})

	t.Run("generator failure", func(t *testing.T) {
		cause := errors.New("boom")
		_, err := NewPipeline(&recorder{kind: KindFactory, err: cause}).RunSpec("Post", "title", nil, testConfig(t))
		require.ErrorIs(t, err, ErrGenerationFailed)
		require.ErrorIs(t, err, cause)
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, KindFactory, genErr.Kind)
		assert.Equal(t, "Post", genErr.Entity)
	})
}

func TestPipelineRunBatch(t *testing.T) {
	rec := &recorder{kind: KindEntity}
	p := NewPipeline(rec).WithWorkers(4)
	entities := []Entity{
		{Name: "Post", Fields: field.Parse("title")},
		{Name: "Tag", Fields: field.Parse("name"), Relations: []edge.Hint{{Type: edge.BelongsToMany, Related: "Post", Through: "post_tag"}}},
		{Name: "Comment", Fields: field.Parse("post_id")},
	}

	arts, err := p.RunBatch(context.Background(), entities, testConfig(t))
	require.NoError(t, err)
	require.Len(t, arts, 3)
	assert.Equal(t, "Post posts", string(arts[0].Content))
	assert.Equal(t, "Tag tags belongsToMany:Post", string(arts[1].Content))
	assert.Equal(t, "Comment comments belongsTo:Post", string(arts[2].Content))
	assert.EqualValues(t, 3, rec.calls.Load())
}

func TestPipelineRunBatchError(t *testing.T) {
	p := NewPipeline(&recorder{kind: KindEntity, err: errors.New("boom")})
	_, err := p.RunBatch(context.Background(), []Entity{{Name: "Post"}, {Name: "Tag"}}, testConfig(t))
	require.ErrorIs(t, err, ErrGenerationFailed)
}
