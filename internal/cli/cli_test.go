package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen"
)

// project creates a target project with a go.mod and an empty routes file.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/blog\n\ngo 1.24\n")
	writeFile(t, dir, "internal/routes/api.go", "package routes\n")
	return dir
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--dir", dir, "--log-dir", t.TempDir()))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	dir := project(t)

	out, err := execute(t, dir, "generate", "Post", "--fields", "title:string:unique, body:text:nullable")
	require.NoError(t, err, out)
	for _, p := range []string{
		"internal/models/post.go",
		"internal/http/controllers/post_controller.go",
		"internal/services/post_service.go",
		"internal/repositories/post_repository.go",
		"internal/http/requests/store_post_request.go",
		"internal/http/requests/update_post_request.go",
		"internal/http/resources/post_resource.go",
		"database/factories/post_factory.go",
		"database/seeders/post_seeder.go",
		"internal/policies/post_policy.go",
	} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(p)))
	}
	migrations, err := filepath.Glob(filepath.Join(dir, "db", "migrations", "*_create_posts_table.sql"))
	require.NoError(t, err)
	assert.Len(t, migrations, 1)
	assert.Contains(t, out, "written")
	assert.Contains(t, out, "appended")
	assert.Contains(t, readFile(t, dir, "internal/models/post.go"), "package models")

	out, err = execute(t, dir, "generate", "Post", "--fields", "title:string:unique")
	require.NoError(t, err, "skipped artifacts are not an error")
	assert.Contains(t, out, "skipped")
	assert.Equal(t, 1, strings.Count(readFile(t, dir, "internal/routes/api.go"), `"/posts"`))
}

func TestGenerateForceOverwrites(t *testing.T) {
	dir := project(t)
	_, err := execute(t, dir, "generate", "Post", "--fields", "title")
	require.NoError(t, err)

	_, err = execute(t, dir, "generate", "Post", "--fields", "title, summary:text", "--force")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, dir, "internal/models/post.go"), "Summary")
}

func TestGenerateSkipFlags(t *testing.T) {
	dir := project(t)
	out, err := execute(t, dir, "generate", "Tag", "--fields", "name",
		"--no-migration", "--no-requests", "--no-routes", "--no-repository")
	require.NoError(t, err, out)

	assert.NoDirExists(t, filepath.Join(dir, "db", "migrations"))
	assert.NoDirExists(t, filepath.Join(dir, "internal", "http", "requests"))
	assert.NoDirExists(t, filepath.Join(dir, "internal", "repositories"))
	assert.Equal(t, "package routes\n", readFile(t, dir, "internal/routes/api.go"))
	assert.FileExists(t, filepath.Join(dir, "internal", "services", "tag_service.go"))
}

func TestGenerateDryRun(t *testing.T) {
	dir := project(t)
	out, err := execute(t, dir, "generate", "Post", "--fields", "title", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")
	assert.NoDirExists(t, filepath.Join(dir, "internal", "models"))
	assert.Equal(t, "package routes\n", readFile(t, dir, "internal/routes/api.go"))
}

func TestGenerateMissingRoutesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/blog\n")
	out, err := execute(t, dir, "generate", "Post", "--fields", "title")
	require.NoError(t, err)
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "routes file not found")
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad dialect", []string{"generate", "Post", "--fields", "title", "--dialect", "oracle"}},
		{"bad pagination", []string{"generate", "Post", "--fields", "title", "--pagination", "-1"}},
		{"missing name", []string{"generate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, project(t), tt.args...)
			require.Error(t, err)
		})
	}
}

func TestGenerateWeb(t *testing.T) {
	dir := project(t)
	writeFile(t, dir, "internal/routes/web.go", "package routes\n")
	_, err := execute(t, dir, "generate", "Post", "--fields", "title", "--web")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, dir, "internal/routes/web.go"), "NewPostController(db, views)")
	assert.Equal(t, "package routes\n", readFile(t, dir, "internal/routes/api.go"))
}

func schemaProject(t *testing.T) string {
	t.Helper()
	dir := project(t)
	writeFile(t, dir, "db/schema/001_authors.sql", "CREATE TABLE authors (id bigserial PRIMARY KEY, name varchar(100) NOT NULL);")
	writeFile(t, dir, "db/schema/002_posts.sql",
		"CREATE TABLE posts (id bigserial PRIMARY KEY, title varchar(255) NOT NULL, author_id bigint NOT NULL REFERENCES authors(id));")
	writeFile(t, dir, "db/schema/003_tags.sql", "CREATE TABLE tags (id bigserial PRIMARY KEY, name varchar(50) NOT NULL UNIQUE);")
	writeFile(t, dir, "db/schema/004_post_tag.sql", "CREATE TABLE post_tag (post_id bigint NOT NULL, tag_id bigint NOT NULL);")
	return dir
}

func TestFromSchema(t *testing.T) {
	dir := schemaProject(t)
	out, err := execute(t, dir, "from-schema", "--path", "db/schema")
	require.NoError(t, err, out)

	for _, p := range []string{"author", "post", "tag"} {
		assert.FileExists(t, filepath.Join(dir, "internal", "models", p+".go"))
	}
	assert.NoFileExists(t, filepath.Join(dir, "internal", "models", "post_tag.go"))
	assert.NoDirExists(t, filepath.Join(dir, "db", "migrations"), "migrations are not generated from scripts")

	post := readFile(t, dir, "internal/models/post.go")
	assert.Contains(t, post, "many2many:post_tag")
	assert.Contains(t, post, "AuthorID")
	assert.Contains(t, readFile(t, dir, "internal/models/tag.go"), "many2many:post_tag")
}

func TestFromSchemaErrors(t *testing.T) {
	dir := project(t)
	_, err := execute(t, dir, "from-schema", "--path", "missing")
	require.ErrorIs(t, err, crudgen.ErrSchemaDirMissing)

	writeFile(t, dir, "db/empty/README.md", "no scripts")
	_, err = execute(t, dir, "from-schema", "--path", "db/empty")
	require.ErrorIs(t, err, crudgen.ErrNoSchemaScripts)
}

func TestInspect(t *testing.T) {
	dir := schemaProject(t)
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "fields",
			args: []string{"inspect", "--fields", "title:string:unique, author_id:foreignId"},
			want: []string{"title", "string", "author_id", "foreignId", "authors"},
		},
		{
			name: "fields dump",
			args: []string{"inspect", "--fields", "title", "--dump"},
			want: []string{"field.Spec", `"title"`},
		},
		{
			name: "scripts",
			args: []string{"inspect", "--path", "db/schema"},
			want: []string{"posts (Post)", "post_tag (PostTag) pivot", "author_id"},
		},
		{
			name: "no fields",
			args: []string{"inspect", "--fields", ","},
			want: []string{"no fields"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, dir, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}

	_, err := execute(t, dir, "inspect")
	require.Error(t, err)
}

func TestPolicies(t *testing.T) {
	dir := project(t)
	_, err := execute(t, dir, "generate", "Post", "--fields", "title")
	require.NoError(t, err)
	_, err = execute(t, dir, "generate", "Tag", "--fields", "name")
	require.NoError(t, err)
	writeFile(t, dir, "internal/policies/orphan_policy.go", "package policies\n\ntype OrphanPolicy struct{}\n")

	out, err := execute(t, dir, "policies")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 policies registered")

	registry := readFile(t, dir, "internal/policies/registry.go")
	assert.Contains(t, registry, `"Post":`)
	assert.Contains(t, registry, `"Tag":`)
	assert.NotContains(t, registry, "Orphan")
}

func TestScanTypes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package p\n\ntype PostPolicy struct{}\n\ntype TagPolicy struct{}\n")
	writeFile(t, dir, "a_test.go", "package p\n\ntype FakePolicy struct{}\n")
	writeFile(t, dir, "notes.txt", "type NotePolicy struct{}\n")

	names, err := scanTypes(dir, policyType)
	require.NoError(t, err)
	assert.Equal(t, []string{"Post", "Tag"}, names)

	names, err = scanTypes(filepath.Join(dir, "missing"), policyType)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, dir, func() error {
			runs.Add(1)
			return nil
		})
	}()

	// The watcher may not be registered yet; keep touching the script.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "001_posts.sql"), []byte("CREATE TABLE posts (title text);"), 0o644)
		_ = os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644)
		return runs.Load() > 0
	}, 5*time.Second, 400*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
