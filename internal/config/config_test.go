package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/schema/edge"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		f, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, &File{}, f)
	})

	t.Run("full file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, `
requires: ">= 0.3"
module: example.com/shop
paths:
  entity: pkg/models
uuid: true
repository: false
pagination: 25
dialect: mysql
migration_format: dbmate
relations:
  - type: belongsToMany
    related: Tag
    through: post_tag
`)
		f, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "example.com/shop", f.Module)
		assert.Equal(t, "pkg/models", f.Paths["entity"])
		require.NotNil(t, f.UUID)
		assert.True(t, *f.UUID)
		require.NotNil(t, f.Repository)
		assert.False(t, *f.Repository)
		assert.Nil(t, f.Web)
		assert.Equal(t, 25, f.Pagination)
		assert.Equal(t, []edge.Hint{{Type: edge.BelongsToMany, Related: "Tag", Through: "post_tag"}}, f.Relations)

		opts, err := f.Options()
		require.NoError(t, err)
		cfg, err := gen.NewConfig(opts...)
		require.NoError(t, err)
		assert.Equal(t, "pkg/models", cfg.Dir(gen.KindEntity))
		assert.True(t, cfg.UUID)
		assert.False(t, cfg.UseRepository)
		assert.True(t, cfg.Timestamps, "unset booleans keep the default")
		assert.Equal(t, "mysql", cfg.Dialect)
		assert.Equal(t, "dbmate", cfg.MigrationFormat)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, "paths: [")
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), FileName)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	web := true
	in := &File{Module: "example.com/blog", Web: &web, IgnoreTables: []string{"jobs"}}
	require.NoError(t, in.Save(dir))

	out, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestOptionsRejectsUnknownKind(t *testing.T) {
	f := &File{Module: "example.com/blog", Paths: map[string]string{"widgets": "internal/widgets"}}
	opts, err := f.Options()
	require.NoError(t, err)
	_, err = gen.NewConfig(opts...)
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		requires string
		wantErr  bool
	}{
		{"", false},
		{">= 0.1", false},
		{"~> 0.4", false},
		{">= 0.3, < 1.0", false},
		{">= 1.0", true},
		{"not a version", true},
	}
	for _, tt := range tests {
		t.Run(tt.requires, func(t *testing.T) {
			err := CheckVersion(tt.requires)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, gen.IsConfigError(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestModulePath(t *testing.T) {
	t.Run("module directive", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ModFile, "module example.com/blog\n\ngo 1.24\n")
		p, err := ModulePath(dir)
		require.NoError(t, err)
		assert.Equal(t, "example.com/blog", p)
	})

	t.Run("no directive", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ModFile, "go 1.24\n")
		_, err := ModulePath(dir)
		require.Error(t, err)
	})

	t.Run("no go.mod", func(t *testing.T) {
		_, err := ModulePath(t.TempDir())
		require.Error(t, err)
	})
}

func TestEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, EnvFile, "CRUDGEN_DIALECT=mysql\nCRUDGEN_WEB=true\nDATABASE_URL=postgres://localhost\n")
	t.Setenv("CRUDGEN_DIALECT", "sqlite")

	env, err := Env(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", env["dialect"], "process environment wins over .env")
	assert.Equal(t, "true", env["web"])
	assert.NotContains(t, env, "database_url")
}

func TestEnvWithoutFile(t *testing.T) {
	t.Setenv("CRUDGEN_UUID", "1")
	env, err := Env(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "1", env["uuid"])
}

func TestEnvOptions(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg gen.Config)
		wantErr bool
	}{
		{
			name: "strings and booleans",
			env:  map[string]string{"dialect": "sqlite", "soft_deletes": "true", "routes": "0"},
			check: func(t *testing.T, cfg gen.Config) {
				assert.Equal(t, "sqlite", cfg.Dialect)
				assert.True(t, cfg.SoftDeletes)
				assert.False(t, cfg.AddRoutes)
			},
		},
		{
			name: "pagination",
			env:  map[string]string{"pagination": "50"},
			check: func(t *testing.T, cfg gen.Config) {
				assert.Equal(t, 50, cfg.DefaultPagination)
			},
		},
		{
			name: "empty values are ignored",
			env:  map[string]string{"dialect": "", "web": ""},
			check: func(t *testing.T, cfg gen.Config) {
				assert.Equal(t, "postgres", cfg.Dialect)
				assert.False(t, cfg.Web)
			},
		},
		{name: "bad boolean", env: map[string]string{"uuid": "maybe"}, wantErr: true},
		{name: "bad pagination", env: map[string]string{"pagination": "many"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := EnvOptions(tt.env)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, gen.IsConfigError(err))
				return
			}
			require.NoError(t, err)
			cfg, err := gen.NewConfig(append(opts, gen.WithModule("example.com/blog"))...)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("module from go.mod", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ModFile, "module example.com/blog\n")
		cfg, err := Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, "example.com/blog", cfg.Module)
		assert.False(t, cfg.Now.IsZero())
	})

	t.Run("precedence", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ModFile, "module example.com/blog\n")
		writeFile(t, dir, FileName, "module: example.com/file\ndialect: mysql\npagination: 20\nweb: true\n")
		t.Setenv("CRUDGEN_DIALECT", "sqlite")

		cfg, err := Resolve(dir, gen.WithPagination(30))
		require.NoError(t, err)
		assert.Equal(t, "example.com/file", cfg.Module, "file wins over go.mod")
		assert.Equal(t, "sqlite", cfg.Dialect, "env wins over file")
		assert.Equal(t, 30, cfg.DefaultPagination, "flags win over file")
		assert.True(t, cfg.Web)
	})

	t.Run("missing module", func(t *testing.T) {
		_, err := Resolve(t.TempDir())
		require.Error(t, err)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("unsatisfied requirement", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, "requires: \">= 9.0\"\nmodule: example.com/blog\n")
		_, err := Resolve(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires")
	})
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(t.TempDir(), "ci.yaml")
	require.NoError(t, os.WriteFile(other, []byte("module: example.com/ci\nuuid: true\n"), 0o644))

	cfg, err := ResolveFile(dir, other)
	require.NoError(t, err)
	assert.Equal(t, "example.com/ci", cfg.Module)
	assert.True(t, cfg.UUID)

	_, err = ResolveFile(dir, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err, "an explicit config file must exist")
}
