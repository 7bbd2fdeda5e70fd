// Package config resolves the generation configuration of a target project.
//
// Sources are applied in order, later ones winning:
//
//	defaults  gen.DefaultConfig
//	file      crudgen.yaml in the project root
//	env       .env in the project root, then CRUDGEN_* process variables
//	flags     options given by the caller
//
// The module path falls back to the module directive of go.mod.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/joho/godotenv"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/schema/edge"
)

// File names looked up in the project root.
const (
	FileName = "crudgen.yaml"
	EnvFile  = ".env"
	ModFile  = "go.mod"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CRUDGEN_"

// File is the content of crudgen.yaml. Unset booleans keep the default.
type File struct {
	// Requires is a version constraint on crudgen itself, like ">= 0.4".
	Requires        string            `yaml:"requires,omitempty"`
	Module          string            `yaml:"module,omitempty"`
	Header          string            `yaml:"header,omitempty"`
	Paths           map[string]string `yaml:"paths,omitempty"`
	SoftDeletes     *bool             `yaml:"soft_deletes,omitempty"`
	UUID            *bool             `yaml:"uuid,omitempty"`
	Repository      *bool             `yaml:"repository,omitempty"`
	Routes          *bool             `yaml:"routes,omitempty"`
	Timestamps      *bool             `yaml:"timestamps,omitempty"`
	Web             *bool             `yaml:"web,omitempty"`
	Pagination      int               `yaml:"pagination,omitempty"`
	Dialect         string            `yaml:"dialect,omitempty"`
	MigrationFormat string            `yaml:"migration_format,omitempty"`
	IgnoreTables    []string          `yaml:"ignore_tables,omitempty"`
	KnownEntities   []string          `yaml:"known_entities,omitempty"`
	Relations       []edge.Hint       `yaml:"relations,omitempty"`
}

// Load reads crudgen.yaml from dir. A missing file is an empty File.
func Load(dir string) (*File, error) {
	f, err := LoadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	return f, err
}

// LoadFile reads the config file at path, which must exist.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Save writes f as crudgen.yaml in dir.
func (f *File) Save(dir string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", FileName, err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", FileName, err)
	}
	return nil
}

// Options returns the options the file sets.
func (f *File) Options() ([]gen.Option, error) {
	if err := CheckVersion(f.Requires); err != nil {
		return nil, err
	}
	var opts []gen.Option
	if f.Module != "" {
		opts = append(opts, gen.WithModule(f.Module))
	}
	if f.Header != "" {
		opts = append(opts, gen.WithHeader(f.Header))
	}
	if len(f.Paths) > 0 {
		paths := make(map[gen.Kind]string, len(f.Paths))
		for k, dir := range f.Paths {
			paths[gen.Kind(k)] = dir
		}
		opts = append(opts, gen.WithPaths(paths))
	}
	for _, b := range []struct {
		v   *bool
		opt func(bool) gen.Option
	}{
		{f.SoftDeletes, gen.WithSoftDeletes},
		{f.UUID, gen.WithUUID},
		{f.Repository, gen.WithRepository},
		{f.Routes, gen.WithRoutes},
		{f.Timestamps, gen.WithTimestamps},
		{f.Web, gen.WithWeb},
	} {
		if b.v != nil {
			opts = append(opts, b.opt(*b.v))
		}
	}
	if f.Pagination != 0 {
		opts = append(opts, gen.WithPagination(f.Pagination))
	}
	if f.Dialect != "" {
		opts = append(opts, gen.WithDialect(f.Dialect))
	}
	if f.MigrationFormat != "" {
		opts = append(opts, gen.WithMigrationFormat(f.MigrationFormat))
	}
	if len(f.IgnoreTables) > 0 {
		opts = append(opts, gen.WithIgnoreTables(f.IgnoreTables...))
	}
	if len(f.KnownEntities) > 0 {
		opts = append(opts, gen.WithKnownEntities(f.KnownEntities...))
	}
	if len(f.Relations) > 0 {
		opts = append(opts, gen.WithRelations(f.Relations...))
	}
	return opts, nil
}

// CheckVersion reports whether the running crudgen satisfies the
// constraint. An empty constraint always passes.
func CheckVersion(requires string) error {
	if strings.TrimSpace(requires) == "" {
		return nil
	}
	c, err := version.NewConstraint(requires)
	if err != nil {
		return gen.NewConfigError("requires", requires, "invalid version constraint: "+err.Error())
	}
	v := version.Must(version.NewVersion(crudgen.Version))
	if !c.Check(v) {
		return gen.NewConfigError("requires", requires, "crudgen "+crudgen.Version+" does not satisfy the constraint")
	}
	return nil
}

// ModulePath returns the module path declared by go.mod in dir.
func ModulePath(dir string) (string, error) {
	name := filepath.Join(dir, ModFile)
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ModFile, err)
	}
	p := modfile.ModulePath(data)
	if p == "" {
		return "", fmt.Errorf("%s: no module directive", name)
	}
	return p, nil
}

// Env returns the CRUDGEN_* variables of the .env file in dir overlaid with
// the process environment. The prefix is stripped and keys are lower case.
func Env(dir string) (map[string]string, error) {
	vars, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", EnvFile, err)
		}
		vars = map[string]string{}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			vars[k] = v
		}
	}
	out := make(map[string]string)
	for k, v := range vars {
		if name, ok := strings.CutPrefix(k, EnvPrefix); ok {
			out[strings.ToLower(name)] = v
		}
	}
	return out, nil
}

// EnvOptions returns the options set by environment variables.
func EnvOptions(env map[string]string) ([]gen.Option, error) {
	var opts []gen.Option
	for key, opt := range map[string]func(string) gen.Option{
		"module":           gen.WithModule,
		"header":           gen.WithHeader,
		"dialect":          gen.WithDialect,
		"migration_format": gen.WithMigrationFormat,
	} {
		if v, ok := env[key]; ok && v != "" {
			opts = append(opts, opt(v))
		}
	}
	for key, opt := range map[string]func(bool) gen.Option{
		"soft_deletes": gen.WithSoftDeletes,
		"uuid":         gen.WithUUID,
		"repository":   gen.WithRepository,
		"routes":       gen.WithRoutes,
		"timestamps":   gen.WithTimestamps,
		"web":          gen.WithWeb,
	} {
		v, ok := env[key]
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, gen.NewConfigError(EnvPrefix+strings.ToUpper(key), v, "not a boolean")
		}
		opts = append(opts, opt(b))
	}
	if v, ok := env["pagination"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, gen.NewConfigError(EnvPrefix+"PAGINATION", v, "not an integer")
		}
		opts = append(opts, gen.WithPagination(n))
	}
	return opts, nil
}

// Resolve builds the configuration of the project in dir. The flags are
// applied last.
func Resolve(dir string, flags ...gen.Option) (gen.Config, error) {
	return ResolveFile(dir, "", flags...)
}

// ResolveFile is Resolve with an explicit config file. An empty path means
// crudgen.yaml in dir, which may be absent.
func ResolveFile(dir, path string, flags ...gen.Option) (gen.Config, error) {
	var (
		f   *File
		err error
	)
	if path == "" {
		f, err = Load(dir)
	} else {
		f, err = LoadFile(path)
	}
	if err != nil {
		return gen.Config{}, err
	}
	opts, err := f.Options()
	if err != nil {
		return gen.Config{}, err
	}
	env, err := Env(dir)
	if err != nil {
		return gen.Config{}, err
	}
	envOpts, err := EnvOptions(env)
	if err != nil {
		return gen.Config{}, err
	}
	opts = append(opts, envOpts...)
	if f.Module == "" && env["module"] == "" {
		// Flags may still set it; validation reports a missing module.
		if p, err := ModulePath(dir); err == nil {
			opts = append([]gen.Option{gen.WithModule(p)}, opts...)
		}
	}
	opts = append(opts, flags...)
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return gen.Config{}, fmt.Errorf("resolve config in %s: %w", dir, err)
	}
	return cfg, nil
}
