package gen

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/syssam/crudgen/compiler/gen/ddl"
	"github.com/syssam/crudgen/schema/edge"
)

// Option configures code generation.
type Option func(*Config) error

// WithModule sets the Go module path of the target project.
func WithModule(module string) Option {
	return func(c *Config) error {
		if module == "" {
			return NewConfigError("Module", nil, "module path cannot be empty")
		}
		c.Module = module
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated Go file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPath overrides the output directory of a kind.
func WithPath(k Kind, dir string) Option {
	return func(c *Config) error {
		if _, ok := DefaultPaths[k]; !ok {
			return NewConfigError("Paths", k, "unknown artifact kind")
		}
		if dir == "" {
			return NewConfigError("Paths", k, "directory cannot be empty")
		}
		if c.Paths == nil {
			c.Paths = make(map[Kind]string)
		}
		c.Paths[k] = dir
		return nil
	}
}

// WithPaths overrides the output directories of several kinds.
func WithPaths(paths map[Kind]string) Option {
	return func(c *Config) error {
		for _, k := range slices.Sorted(maps.Keys(paths)) {
			if err := WithPath(k, paths[k])(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithSoftDeletes enables soft deletes.
func WithSoftDeletes(b bool) Option {
	return func(c *Config) error {
		c.SoftDeletes = b
		return nil
	}
}

// WithUUID switches primary keys to UUIDs.
func WithUUID(b bool) Option {
	return func(c *Config) error {
		c.UUID = b
		return nil
	}
}

// WithRepository selects the repository-backed service strategy.
// When disabled, no repository is generated and services query the
// database directly.
func WithRepository(b bool) Option {
	return func(c *Config) error {
		c.UseRepository = b
		return nil
	}
}

// WithPagination sets the default page size.
func WithPagination(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("DefaultPagination", n, "must be positive")
		}
		c.DefaultPagination = n
		return nil
	}
}

// WithRoutes enables appending the route block.
func WithRoutes(b bool) Option {
	return func(c *Config) error {
		c.AddRoutes = b
		return nil
	}
}

// WithTimestamps enables the created_at and updated_at columns.
func WithTimestamps(b bool) Option {
	return func(c *Config) error {
		c.Timestamps = b
		return nil
	}
}

// WithIgnoreTables replaces the tables skipped by the schema extractor.
func WithIgnoreTables(tables ...string) Option {
	return func(c *Config) error {
		c.IgnoreTables = slices.Clone(tables)
		return nil
	}
}

// WithDialect sets the SQL dialect of generated migrations.
// Supported dialects: "postgres", "mysql", "sqlite".
func WithDialect(name string) Option {
	return func(c *Config) error {
		if _, err := ddl.NewDialect(name); err != nil {
			return NewConfigError("Dialect", name, "unsupported dialect; use postgres, mysql, or sqlite")
		}
		c.Dialect = name
		return nil
	}
}

// WithMigrationFormat sets the migration file format.
// Supported formats: "goose", "dbmate", "atlas".
func WithMigrationFormat(format string) Option {
	return func(c *Config) error {
		if !ddl.ValidFormat(format) {
			return NewConfigError("MigrationFormat", format, "unsupported format; use goose, dbmate, or atlas")
		}
		c.MigrationFormat = format
		return nil
	}
}

// WithWeb selects the HTML form controller flavor.
func WithWeb(b bool) Option {
	return func(c *Config) error {
		c.Web = b
		return nil
	}
}

// WithForce overwrites existing files.
func WithForce(b bool) Option {
	return func(c *Config) error {
		c.Force = b
		return nil
	}
}

// WithSkip disables the given kinds.
func WithSkip(kinds ...Kind) Option {
	return func(c *Config) error {
		if c.Skip == nil {
			c.Skip = make(map[Kind]bool)
		}
		for _, k := range kinds {
			if _, ok := DefaultPaths[k]; !ok {
				return NewConfigError("Skip", k, "unknown artifact kind")
			}
			c.Skip[k] = true
		}
		return nil
	}
}

// WithNow fixes the migration version clock.
func WithNow(t time.Time) Option {
	return func(c *Config) error {
		c.Now = t
		return nil
	}
}

// WithKnownEntities declares the related entities that have factories.
func WithKnownEntities(names ...string) Option {
	return func(c *Config) error {
		c.KnownEntities = append(c.KnownEntities, names...)
		return nil
	}
}

// WithRelations adds relation hints to every generated entity.
func WithRelations(hints ...edge.Hint) Option {
	return func(c *Config) error {
		for _, h := range hints {
			if h.Related == "" {
				return NewConfigError("Relations", h, "related entity cannot be empty")
			}
			if h.Type != edge.BelongsTo && h.Type != edge.BelongsToMany {
				return NewConfigError("Relations", h.Type, "unknown relation type")
			}
		}
		c.Relations = append(c.Relations, hints...)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a Config from the defaults and the given options.
// The clock defaults to the current UTC time.
func NewConfig(opts ...Option) (Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return Config{}, err
	}
	if c.Now.IsZero() {
		c.Now = time.Now().UTC()
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
