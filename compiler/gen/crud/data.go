package crud

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/ddl"
	"github.com/syssam/crudgen/internal/logging"
	"github.com/syssam/crudgen/internal/naming"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

// column is a declared field as every generator sees it.
type column struct {
	Spec   *field.Spec
	Column string
	GoName string
	// Local is a variable name for the field value in generated code.
	Local string
	Type  gen.TypeRef
	// Nullable fields are pointers in the model, except JSON documents
	// which are nil-able slices already.
	Nullable   bool
	Request    gen.TypeRef
	RequestPtr bool
	Layout     string
	Sample     gen.Sample
}

// ModelType returns the model field type as written in source.
func (c column) ModelType() string {
	if c.Nullable {
		return "*" + c.Type.String()
	}
	return c.Type.String()
}

// Form returns how a form value of the field is parsed: string, int64,
// uint64, float64, bool or raw.
func (c column) Form() string {
	switch c.Request {
	case gen.TypeInt64, gen.TypeUint64, gen.TypeFloat64, gen.TypeBool:
		return c.Request.Name
	case gen.TypeRawJSON:
		return "raw"
	}
	return "string"
}

// relation is a relation accessor of the entity.
type relation struct {
	Hint edge.Hint
	// GoName is the model field holding the related value, also the
	// gorm preload name.
	GoName  string
	Related string
	// ForeignKey is the Go name of the foreign key field of a belongs-to
	// relation.
	ForeignKey string
	// Key is the JSON key shared by the model and the resource.
	Key  string
	Many bool
}

// data is the model every template and jennifer generator renders from.
type data struct {
	gen.Naming
	Header  string
	Imports string
	Package string
	// Owner and Recv are the receiver type and name of the shared query
	// partial.
	Owner     string
	Recv      string
	Columns   []column
	Relations []relation
	IDType    string
	UUID      bool
	// SoftDeletes and Timestamps mirror the config.
	SoftDeletes bool
	Timestamps  bool
	PerPage     int
	Searchable  []string
	Filterable  []string
	Sortable    []string
	DefaultSort string
	RoutePath   string
	// Paths are the target import paths by kind.
	Paths map[gen.Kind]string
	// Q holds the selectors of the other generated packages.
	Q qualifiers
}

// qualifiers are the package selectors written before the names of other
// generated packages, such as "models.". A selector is empty when the
// package is the one of the rendered file.
type qualifiers struct {
	Entity        string
	Service       string
	Repository    string
	StoreRequest  string
	UpdateRequest string
	Resource      string
	Factory       string
}

func newQualifiers(own gen.Kind, cfg gen.Config) qualifiers {
	sel := func(k gen.Kind) string {
		if cfg.Dir(k) == cfg.Dir(own) {
			return ""
		}
		return cfg.Package(k) + "."
	}
	return qualifiers{
		Entity:        sel(gen.KindEntity),
		Service:       sel(gen.KindService),
		Repository:    sel(gen.KindRepository),
		StoreRequest:  sel(gen.KindStoreRequest),
		UpdateRequest: sel(gen.KindUpdateRequest),
		Resource:      sel(gen.KindResource),
		Factory:       sel(gen.KindFactory),
	}
}

func newData(n gen.Naming, fields []*field.Spec, rels []edge.Hint, cfg gen.Config) *data {
	d := &data{
		Naming:      n,
		Header:      header(cfg.Header),
		Columns:     columns(fields, cfg),
		IDType:      gen.IDType(cfg).String(),
		UUID:        cfg.UUID,
		SoftDeletes: cfg.SoftDeletes,
		Timestamps:  cfg.Timestamps,
		PerPage:     cfg.DefaultPagination,
		RoutePath:   "/" + n.Table,
		Paths:       make(map[gen.Kind]string),
	}
	for _, k := range gen.Kinds() {
		d.Paths[k] = cfg.ImportPath(k)
	}
	d.Relations = relations(n, d.Columns, rels)
	d.Sortable = []string{ddl.ColumnID}
	d.DefaultSort = ddl.ColumnID
	if cfg.Timestamps {
		d.Sortable = append(d.Sortable, ddl.ColumnCreatedAt, ddl.ColumnUpdatedAt)
		d.DefaultSort = ddl.ColumnCreatedAt
	}
	for _, c := range d.Columns {
		if c.Spec.Type.IsText() {
			d.Searchable = append(d.Searchable, c.Column)
		}
		d.Filterable = append(d.Filterable, c.Column)
		d.Sortable = append(d.Sortable, c.Column)
	}
	return d
}

func columns(fields []*field.Spec, cfg gen.Config) []column {
	var out []column
	used := make(map[string]bool)
	present := slices.DeleteFunc(slices.Clone(fields), func(s *field.Spec) bool { return s == nil })
	for _, s := range field.Dedup(present) {
		if ddl.Reserved(s.Name) {
			continue
		}
		t := gen.GoType(s, cfg)
		c := column{
			Spec:       s,
			Column:     s.Name,
			GoName:     naming.Pascal(s.Name),
			Local:      local(naming.Camel(s.Name), used),
			Type:       t,
			Nullable:   s.Nullable && t != gen.TypeJSON,
			Request:    gen.RequestType(s, cfg),
			RequestPtr: gen.RequestPtr(s, cfg),
			Layout:     gen.Layout(s),
			Sample:     gen.Faker(s, cfg),
		}
		out = append(out, c)
	}
	return out
}

// local returns a Go identifier for a local variable that is unique within
// used and not a keyword or predeclared name the templates rely on.
func local(name string, used map[string]bool) string {
	switch name {
	case "", "m", "db", "tx", "err", "type", "func", "range", "default", "map", "var", "go", "select":
		name += "Value"
	}
	base := name
	for i := 2; used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	used[name] = true
	return name
}

// relations returns the accessors of the entity. A belongs-to hint whose
// foreign key is not a declared field has nothing to join on and is dropped.
// An accessor whose field name or JSON key is already used by a column, as
// for author:reference-id, gets a Relation suffix.
func relations(n gen.Naming, cols []column, hints []edge.Hint) []relation {
	names := map[string]bool{"ID": true, "CreatedAt": true, "UpdatedAt": true, "DeletedAt": true}
	keys := map[string]bool{ddl.ColumnID: true, ddl.ColumnCreatedAt: true, ddl.ColumnUpdatedAt: true, ddl.ColumnDeletedAt: true}
	for _, c := range cols {
		names[c.GoName] = true
		keys[c.Column] = true
	}
	var out []relation
	for _, h := range hints {
		r := relation{
			Hint:    h,
			GoName:  naming.Pascal(h.Name()),
			Related: naming.Pascal(naming.Singular(h.Related)),
			Key:     h.Key(),
			Many:    h.Type == edge.BelongsToMany,
		}
		if !r.Many {
			fk := h.ForeignKey()
			if !slices.ContainsFunc(cols, func(c column) bool { return c.Column == fk }) {
				logging.Warn("belongs-to relation without foreign key field dropped",
					zap.String("entity", n.Name),
					zap.String("related", h.Related),
					zap.String("field", fk),
				)
				continue
			}
			r.ForeignKey = naming.Pascal(fk)
		}
		r.GoName, r.Key = accessor(r.GoName, r.Key, names, keys)
		out = append(out, r)
	}
	return out
}

// accessor returns a relation field name and JSON key not in names and keys,
// and records them.
func accessor(name, key string, names, keys map[string]bool) (string, string) {
	if names[name] || keys[key] {
		name, key = name+"Relation", key+"_relation"
	}
	base, baseKey := name, key
	for i := 2; names[name] || keys[key]; i++ {
		name, key = base+strconv.Itoa(i), baseKey+"_"+strconv.Itoa(i)
	}
	names[name], keys[key] = true, true
	return name, key
}

// RelationNames returns the preload names of the relations.
func (d *data) RelationNames() []string {
	names := make([]string, len(d.Relations))
	for i, r := range d.Relations {
		names[i] = r.GoName
	}
	return names
}

// HasRaw reports whether a request field carries raw JSON.
func (d *data) HasRaw() bool {
	return slices.ContainsFunc(d.Columns, func(c column) bool { return c.Form() == "raw" })
}

// HasParsed reports whether a form value needs strconv.
func (d *data) HasParsed() bool {
	return slices.ContainsFunc(d.Columns, func(c column) bool {
		switch c.Form() {
		case "int64", "uint64", "float64":
			return true
		}
		return false
	})
}

func header(h string) string {
	if h == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(h, "\n"), "\n") {
		fmt.Fprintf(&b, "// %s\n", line)
	}
	b.WriteString("\n")
	return b.String()
}
