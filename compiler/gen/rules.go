package gen

import (
	"fmt"
	"path"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen/ddl"
	"github.com/syssam/crudgen/schema/field"
)

// Import paths used by generated code.
const (
	PkgTime      = "time"
	PkgJSON      = "encoding/json"
	PkgFmt       = "fmt"
	PkgStrings   = "strings"
	PkgGorm      = "gorm.io/gorm"
	PkgDatatypes = "gorm.io/datatypes"
	PkgUUID      = "github.com/google/uuid"
	PkgValidator = "github.com/go-playground/validator/v10"
	PkgFaker     = "github.com/brianvoe/gofakeit/v7"
)

// TypeRef is a Go type, optionally qualified by an import path.
type TypeRef struct {
	Pkg  string
	Name string
}

// Basic type refs.
var (
	TypeString  = TypeRef{Name: "string"}
	TypeInt64   = TypeRef{Name: "int64"}
	TypeUint64  = TypeRef{Name: "uint64"}
	TypeFloat64 = TypeRef{Name: "float64"}
	TypeBool    = TypeRef{Name: "bool"}
	TypeTime    = TypeRef{Pkg: PkgTime, Name: "Time"}
	TypeJSON    = TypeRef{Pkg: PkgDatatypes, Name: "JSON"}
	TypeRawJSON = TypeRef{Pkg: PkgJSON, Name: "RawMessage"}
)

// String returns the type as written in source: time.Time.
func (t TypeRef) String() string {
	if t.Pkg == "" {
		return t.Name
	}
	return path.Base(t.Pkg) + "." + t.Name
}

// Code returns the jennifer form of the type.
func (t TypeRef) Code() *jen.Statement {
	if t.Pkg == "" {
		return jen.Id(t.Name)
	}
	return jen.Qual(t.Pkg, t.Name)
}

// Ptr returns the jennifer form of the type, as a pointer when nullable.
func (t TypeRef) Ptr(nullable bool) *jen.Statement {
	if nullable {
		return jen.Op("*").Add(t.Code())
	}
	return t.Code()
}

// IDType returns the Go type of primary keys.
func IDType(cfg Config) TypeRef {
	if cfg.UUID {
		return TypeString
	}
	return TypeUint64
}

// GoType returns the Go type a stored field maps to. Integer foreign keys
// take the primary key type of the related entity.
func GoType(s *field.Spec, cfg Config) TypeRef {
	switch ddl.KindOf(s, cfg.UUID) {
	case ddl.KindForeignID:
		return TypeUint64
	case ddl.KindInt, ddl.KindBigInt, ddl.KindSmallInt, ddl.KindTinyInt:
		return TypeInt64
	case ddl.KindUint, ddl.KindBigUint:
		return TypeUint64
	case ddl.KindDecimal, ddl.KindFloat, ddl.KindDouble:
		return TypeFloat64
	case ddl.KindBool:
		return TypeBool
	case ddl.KindDate, ddl.KindDateTime, ddl.KindTimestamp:
		return TypeTime
	case ddl.KindJSON, ddl.KindJSONB:
		return TypeJSON
	default:
		return TypeString
	}
}

// IsJSON reports whether the field holds a JSON document.
func IsJSON(s *field.Spec, cfg Config) bool {
	return GoType(s, cfg) == TypeJSON
}

// Layout returns the time layout of date and time fields, empty for others.
func Layout(s *field.Spec) string {
	switch s.Type {
	case field.TypeDate:
		return "2006-01-02"
	case field.TypeDateTime, field.TypeTimestamp:
		return "2006-01-02T15:04:05Z07:00"
	case field.TypeTime:
		return "15:04:05"
	}
	return ""
}

// RequestType returns the Go type of a field in a request payload. Dates
// arrive as strings validated against their layout, JSON as raw bytes.
func RequestType(s *field.Spec, cfg Config) TypeRef {
	switch t := GoType(s, cfg); t {
	case TypeTime:
		return TypeString
	case TypeJSON:
		return TypeRawJSON
	default:
		return t
	}
}

// RequestPtr reports whether the request field is a pointer, so that an
// absent value can be told apart from a zero value.
func RequestPtr(s *field.Spec, cfg Config) bool {
	return RequestType(s, cfg) != TypeRawJSON
}

// Mode selects the create or the update variant of a request.
type Mode int

// Request modes.
const (
	Store Mode = iota
	Update
)

// Rules is the validation of one request field.
type Rules struct {
	// Tags are go-playground/validator tags.
	Tags []string
	// Unique requires the value to be unused in the entity table. On update
	// the current record is excluded.
	Unique bool
	// Exists is the table the value must reference, empty when none.
	Exists string
}

// Tag returns the validate struct tag value.
func (r Rules) Tag() string {
	return strings.Join(r.Tags, ",")
}

// Required reports whether the field must be present.
func (r Rules) Required() bool {
	return len(r.Tags) > 0 && r.Tags[0] == "required"
}

// Validation returns the validation of a field. Presence is required on
// store unless the field is nullable, and optional on update.
func Validation(s *field.Spec, mode Mode, cfg Config) Rules {
	var r Rules
	if mode == Store && !s.Nullable {
		r.Tags = append(r.Tags, "required")
	} else {
		r.Tags = append(r.Tags, "omitempty")
	}
	name := strings.ToLower(s.Name)
	rt := RequestType(s, cfg)
	switch {
	case rt == TypeString && strings.Contains(name, "email"):
		r.Tags = append(r.Tags, "email")
	case rt == TypeString && (strings.Contains(name, "url") || strings.Contains(name, "website")):
		r.Tags = append(r.Tags, "url")
	}
	switch k := ddl.KindOf(s, cfg.UUID); {
	case k == ddl.KindString || k == ddl.KindChar:
		n := ddl.DefaultLength
		if s.Length != nil && *s.Length > 0 {
			n = *s.Length
		}
		r.Tags = append(r.Tags, fmt.Sprintf("max=%d", n))
	case k == ddl.KindUUID:
		r.Tags = append(r.Tags, "uuid")
	case k == ddl.KindJSON || k == ddl.KindJSONB:
		r.Tags = append(r.Tags, "json")
	case Layout(s) != "":
		r.Tags = append(r.Tags, "datetime="+Layout(s))
	}
	r.Unique = s.Unique
	if s.Foreign != nil {
		r.Exists = s.Foreign.RelatedTable
	}
	return r
}

// Sample is a Go expression producing a fake value of a field.
type Sample struct {
	Expr    string
	Imports []string
	// Related is set when the expression creates a related entity through
	// its factory.
	Related string
}

func faker(expr string, imports ...string) Sample {
	return Sample{Expr: expr, Imports: append([]string{PkgFaker}, imports...)}
}

// nameSamples are matched in order against the lower case field name of
// string fields.
var nameSamples = []struct {
	match func(string) bool
	expr  string
}{
	{contains("email"), "gofakeit.Email()"},
	{all("first", "name"), "gofakeit.FirstName()"},
	{all("last", "name"), "gofakeit.LastName()"},
	{contains("name"), "gofakeit.Name()"},
	{contains("phone"), "gofakeit.Phone()"},
	{contains("address"), "gofakeit.Street()"},
	{contains("city"), "gofakeit.City()"},
	{contains("country"), "gofakeit.Country()"},
	{contains("zip", "postal"), "gofakeit.Zip()"},
	{contains("url", "website", "image", "avatar", "photo"), "gofakeit.URL()"},
	{contains("title"), "gofakeit.Sentence(3)"},
	{contains("description", "content", "body"), `gofakeit.Paragraph(1, 3, 12, " ")`},
	{contains("slug"), `gofakeit.Regex("[a-z]{4,8}-[a-z]{4,8}")`},
}

// Faker returns the sample expression of a field. Name heuristics take
// precedence over the type for string fields; foreign keys create the
// related entity when its factory is known.
func Faker(s *field.Spec, cfg Config) Sample {
	t, k := GoType(s, cfg), ddl.KindOf(s, cfg.UUID)
	if s.Foreign != nil && (k == ddl.KindForeignID || (cfg.UUID && k == ddl.KindUUID)) {
		if cfg.Known(s.Foreign.RelatedEntity) {
			return Sample{Expr: "Create" + s.Foreign.RelatedEntity + "(db).ID", Related: s.Foreign.RelatedEntity}
		}
		if cfg.UUID {
			return faker("gofakeit.UUID()")
		}
		return faker("uint64(gofakeit.Number(1, 10))")
	}
	name := strings.ToLower(s.Name)
	switch t {
	case TypeString:
		for _, ns := range nameSamples {
			if ns.match(name) {
				return faker(ns.expr)
			}
		}
		switch k {
		case ddl.KindText:
			return faker(`gofakeit.Paragraph(1, 3, 12, " ")`)
		case ddl.KindChar:
			n := 1
			if s.Length != nil && *s.Length > 0 {
				n = min(*s.Length, 8)
			}
			return faker(fmt.Sprintf("gofakeit.Lexify(%q)", strings.Repeat("?", n)))
		case ddl.KindUUID:
			return faker("gofakeit.UUID()")
		case ddl.KindTime:
			return faker(`fmt.Sprintf("%02d:%02d:%02d", gofakeit.Hour(), gofakeit.Minute(), gofakeit.Second())`, PkgFmt)
		}
		return faker("gofakeit.Word()")
	case TypeFloat64:
		if contains("price", "amount", "cost")(name) {
			return faker("gofakeit.Price(10, 1000)")
		}
		return faker("gofakeit.Float64Range(1, 100)")
	case TypeInt64:
		return faker("int64(gofakeit.Number(1, 100))")
	case TypeUint64:
		return faker("uint64(gofakeit.Number(1, 100))")
	case TypeBool:
		return faker("gofakeit.Bool()")
	case TypeTime:
		if s.Type == field.TypeDate {
			return faker("gofakeit.Date().Truncate(24 * time.Hour)", PkgTime)
		}
		return faker("gofakeit.Date()")
	case TypeJSON:
		if s.Type == field.TypeArray {
			return Sample{Expr: "datatypes.JSON(`[]`)", Imports: []string{PkgDatatypes}}
		}
		return Sample{Expr: "datatypes.JSON(`{}`)", Imports: []string{PkgDatatypes}}
	}
	return faker("gofakeit.Word()")
}

func contains(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func all(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}
