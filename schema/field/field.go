package field

import (
	"strings"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/internal/naming"
)

// IDSuffix marks a column name as a reference to another entity.
const IDSuffix = "_id"

// Spec describes one column of the generated entity.
type Spec struct {
	Name      string   `json:"name" yaml:"name"`
	Type      Type     `json:"type" yaml:"type"`
	Nullable  bool     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Unique    bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
	Index     bool     `json:"index,omitempty" yaml:"index,omitempty"`
	Length    *int     `json:"length,omitempty" yaml:"length,omitempty"`
	Precision *int     `json:"precision,omitempty" yaml:"precision,omitempty"`
	Default   *string  `json:"default,omitempty" yaml:"default,omitempty"`
	Foreign   *Foreign `json:"foreign,omitempty" yaml:"foreign,omitempty"`
}

// Foreign names the entity and table a foreign key field points at.
type Foreign struct {
	RelatedEntity string `json:"related_entity" yaml:"related_entity"`
	RelatedTable  string `json:"related_table" yaml:"related_table"`
}

// Validate reports a spec that cannot be generated.
func (s *Spec) Validate() error {
	switch {
	case s == nil:
		return crudgen.NewFieldError("", "nil field spec")
	case strings.TrimSpace(s.Name) == "":
		return crudgen.NewFieldError("", "missing name")
	case strings.TrimSpace(string(s.Type)) == "":
		return crudgen.NewFieldError(s.Name, "missing type")
	}
	return nil
}

// Relation returns the relation name of a foreign key field: author_id is
// author.
func (s *Spec) Relation() string {
	return strings.TrimSuffix(s.Name, IDSuffix)
}

// InferForeign returns the foreign key target of a field named name with type
// t, or nil if the field is not a foreign key.
func InferForeign(name string, t Type) *Foreign {
	base := strings.TrimSuffix(name, IDSuffix)
	suffixed := strings.HasSuffix(name, IDSuffix) && base != ""
	if !suffixed && !t.IsForeignID() {
		return nil
	}
	singular := naming.Singular(naming.Snake(base))
	return &Foreign{
		RelatedEntity: naming.Pascal(singular),
		RelatedTable:  naming.Plural(singular),
	}
}

// Equal reports whether two specs are equal by value.
func (s *Spec) Equal(o *Spec) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Name == o.Name && s.Type == o.Type &&
		s.Nullable == o.Nullable && s.Unique == o.Unique && s.Index == o.Index &&
		eqPtr(s.Length, o.Length) && eqPtr(s.Precision, o.Precision) &&
		eqPtr(s.Default, o.Default) && eqPtr(s.Foreign, o.Foreign)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Names returns the field names in order.
func Names(specs []*Spec) []string {
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names
}

// Dedup drops later specs that repeat the name of an earlier one.
func Dedup(specs []*Spec) []*Spec {
	seen := make(map[string]bool, len(specs))
	out := make([]*Spec, 0, len(specs))
	for _, s := range specs {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		out = append(out, s)
	}
	return out
}
