// Package edge describes relations between generated entities.
//
// Relations arrive from two places. A foreign key field yields a belongs-to
// hint:
//
//	author_id  ->  {belongsTo Author}
//
// and a pivot table found while loading a batch of schema scripts yields a
// pair of many-to-many hints:
//
//	post_tag(post_id, tag_id)  ->  Post {belongsToMany Tag post_tag}
//	                               Tag  {belongsToMany Post post_tag}
package edge

import (
	"strings"

	"github.com/syssam/crudgen/internal/naming"
	"github.com/syssam/crudgen/schema/field"
)

// Type is the kind of a relation.
type Type string

// Relation kinds.
const (
	BelongsTo     Type = "belongsTo"
	BelongsToMany Type = "belongsToMany"
)

// Hint is a relation of the generated entity to another entity.
type Hint struct {
	Type    Type   `json:"type" yaml:"type"`
	Related string `json:"related" yaml:"related"`
	// Through is the pivot table of a BelongsToMany relation.
	Through string `json:"through,omitempty" yaml:"through,omitempty"`
	// Field is the foreign key column of a BelongsTo relation.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
}

// Name returns the accessor name of the relation: the singular camel form of
// the foreign key for BelongsTo, the camel plural of the related entity for
// BelongsToMany.
func (h Hint) Name() string {
	if h.Type == BelongsToMany {
		return naming.Camel(naming.Plural(h.Related))
	}
	if h.Field != "" {
		return naming.Camel(strings.TrimSuffix(h.Field, field.IDSuffix))
	}
	return naming.Camel(h.Related)
}

// Key returns the field name of the relation in JSON output, shared by the
// entity and the resource generators.
func (h Hint) Key() string {
	return naming.Snake(h.Name())
}

// ForeignKey returns the foreign key column of a BelongsTo relation.
func (h Hint) ForeignKey() string {
	if h.Field != "" {
		return h.Field
	}
	return naming.Snake(h.Related) + field.IDSuffix
}

// FromFields returns a BelongsTo hint for every foreign key field, in field
// order.
func FromFields(specs []*field.Spec) []Hint {
	var hints []Hint
	for _, s := range specs {
		if s.Foreign == nil {
			continue
		}
		hints = append(hints, Hint{
			Type:    BelongsTo,
			Related: s.Foreign.RelatedEntity,
			Field:   s.Name,
		})
	}
	return Dedup(hints)
}

// Merge concatenates hint lists and drops value duplicates, keeping the first
// occurrence.
func Merge(lists ...[]Hint) []Hint {
	var all []Hint
	for _, l := range lists {
		all = append(all, l...)
	}
	return Dedup(all)
}

// Dedup drops hints equal by value to an earlier hint. A BelongsTo hint
// without a field is also dropped when another BelongsTo hint already names
// the same related entity.
func Dedup(hints []Hint) []Hint {
	var (
		out  = make([]Hint, 0, len(hints))
		seen = make(map[Hint]bool, len(hints))
	)
	for _, h := range hints {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return dropBare(out)
}

func dropBare(hints []Hint) []Hint {
	covered := make(map[string]bool)
	for _, h := range hints {
		if h.Type == BelongsTo && h.Field != "" {
			covered[h.Related] = true
		}
	}
	out := hints[:0]
	for _, h := range hints {
		if h.Type == BelongsTo && h.Field == "" && covered[h.Related] {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Filter returns the hints of the given type.
func Filter(hints []Hint, t Type) []Hint {
	var out []Hint
	for _, h := range hints {
		if h.Type == t {
			out = append(out, h)
		}
	}
	return out
}
