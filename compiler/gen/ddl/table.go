package ddl

import (
	"fmt"
	"strconv"
	"strings"

	"ariga.io/atlas/sql/schema"

	"github.com/syssam/crudgen/schema/field"
)

// Reserved column names.
const (
	ColumnID        = "id"
	ColumnDeletedAt = "deleted_at"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// Defaults applied when a field carries no explicit length or precision.
const (
	DefaultLength    = 255
	DefaultPrecision = 8
	DefaultScale     = 2
)

// Options configures the table model.
type Options struct {
	Dialect     string
	UUID        bool
	SoftDeletes bool
	Timestamps  bool
}

// Table is the atlas model of a generated table, annotated with the column
// layout used when rendering.
type Table struct {
	*schema.Table
	dialect *Dialect
	opts    Options
	// declared is the number of leading columns (id plus declared fields)
	// that precede the foreign key constraints.
	declared int
}

// Build returns the table model for the given fields. Fields named like a
// reserved column are ignored.
func Build(name string, fields []*field.Spec, opts Options) (*Table, error) {
	d, err := NewDialect(opts.Dialect)
	if err != nil {
		return nil, err
	}
	t := &Table{Table: schema.NewTable(name), dialect: d, opts: opts}
	id := schema.NewColumn(ColumnID)
	if opts.UUID {
		id.SetType(&schema.UUIDType{T: d.Types[KindUUID]})
	} else {
		id.SetType(&schema.IntegerType{T: d.Types[KindForeignID], Unsigned: d.Name == MySQL})
	}
	id.Type.Raw = d.ID(opts.UUID)
	t.AddColumns(id)
	t.SetPrimaryKey(schema.NewPrimaryKey(id))

	for _, f := range fields {
		if f == nil || Reserved(f.Name) {
			continue
		}
		if _, ok := t.Column(f.Name); ok {
			continue
		}
		c := t.column(f)
		t.AddColumns(c)
		switch {
		case f.Unique:
			t.AddIndexes(schema.NewUniqueIndex(name + "_" + f.Name + "_unique").AddColumns(c))
		case f.Index:
			t.AddIndexes(schema.NewIndex(name + "_" + f.Name + "_index").AddColumns(c))
		}
		if f.Foreign != nil {
			ref := schema.NewTable(f.Foreign.RelatedTable)
			ref.AddColumns(schema.NewColumn(ColumnID))
			refID, _ := ref.Column(ColumnID)
			t.AddForeignKeys(schema.NewForeignKey(name + "_" + f.Name + "_foreign").
				AddColumns(c).
				SetRefTable(ref).
				AddRefColumns(refID).
				SetOnDelete(schema.Cascade))
		}
	}
	t.declared = len(t.Columns)

	if opts.SoftDeletes {
		t.AddColumns(t.timestamp(ColumnDeletedAt))
	}
	if opts.Timestamps {
		t.AddColumns(t.timestamp(ColumnCreatedAt), t.timestamp(ColumnUpdatedAt))
	}
	return t, nil
}

// Dialect returns the dialect the table renders for.
func (t *Table) Dialect() *Dialect { return t.dialect }

// Declared returns the id column followed by the declared field columns.
func (t *Table) Declared() []*schema.Column { return t.Columns[:t.declared] }

// Trailing returns the soft delete and timestamp columns.
func (t *Table) Trailing() []*schema.Column { return t.Columns[t.declared:] }

func (t *Table) timestamp(name string) *schema.Column {
	raw := t.dialect.Types[KindDateTime]
	if t.dialect.Name == MySQL {
		raw = t.dialect.Types[KindTimestamp]
	}
	c := schema.NewNullColumn(name).SetType(&schema.TimeType{T: raw})
	c.Type.Raw = raw
	return c
}

func (t *Table) column(f *field.Spec) *schema.Column {
	k := KindOf(f, t.opts.UUID)
	d := t.dialect
	raw := d.Types[k]
	var typ schema.Type
	switch k {
	case KindString, KindChar:
		size := DefaultLength
		if f.Length != nil && *f.Length > 0 {
			size = *f.Length
		}
		typ = &schema.StringType{T: raw, Size: size}
		raw = fmt.Sprintf("%s(%d)", raw, size)
	case KindText:
		typ = &schema.StringType{T: raw}
	case KindInt, KindBigInt, KindSmallInt, KindTinyInt, KindUint, KindBigUint, KindForeignID:
		typ = &schema.IntegerType{T: raw, Unsigned: k == KindUint || k == KindBigUint || (k == KindForeignID && d.Name == MySQL)}
	case KindDecimal:
		p := DefaultPrecision
		if f.Precision != nil && *f.Precision > 0 {
			p = *f.Precision
		}
		typ = &schema.DecimalType{T: raw, Precision: p, Scale: DefaultScale}
		raw = fmt.Sprintf("%s(%d,%d)", raw, p, DefaultScale)
	case KindFloat, KindDouble:
		typ = &schema.FloatType{T: raw}
	case KindBool:
		typ = &schema.BoolType{T: raw}
	case KindDate, KindDateTime, KindTimestamp, KindTime:
		typ = &schema.TimeType{T: raw}
	case KindJSON, KindJSONB:
		typ = &schema.JSONType{T: raw}
	case KindUUID:
		typ = &schema.UUIDType{T: raw}
	}
	c := schema.NewColumn(f.Name).SetType(typ).SetNull(f.Nullable)
	c.Type.Raw = raw
	if f.Default != nil {
		if x := t.defaultExpr(k, *f.Default); x != nil {
			c.SetDefault(x)
		}
	}
	return c
}

// KindOf maps a field to its column kind. Foreign keys declared with an
// integer type take the type of the referenced primary key.
func KindOf(f *field.Spec, uuid bool) Kind {
	if f.Foreign != nil && (f.Type.IsInteger() || f.Type.IsForeignID()) {
		if uuid {
			return KindUUID
		}
		return KindForeignID
	}
	switch f.Type {
	case field.TypeChar:
		return KindChar
	case field.TypeText:
		return KindText
	case field.TypeInteger:
		return KindInt
	case field.TypeBigInteger:
		return KindBigInt
	case field.TypeSmallInteger:
		return KindSmallInt
	case field.TypeTinyInteger:
		return KindTinyInt
	case field.TypeUnsignedInteger:
		return KindUint
	case field.TypeUnsignedBigInteger:
		return KindBigUint
	case field.TypeDecimal:
		return KindDecimal
	case field.TypeFloat:
		return KindFloat
	case field.TypeDouble:
		return KindDouble
	case field.TypeBoolean:
		return KindBool
	case field.TypeDate:
		return KindDate
	case field.TypeDateTime:
		return KindDateTime
	case field.TypeTimestamp:
		return KindTimestamp
	case field.TypeTime:
		return KindTime
	case field.TypeJSON:
		return KindJSON
	case field.TypeJSONB, field.TypeArray:
		return KindJSONB
	case field.TypeUUID:
		return KindUUID
	case field.TypeForeignID, field.TypeReferenceID:
		if uuid {
			return KindUUID
		}
		return KindForeignID
	default:
		return KindString
	}
}

func (t *Table) defaultExpr(k Kind, v string) schema.Expr {
	if strings.EqualFold(v, "null") {
		return nil
	}
	switch k {
	case KindBool:
		if b, err := strconv.ParseBool(v); err == nil {
			return &schema.Literal{V: t.dialect.Bool(b)}
		}
	case KindInt, KindBigInt, KindSmallInt, KindTinyInt, KindUint, KindBigUint,
		KindDecimal, KindFloat, KindDouble, KindForeignID:
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return &schema.Literal{V: v}
		}
	case KindDate, KindDateTime, KindTimestamp, KindTime:
		if strings.EqualFold(v, "current_timestamp") || strings.EqualFold(v, "now()") {
			return &schema.RawExpr{X: "CURRENT_TIMESTAMP"}
		}
	}
	return &schema.Literal{V: t.dialect.Literal(v)}
}

// Reserved reports whether name is a column every generated table manages
// itself.
func Reserved(name string) bool {
	switch name {
	case ColumnID, ColumnDeletedAt, ColumnCreatedAt, ColumnUpdatedAt:
		return true
	}
	return false
}
