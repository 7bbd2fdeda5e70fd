package field

// Type is a field type tag. The vocabulary is open: a tag the generators do
// not know is treated like a string.
type Type string

// Well-known field types.
const (
	TypeString             Type = "string"
	TypeText               Type = "text"
	TypeChar               Type = "char"
	TypeInteger            Type = "integer"
	TypeBigInteger         Type = "bigInteger"
	TypeSmallInteger       Type = "smallInteger"
	TypeTinyInteger        Type = "tinyInteger"
	TypeUnsignedInteger    Type = "unsignedInteger"
	TypeUnsignedBigInteger Type = "unsignedBigInteger"
	TypeDecimal            Type = "decimal"
	TypeFloat              Type = "float"
	TypeDouble             Type = "double"
	TypeBoolean            Type = "boolean"
	TypeDate               Type = "date"
	TypeDateTime           Type = "datetime"
	TypeTimestamp          Type = "timestamp"
	TypeTime               Type = "time"
	TypeJSON               Type = "json"
	TypeJSONB              Type = "jsonb"
	TypeArray              Type = "array"
	TypeUUID               Type = "uuid"
	TypeForeignID          Type = "foreignId"
	// TypeReferenceID is accepted as an alias of TypeForeignID.
	TypeReferenceID Type = "reference-id"
)

// Cast is the runtime representation a stored value converts to.
type Cast string

// Runtime casts.
const (
	CastNone     Cast = ""
	CastBoolean  Cast = "boolean"
	CastInteger  Cast = "integer"
	CastFloat    Cast = "float"
	CastDate     Cast = "date"
	CastDateTime Cast = "datetime"
	CastArray    Cast = "array"
)

// String returns the type tag.
func (t Type) String() string { return string(t) }

// IsForeignID reports whether t declares a reference to another entity.
func (t Type) IsForeignID() bool {
	return t == TypeForeignID || t == TypeReferenceID
}

// IsText reports whether values of t are free text, the columns matched by a
// search term.
func (t Type) IsText() bool {
	switch t {
	case TypeString, TypeText, TypeChar:
		return true
	}
	return false
}

// IsInteger reports whether t belongs to the integer family.
func (t Type) IsInteger() bool {
	switch t {
	case TypeInteger, TypeBigInteger, TypeSmallInteger, TypeTinyInteger,
		TypeUnsignedInteger, TypeUnsignedBigInteger, TypeForeignID, TypeReferenceID:
		return true
	}
	return false
}

// IsNumeric reports whether t is a fractional number type.
func (t Type) IsNumeric() bool {
	switch t {
	case TypeDecimal, TypeFloat, TypeDouble:
		return true
	}
	return false
}

// Cast returns the runtime cast of t. Types without a cast stay strings.
func (t Type) Cast() Cast {
	switch {
	case t == TypeBoolean:
		return CastBoolean
	case t.IsInteger():
		return CastInteger
	case t.IsNumeric():
		return CastFloat
	case t == TypeDate:
		return CastDate
	case t == TypeDateTime || t == TypeTimestamp:
		return CastDateTime
	case t == TypeJSON || t == TypeJSONB || t == TypeArray:
		return CastArray
	}
	return CastNone
}
