package load

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/crudgen/internal/naming"
	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

const ident = "[`\"\\[]?([\\w.]+)[`\"\\]]?"

var (
	downMarkerRe   = regexp.MustCompile(`(?im)^\s*--\s*(\+goose\s+down|migrate:down|\+migrate\s+down).*$`)
	lineCommentRe  = regexp.MustCompile(`--[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	createTableRe  = regexp.MustCompile(`(?i)\bCREATE\s+(?:TEMPORARY\s+|TEMP\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + ident + `\s*\(`)
	createIndexRe  = regexp.MustCompile(`(?i)\bCREATE\s+(UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?(?:` + ident + `\s+)?ON\s+` + ident + `\s*\(\s*` + ident + `\s*\)`)
	foreignKeyRe   = regexp.MustCompile(`(?i)FOREIGN\s+KEY\s*\(\s*` + ident + `\s*\)\s*REFERENCES\s+` + ident)
	uniqueKeyRe    = regexp.MustCompile(`(?i)^(?:CONSTRAINT\s+\S+\s+)?UNIQUE(?:\s+(?:KEY|INDEX))?(?:\s+` + ident + `)?\s*\(\s*` + ident + `\s*\)$`)
	plainKeyRe     = regexp.MustCompile(`(?i)^(?:KEY|INDEX)(?:\s+` + ident + `)?\s*\(\s*` + ident + `\s*\)$`)
	columnRe       = regexp.MustCompile(`^` + ident + `\s+(.+)$`)
	referencesRe   = regexp.MustCompile(`(?i)\bREFERENCES\s+` + ident)
	defaultRe      = regexp.MustCompile(`(?i)\bDEFAULT\s+('(?:[^']|'')*'|"[^"]*"|\([^)]*\)|[^\s,]+)`)
	notNullRe      = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	uniqueRe       = regexp.MustCompile(`(?i)\bUNIQUE\b`)
	primaryKeyRe   = regexp.MustCompile(`(?i)\bPRIMARY\s+KEY\b`)
)

// constraint prefixes of a CREATE TABLE element that is not a column.
var constraintPrefixes = []string{
	"PRIMARY ", "PRIMARY(", "CONSTRAINT ", "FOREIGN ", "UNIQUE ", "UNIQUE(",
	"INDEX ", "INDEX(", "KEY ", "KEY(", "CHECK ", "CHECK(", "FULLTEXT ", "SPATIAL ", "EXCLUDE ",
}

// typeStop ends the column type words.
var typeStop = map[string]bool{
	"not": true, "null": true, "default": true, "unique": true, "primary": true,
	"references": true, "check": true, "constraint": true, "collate": true,
	"auto_increment": true, "autoincrement": true, "generated": true, "comment": true,
	"on": true,
}

type column struct {
	name    string
	typ     string
	args    []string
	extra   string
	refs    string
	primary bool
}

// Extract recovers the table, fields and relations defined by a schema
// script. It returns nil when the script creates no table, when the table is
// in ignore, or when no field survives filtering.
func Extract(script string, ignore []string) *Table {
	if loc := downMarkerRe.FindStringIndex(script); loc != nil {
		script = script[:loc[0]]
	}
	script = blockCommentRe.ReplaceAllString(script, "")
	script = lineCommentRe.ReplaceAllString(script, "")

	m := createTableRe.FindStringSubmatchIndex(script)
	if m == nil {
		return nil
	}
	table := unqualify(script[m[2]:m[3]])
	if slices.Contains(ignore, table) {
		return nil
	}
	body, ok := balanced(script[m[1]:])
	if !ok {
		return nil
	}

	var (
		columns []*column
		refs    = make(map[string]string)
		uniques = make(map[string]bool)
		indexes = make(map[string]bool)
	)
	for _, el := range splitTopLevel(body) {
		upper := strings.ToUpper(el)
		if hasAnyPrefix(upper, constraintPrefixes) {
			switch {
			case foreignKeyRe.MatchString(el):
				fk := foreignKeyRe.FindStringSubmatch(el)
				refs[unqualify(fk[1])] = unqualify(fk[2])
			case uniqueKeyRe.MatchString(el):
				u := uniqueKeyRe.FindStringSubmatch(el)
				uniques[unqualify(u[2])] = true
			case plainKeyRe.MatchString(el):
				k := plainKeyRe.FindStringSubmatch(el)
				indexes[unqualify(k[2])] = true
			}
			continue
		}
		if c := parseColumn(el); c != nil {
			columns = append(columns, c)
		}
	}
	for _, im := range createIndexRe.FindAllStringSubmatch(script, -1) {
		if unqualify(im[3]) != table {
			continue
		}
		if strings.TrimSpace(im[1]) != "" {
			uniques[unqualify(im[4])] = true
		} else {
			indexes[unqualify(im[4])] = true
		}
	}

	t := &Table{Name: table}
	for _, c := range columns {
		if autoColumns[c.name] || c.primary {
			continue
		}
		if ref, ok := refs[c.name]; ok && c.refs == "" {
			c.refs = ref
		}
		s := c.spec()
		if uniques[c.name] {
			s.Unique = true
		}
		if indexes[c.name] && !s.Unique {
			s.Index = true
		}
		t.Fields = append(t.Fields, s)
	}
	t.Fields = dedupFields(t.Fields)
	if len(t.Fields) == 0 {
		return nil
	}
	var hints []edge.Hint
	for _, s := range t.Fields {
		if s.Foreign != nil {
			hints = append(hints, edge.Hint{Type: edge.BelongsTo, Related: s.Foreign.RelatedEntity, Field: s.Name})
		}
	}
	t.Relations = edge.Dedup(hints)
	return t
}

func parseColumn(el string) *column {
	m := columnRe.FindStringSubmatch(el)
	if m == nil {
		return nil
	}
	c := &column{name: unqualify(m[1])}
	rest := m[2]

	// Type words run until a keyword, a parenthesis or the end.
	var words []string
	for rest != "" {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" || rest[0] == '(' {
			break
		}
		end := strings.IndexAny(rest, " \t\r\n(")
		if end < 0 {
			end = len(rest)
		}
		w := rest[:end]
		if typeStop[strings.ToLower(w)] {
			break
		}
		words = append(words, strings.ToLower(w))
		rest = rest[end:]
	}
	if len(words) == 0 {
		return nil
	}
	if strings.HasPrefix(rest, "(") {
		if args, ok := balanced(rest[1:]); ok {
			for _, a := range strings.Split(args, ",") {
				c.args = append(c.args, strings.TrimSpace(a))
			}
			rest = rest[len(args)+2:]
		}
	}
	c.typ = strings.Join(words, " ")
	c.extra = strings.TrimSpace(rest)
	if r := referencesRe.FindStringSubmatch(c.extra); r != nil {
		c.refs = unqualify(r[1])
	}
	c.primary = primaryKeyRe.MatchString(c.extra)
	return c
}

func (c *column) spec() *field.Spec {
	s := &field.Spec{Name: c.name}
	s.Type, s.Length, s.Precision = sqlType(c.typ, c.args)
	s.Nullable = !notNullRe.MatchString(c.extra)
	s.Unique = uniqueRe.MatchString(c.extra)
	if d := defaultRe.FindStringSubmatch(c.extra); d != nil {
		if v, ok := literal(d[1]); ok {
			s.Default = &v
		}
	}
	switch {
	case c.refs != "":
		s.Type = field.TypeForeignID
		singular := naming.Singular(c.refs)
		s.Foreign = &field.Foreign{
			RelatedEntity: naming.Pascal(singular),
			RelatedTable:  c.refs,
		}
	default:
		s.Foreign = field.InferForeign(s.Name, s.Type)
	}
	return s
}

// sqlType maps a SQL column type back to a field type tag.
func sqlType(typ string, args []string) (field.Type, *int, *int) {
	first := func() *int {
		if len(args) == 0 {
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil
		}
		return &n
	}
	base := typ
	if i := strings.IndexByte(base, ' '); i > 0 && !strings.HasPrefix(base, "character varying") &&
		!strings.HasPrefix(base, "double precision") && !strings.HasPrefix(base, "timestamp with") {
		base = base[:i]
	}
	switch base {
	case "varchar", "character varying", "nvarchar", "varchar2", "string":
		if n := first(); n != nil && *n != defaultLength {
			return field.TypeString, n, nil
		}
		return field.TypeString, nil, nil
	case "char", "character", "nchar", "bpchar":
		return field.TypeChar, first(), nil
	case "text", "tinytext", "mediumtext", "longtext", "clob", "citext":
		return field.TypeText, nil, nil
	case "tinyint":
		if n := first(); n != nil && *n == 1 {
			return field.TypeBoolean, nil, nil
		}
		return field.TypeTinyInteger, nil, nil
	case "smallint", "int2", "smallserial":
		return field.TypeSmallInteger, nil, nil
	case "int", "integer", "int4", "mediumint", "serial":
		return field.TypeInteger, nil, nil
	case "bigint", "int8", "bigserial":
		return field.TypeBigInteger, nil, nil
	case "decimal", "numeric", "money":
		return field.TypeDecimal, nil, first()
	case "float", "real", "float4":
		return field.TypeFloat, nil, nil
	case "double", "double precision", "float8":
		return field.TypeDouble, nil, nil
	case "bool", "boolean":
		return field.TypeBoolean, nil, nil
	case "date":
		return field.TypeDate, nil, nil
	case "datetime", "timestamp", "timestamp without time zone":
		return field.TypeDateTime, nil, nil
	case "timestamptz", "timestamp with time zone":
		return field.TypeTimestamp, nil, nil
	case "time", "timetz":
		return field.TypeTime, nil, nil
	case "json":
		return field.TypeJSON, nil, nil
	case "jsonb":
		return field.TypeJSONB, nil, nil
	case "uuid", "uniqueidentifier":
		return field.TypeUUID, nil, nil
	}
	return field.TypeString, nil, nil
}

// defaultLength is the varchar size emitted for strings without a length.
const defaultLength = 255

// literal unquotes a DEFAULT value. NULL is no default.
func literal(v string) (string, bool) {
	if i := strings.Index(v, "::"); i > 0 {
		v = v[:i]
	}
	if strings.EqualFold(v, "null") {
		return "", false
	}
	if len(v) >= 2 && v[0] == '(' && v[len(v)-1] == ')' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	if len(v) >= 2 && (v[0] == '\'' && v[len(v)-1] == '\'' || v[0] == '"' && v[len(v)-1] == '"') {
		v = strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	return v, true
}

// balanced returns the text up to the parenthesis closing an already opened
// one.
func balanced(s string) (string, bool) {
	depth, quote := 1, byte(0)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return s[:i], true
			}
		}
	}
	return "", false
}

// splitTopLevel splits a CREATE TABLE body on commas outside parentheses and
// quotes.
func splitTopLevel(body string) []string {
	var (
		out          []string
		depth, start int
		quote        byte
	)
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			out = appendTrimmed(out, body[start:i])
			start = i + 1
		}
	}
	return appendTrimmed(out, body[start:])
}

func appendTrimmed(out []string, s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return out
	}
	return append(out, s)
}

// unqualify strips quoting and a schema prefix from an identifier.
func unqualify(name string) string {
	name = strings.Trim(name, "`\"[]")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.Trim(name, "`\"[]")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// dedupFields drops fields equal by value to an earlier field, then later
// fields reusing a name.
func dedupFields(specs []*field.Spec) []*field.Spec {
	out := make([]*field.Spec, 0, len(specs))
	for _, s := range specs {
		if !slices.ContainsFunc(out, s.Equal) {
			out = append(out, s)
		}
	}
	return field.Dedup(out)
}
