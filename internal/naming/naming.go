// Package naming holds the word-level case and inflection transforms shared by
// the field parser and the naming deriver.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// rules is built once and only read afterwards.
var rules = newRuleset()

// irregulars extends the default ruleset, which already knows person, child
// and the -y/-ies family.
var irregulars = [][2]string{
	{"criterion", "criteria"},
	{"foot", "feet"},
	{"tooth", "teeth"},
	{"goose", "geese"},
	{"cactus", "cacti"},
	{"leaf", "leaves"},
	// irregulars match as suffixes, keep "man" -> "men" off these.
	{"human", "humans"},
	{"german", "germans"},
}

// uncountables are returned unchanged by both Plural and Singular.
var uncountables = []string{
	"equipment", "information", "metadata", "news", "series", "species", "feedback",
}

func newRuleset() *inflect.Ruleset {
	rs := inflect.NewDefaultRuleset()
	for _, p := range irregulars {
		rs.AddIrregular(p[0], p[1])
	}
	for _, w := range uncountables {
		rs.AddUncountable(w)
	}
	return rs
}

// initialisms are rendered upper case in Pascal and camel (non-leading) forms.
var initialisms = map[string]bool{
	"api": true, "html": true, "http": true, "id": true, "ip": true,
	"json": true, "sql": true, "url": true, "uuid": true, "uri": true,
}

// Words splits s on underscores, dashes, spaces and case boundaries.
// A run of upper case letters is kept together as one word ("HTTPCode" is
// "HTTP", "Code").
func Words(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Snake returns the snake_case form of s.
func Snake(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// Pascal returns the PascalCase form of s with Go initialisms upper cased.
func Pascal(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title(w))
	}
	return b.String()
}

// Camel returns the camelCase form of s.
func Camel(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title(w))
	}
	return b.String()
}

func title(w string) string {
	lw := strings.ToLower(w)
	if initialisms[lw] {
		return strings.ToUpper(lw)
	}
	r := []rune(lw)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Plural pluralizes the last word of s, keeping its separator style and
// the case of its first letter.
func Plural(s string) string {
	return inflectLast(s, rules.Pluralize)
}

// Singular singularizes the last word of s.
func Singular(s string) string {
	return inflectLast(s, rules.Singularize)
}

func inflectLast(s string, fn func(string) string) string {
	words := Words(s)
	if len(words) == 0 {
		return s
	}
	last := words[len(words)-1]
	idx := strings.LastIndex(s, last)
	if idx < 0 {
		return s
	}
	lower := strings.ToLower(last)
	out := fn(lower)
	switch {
	case last == strings.ToUpper(last) && len(last) > 1:
		out = strings.ToUpper(out)
	case unicode.IsUpper([]rune(last)[0]):
		r := []rune(out)
		r[0] = unicode.ToUpper(r[0])
		out = string(r)
	}
	return s[:idx] + out + s[idx+len(last):]
}
