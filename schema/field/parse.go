package field

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	defaultRe   = regexp.MustCompile(`^default\((.*?)\)$`)
	lengthRe    = regexp.MustCompile(`^length\((\d+)\)$`)
	precisionRe = regexp.MustCompile(`^precision\((\d+)\)$`)
)

// Parse parses a field DSL string into specs, keeping clause order. Parse
// never fails: malformed clauses and unknown modifiers are dropped.
func Parse(spec string) []*Spec {
	var (
		specs []*Spec
		seen  = make(map[string]bool)
	)
	for _, clause := range strings.Split(spec, ",") {
		s := parseClause(clause)
		if s == nil || seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		specs = append(specs, s)
	}
	return specs
}

func parseClause(clause string) *Spec {
	parts := strings.Split(strings.TrimSpace(clause), ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	name := parts[0]
	if name == "" {
		return nil
	}
	s := &Spec{Name: name, Type: TypeString}
	if len(parts) > 1 && parts[1] != "" {
		s.Type = Type(parts[1])
	}
	for _, mod := range parts[min(2, len(parts)):] {
		applyModifier(s, mod)
	}
	s.Foreign = InferForeign(s.Name, s.Type)
	return s
}

func applyModifier(s *Spec, mod string) {
	switch mod {
	case "nullable":
		s.Nullable = true
		return
	case "unique":
		s.Unique = true
		return
	case "index":
		s.Index = true
		return
	}
	if m := defaultRe.FindStringSubmatch(mod); m != nil {
		v := m[1]
		s.Default = &v
	} else if m := lengthRe.FindStringSubmatch(mod); m != nil {
		s.Length = atoi(m[1])
	} else if m := precisionRe.FindStringSubmatch(mod); m != nil {
		s.Precision = atoi(m[1])
	}
}

func atoi(v string) *int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
