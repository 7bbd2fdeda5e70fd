package gen

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/crudgen/internal/naming"
)

// Naming is the set of name forms of one entity, derived once per run and
// shared by every generator.
type Naming struct {
	// Name is the singular Pascal form: BlogPost.
	Name string
	// Plural is the plural Pascal form: BlogPosts.
	Plural string
	// Snake is the singular snake form, used for file names: blog_post.
	Snake string
	// Table is the plural snake form: blog_posts.
	Table string
	// Camel is the singular camel form: blogPost.
	Camel string
	// CamelPlural is the plural camel form: blogPosts.
	CamelPlural string
	// Label and LabelPlural are human titles: Blog Post, Blog Posts.
	Label       string
	LabelPlural string
	// Receiver is the method receiver name of generated types.
	Receiver string
}

// DeriveNaming normalizes a raw entity name given in snake, kebab, space
// separated or camel form, singular or plural.
func DeriveNaming(raw string) Naming {
	snake := naming.Singular(naming.Snake(strings.TrimSpace(raw)))
	name := naming.Pascal(snake)
	table := naming.Plural(snake)
	n := Naming{
		Name:        name,
		Plural:      naming.Pascal(table),
		Snake:       snake,
		Table:       table,
		Camel:       naming.Camel(snake),
		CamelPlural: naming.Camel(table),
		Label:       label(snake),
		LabelPlural: label(table),
	}
	if n.Camel != "" {
		n.Receiver = strings.ToLower(n.Camel[:1])
	}
	return n
}

// IsZero reports whether the naming was derived from an empty name.
func (n Naming) IsZero() bool { return n.Name == "" }

// FileName returns the snake file name with the given suffix:
// FileName("_controller.go") is blog_post_controller.go.
func (n Naming) FileName(suffix string) string {
	return n.Snake + suffix
}

func label(snake string) string {
	// A Caser is stateful and cannot be shared across batch workers.
	return cases.Title(language.English).String(strings.ReplaceAll(snake, "_", " "))
}
