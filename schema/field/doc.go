// Package field describes the columns of a generated entity and parses the
// compact field DSL used on the command line:
//
//	title:string:unique,body:text:nullable,author_id:integer
//
// Each comma separated clause is name[:type[:modifier]*]. A clause without a
// name is skipped, a missing type means string, and modifiers other than
//
//	nullable unique index default(<literal>) length(<n>) precision(<n>)
//
// are ignored. When two clauses share a name the first one wins.
//
// # Foreign Keys
//
// A field is a foreign key when its type is foreignId (or reference-id) or
// when its name ends in _id:
//
//	field.Parse("author_id:integer")[0].Foreign
//	// &field.Foreign{RelatedEntity: "Author", RelatedTable: "authors"}
package field
