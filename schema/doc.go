// Package schema holds the input model shared by every crudgen generator.
//
//   - [field]: the columns of an entity and the field DSL parser
//   - [edge]: relation hints between entities
//
// A run starts from one of two inputs. The DSL describes one entity:
//
//	specs := field.Parse("title:string:unique, body:text:nullable, author_id:foreignId")
//	hints := edge.FromFields(specs) // Post belongsTo Author
//
// A directory of schema scripts describes many; see compiler/load. Either way
// the generators only see []*field.Spec and []edge.Hint.
package schema
