// Package crudgen generates a layered CRUD resource for a Go web project from
// a compact field specification or from existing SQL migration scripts.
//
// A run turns one entity name and its fields into a gorm model, a SQL
// migration, an HTTP controller, a service, a repository, request validators,
// a JSON resource, a factory, a seeder, a policy and a route registration.
// See compiler/gen for the pipeline and cmd/crudgen for the command line.
package crudgen

// Version is the crudgen release, checked against the `requires` constraint
// of a project's crudgen.yaml.
const Version = "0.4.0"
