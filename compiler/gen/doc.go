// Package gen turns field specs into the source artifacts of one CRUD
// resource of a target Go web project.
//
// # Architecture
//
// Generation follows this flow:
//
//	field spec string            schema scripts (compiler/load)
//	        ↓                            ↓
//	   []*field.Spec  ←──────────  Extract + InferPivots
//	        ↓
//	   DeriveNaming (once per entity)
//	        ↓
//	   Pipeline ── Generator per Kind (compiler/gen/crud)
//	        ↓
//	   []*Artifact
//	        ↓
//	   Writer (sequential, skip or append)
//
// # Key Types
//
//   - Config: resolved generation configuration, passed by value
//   - Naming: the name forms of one entity
//   - Generator: renders one artifact kind, no I/O
//   - Pipeline: runs generators for one entity or a batch
//   - Writer: writes artifacts and reports Written, Skipped or Appended
//
// The rule tables in rules.go (Go types, validation tags, fake samples) are
// shared by every generator so that the model, requests, resources and
// factories of an entity agree.
//
// # Error Handling
//
// Errors are typed: ConfigError, GenerationError and ValidationError match
// ErrInvalidConfig, ErrGenerationFailed and ErrValidationFailed with
// errors.Is. An existing file is not an error: it is reported as Skipped.
package gen
