package load

import (
	"sort"

	"go.uber.org/zap"

	"github.com/syssam/crudgen/internal/logging"
	"github.com/syssam/crudgen/schema/edge"
)

// InferPivots finds the pivot tables of a batch and returns the many-to-many
// hints they imply, keyed by entity name. A pivot T linking A and B gives A
// a BelongsToMany B through T and B a BelongsToMany A through T.
//
// It must run after every table of the batch is extracted.
func InferPivots(tables []*Table) map[string][]edge.Hint {
	sorted := make([]*Table, len(tables))
	copy(sorted, tables)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	hints := make(map[string][]edge.Hint)
	for _, t := range sorted {
		if !t.IsPivot() {
			continue
		}
		rels := edge.Filter(t.Relations, edge.BelongsTo)
		a, b := rels[0].Related, rels[1].Related
		if a == "" || b == "" {
			logging.Warn("skipping pivot with unnamed side", zap.String("table", t.Name))
			continue
		}
		hints[a] = append(hints[a], edge.Hint{Type: edge.BelongsToMany, Related: b, Through: t.Name})
		hints[b] = append(hints[b], edge.Hint{Type: edge.BelongsToMany, Related: a, Through: t.Name})
	}
	for k, v := range hints {
		hints[k] = edge.Dedup(v)
	}
	return hints
}

// Pivots returns the names of the pivot tables in tables.
func Pivots(tables []*Table) map[string]bool {
	out := make(map[string]bool)
	for _, t := range tables {
		if t.IsPivot() {
			out[t.Name] = true
		}
	}
	return out
}
