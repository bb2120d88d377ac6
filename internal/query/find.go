// Package query provides read-only helpers over a parsed callgrind.Model:
// substring search, bounded callee/caller tree walks, and summary
// statistics. None of it mutates the model; cmd/server and cmd/viewer are
// both thin formatting layers over these functions.
package query

import (
	"strings"

	"cgviewer/internal/callgrind"
)

// FindEntries returns every entry whose symbol contains substr,
// case-insensitively, preserving Model.Entries() order.
func FindEntries(model *callgrind.Model, substr string) []*callgrind.Entry {
	needle := strings.ToLower(substr)
	var out []*callgrind.Entry
	for _, e := range model.Entries() {
		if strings.Contains(strings.ToLower(e.Position.Symbol), needle) {
			out = append(out, e)
		}
	}
	return out
}
