package callgrind

import "sort"

// buildModel performs the post-parse graph-stitching pass: merging
// entries that share a position (the same binary/source/symbol triple
// can surface as more than one cost-position block, e.g. via
// compression-index reuse), rewriting each Call.Callee stub to the
// canonical Entry sharing its position, populating reverse caller
// edges, and stable-sorting entries by inclusive cost of the first
// event, descending.
func buildModel(events, positions []string, entries []*Entry) *Model {
	entries = mergeByPosition(entries)

	byPosition := make(map[*Position]*Entry, len(entries))
	for _, e := range entries {
		byPosition[e.Position] = e
	}

	// Calls to positions never profiled on their own (external/unprofiled
	// functions) resolve to a shared placeholder Entry per position,
	// kept off Model.Entries() but still reachable via Call.Callee.
	placeholders := make(map[*Position]*Entry)

	for _, e := range entries {
		for _, c := range e.Calls {
			callee, ok := byPosition[c.Callee.Position]
			if !ok {
				if callee, ok = placeholders[c.Callee.Position]; !ok {
					callee = &Entry{Position: c.Callee.Position}
					placeholders[c.Callee.Position] = callee
				}
			}
			c.Callee = callee
			addCaller(callee, e)
		}
	}

	sorted := make([]*Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return costAt(sorted[i], 0) > costAt(sorted[j], 0)
	})

	return &Model{events: events, positions: positions, entries: sorted}
}

// mergeByPosition folds every entry sharing a canonical Position (equal
// pointer, since positions are interned at parse time) into the first
// one encountered, concatenating their cost specs and outbound calls so
// no two distinct entries in the result share a position.
func mergeByPosition(entries []*Entry) []*Entry {
	byPosition := make(map[*Position]*Entry, len(entries))
	merged := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if canonical, ok := byPosition[e.Position]; ok {
			canonical.Costs = append(canonical.Costs, e.Costs...)
			canonical.Calls = append(canonical.Calls, e.Calls...)
			continue
		}
		byPosition[e.Position] = e
		merged = append(merged, e)
	}
	return merged
}

func addCaller(callee, caller *Entry) {
	for _, existing := range callee.Callers {
		if existing == caller {
			return
		}
	}
	callee.Callers = append(callee.Callers, caller)
}

func costAt(e *Entry, index int) uint64 {
	total := e.TotalCost()
	if index < len(total) {
		return total[index]
	}
	return 0
}
