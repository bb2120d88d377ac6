package query

import "cgviewer/internal/callgrind"

// Statistics is a single-pass summary over a Model.
type Statistics struct {
	EntryCount      int
	PositionCount   int
	MaxCostEvent0   uint64
	TotalCostEvent0 uint64
	CyclicEntries   int
}

// Stats computes Statistics over model in one pass plus a bounded
// reachability check per entry for cycle detection.
func Stats(model *callgrind.Model) Statistics {
	entries := model.Entries()
	s := Statistics{EntryCount: len(entries)}

	positions := make(map[*callgrind.Position]bool)
	for _, e := range entries {
		positions[e.Position] = true
		for _, c := range e.Calls {
			if c.Callee != nil {
				positions[c.Callee.Position] = true
			}
		}
		var own uint64
		if len(e.Costs) > 0 {
			own = ownCostEvent0(e)
		}
		s.TotalCostEvent0 += own
		if total := costAt(e); total > s.MaxCostEvent0 {
			s.MaxCostEvent0 = total
		}
		if isCyclic(e, len(entries)) {
			s.CyclicEntries++
		}
	}
	s.PositionCount = len(positions)
	return s
}

func ownCostEvent0(e *callgrind.Entry) uint64 {
	var total uint64
	for _, cs := range e.Costs {
		if len(cs.Costs) > 0 {
			total += cs.Costs[0]
		}
	}
	return total
}

// isCyclic reports whether e is reachable from itself by following one
// or more Call edges. The walk is bounded by limit (the total entry
// count) so a malformed or maximally cyclic graph still terminates.
func isCyclic(e *callgrind.Entry, limit int) bool {
	seen := map[*callgrind.Entry]bool{}
	queue := make([]*callgrind.Entry, 0, len(e.Calls))
	for _, c := range e.Calls {
		if c.Callee != nil {
			queue = append(queue, c.Callee)
		}
	}
	steps := 0
	for len(queue) > 0 && steps <= limit {
		steps++
		next := queue[0]
		queue = queue[1:]
		if next == e {
			return true
		}
		if seen[next] {
			continue
		}
		seen[next] = true
		for _, c := range next.Calls {
			if c.Callee != nil {
				queue = append(queue, c.Callee)
			}
		}
	}
	return false
}
