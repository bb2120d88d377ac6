// Package callgrind decodes Callgrind profiler dumps into an in-memory
// call-graph model: position decompression, context-relative
// sub-position decoding, entry deduplication, and caller-edge
// reconstruction. It does not render anything; see the query package
// and cmd/server, cmd/viewer for consumers of the model it produces.
package callgrind

// Position identifies a profiled function context by binary object,
// source file, and function symbol. Two positions are content-equal
// iff all three strings match; equal positions share one canonical
// instance within a Model.
type Position struct {
	Binary string
	Source string
	Symbol string
}

// CostSpec is one cost line's payload: a sub-position per declared
// position axis and a cost per declared event, in declaration order.
type CostSpec struct {
	SubPositions []uint64
	Costs        []uint64
}

// Call is an outbound edge from one Entry to another: a call count, the
// call-site sub-position, and the cost attributable to this call site.
type Call struct {
	NCalls       uint64
	SubPositions []uint64
	Costs        []CostSpec
	Callee       *Entry
}

// TotalCost sums this call's cost specs per event index.
func (c *Call) TotalCost() []uint64 {
	return sumCostSpecs(c.Costs)
}

// Entry is one profiled function context: its canonical position, its
// own costs, its outbound calls, and the entries that call it. Callers
// is non-owning (weak) - cycles through mutual recursion are possible
// and must not keep entries alive by themselves.
type Entry struct {
	Position *Position
	Costs    []CostSpec
	Calls    []*Call
	Callers  []*Entry
}

// TotalCost is the inclusive cost: this entry's own costs plus every
// call it makes, summed per event index.
func (e *Entry) TotalCost() []uint64 {
	n := e.costVectorLen()
	total := make([]uint64, n)
	for _, cs := range e.Costs {
		addInto(total, cs.Costs)
	}
	for _, c := range e.Calls {
		for _, cs := range c.Costs {
			addInto(total, cs.Costs)
		}
	}
	return total
}

func (e *Entry) costVectorLen() int {
	if len(e.Costs) > 0 {
		return len(e.Costs[0].Costs)
	}
	for _, c := range e.Calls {
		if len(c.Costs) > 0 {
			return len(c.Costs[0].Costs)
		}
	}
	return 0
}

func sumCostSpecs(specs []CostSpec) []uint64 {
	if len(specs) == 0 {
		return nil
	}
	total := make([]uint64, len(specs[0].Costs))
	for _, cs := range specs {
		addInto(total, cs.Costs)
	}
	return total
}

func addInto(total, costs []uint64) {
	for i, v := range costs {
		if i < len(total) {
			total[i] += v
		}
	}
}

// Model is the immutable result of a parse: the declared event names,
// the declared position-axis names, and the entries reachable from the
// file, sorted by inclusive cost of the first event descending.
type Model struct {
	events    []string
	positions []string
	entries   []*Entry
}

func (m *Model) Events() []string    { return m.events }
func (m *Model) Positions() []string { return m.positions }
func (m *Model) Entries() []*Entry   { return m.entries }
