package query

import (
	"fmt"
	"strings"

	"cgviewer/internal/callgrind"
)

// FormatHot renders the top n entries (by event-0 cost) as a table:
// symbol, binary, event-0 cost, and percentage of the hottest entry's
// cost. entries is expected already cost-sorted, as Model.Entries() is.
func FormatHot(entries []*callgrind.Entry, n int) string {
	if len(entries) == 0 {
		return "no entries\n"
	}
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	top := costAt(entries[0])

	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %-20s %12s %7s\n", "SYMBOL", "BINARY", "COST", "PCT")
	for _, e := range entries {
		cost := costAt(e)
		fmt.Fprintf(&b, "%-40s %-20s %12d %6.1f%%\n", e.Position.Symbol, e.Position.Binary, cost, pctOf(cost, top))
	}
	return b.String()
}

// FormatTree renders a TreeNode as an indented, percentage-annotated
// tree, matching the pack's "[pct%] name" convention.
func FormatTree(root TreeNode) string {
	var b strings.Builder
	var walk func(n TreeNode, indent int)
	walk = func(n TreeNode, indent int) {
		pad := strings.Repeat("  ", indent)
		if n.NCalls > 0 {
			fmt.Fprintf(&b, "%s[%.1f%%] %s (x%d)\n", pad, n.Pct, n.Entry.Position.Symbol, n.NCalls)
		} else {
			fmt.Fprintf(&b, "%s[%.1f%%] %s\n", pad, n.Pct, n.Entry.Position.Symbol)
		}
		for _, c := range n.Children {
			walk(c, indent+1)
		}
	}
	walk(root, 0)
	return b.String()
}

// FormatStats renders a Statistics summary as a small fixed report.
func FormatStats(s Statistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "entries:        %d\n", s.EntryCount)
	fmt.Fprintf(&b, "positions:      %d\n", s.PositionCount)
	fmt.Fprintf(&b, "max cost:       %d\n", s.MaxCostEvent0)
	fmt.Fprintf(&b, "total cost:     %d\n", s.TotalCostEvent0)
	fmt.Fprintf(&b, "cyclic entries: %d\n", s.CyclicEntries)
	return b.String()
}

// FormatFindResults renders candidate entries for a symbol lookup,
// enough detail to pick an unambiguous match for Callees/Callers.
func FormatFindResults(entries []*callgrind.Entry) string {
	if len(entries) == 0 {
		return "no matches\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %-20s %-30s %12s\n", "SYMBOL", "BINARY", "SOURCE", "COST")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-40s %-20s %-30s %12d\n", e.Position.Symbol, e.Position.Binary, e.Position.Source, costAt(e))
	}
	return b.String()
}

// FormatEntryDetail renders the full detail of one entry: its position,
// every cost spec, every outbound call, and every caller.
func FormatEntryDetail(e *callgrind.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "symbol: %s\n", e.Position.Symbol)
	fmt.Fprintf(&b, "binary: %s\n", e.Position.Binary)
	fmt.Fprintf(&b, "source: %s\n", e.Position.Source)
	fmt.Fprintf(&b, "inclusive cost: %v\n", e.TotalCost())

	fmt.Fprintf(&b, "own cost specs (%d):\n", len(e.Costs))
	for _, cs := range e.Costs {
		fmt.Fprintf(&b, "  pos=%v costs=%v\n", cs.SubPositions, cs.Costs)
	}

	fmt.Fprintf(&b, "calls (%d):\n", len(e.Calls))
	for _, c := range e.Calls {
		fmt.Fprintf(&b, "  -> %s  ncalls=%d  cost=%v\n", c.Callee.Position.Symbol, c.NCalls, c.TotalCost())
	}

	fmt.Fprintf(&b, "callers (%d):\n", len(e.Callers))
	for _, caller := range e.Callers {
		fmt.Fprintf(&b, "  <- %s\n", caller.Position.Symbol)
	}
	return b.String()
}
