package query

import "cgviewer/internal/callgrind"

// TreeNode is one node of a bounded callee/caller walk: the entry it
// represents, how many times it was invoked along this edge, its
// inclusive cost as a percentage (basis depends on walk direction, see
// Callees and Callers), and its children.
type TreeNode struct {
	Entry    *callgrind.Entry
	NCalls   uint64
	Pct      float64
	Children []TreeNode
}

// Callees walks entry.Calls depth-first (recursively, depth-bounded) up
// to maxDepth, pruning any child whose inclusive cost share of the root
// entry's own inclusive cost (event index 0) falls below minPct. A
// callee already on the current path terminates that path instead of
// recursing forever, so mutually recursive call graphs are safe to walk.
func Callees(entry *callgrind.Entry, maxDepth int, minPct float64) TreeNode {
	rootTotal := costAt(entry)
	visited := map[*callgrind.Entry]bool{entry: true}
	return buildCalleeNode(entry, 0, rootTotal, maxDepth, minPct, visited)
}

func buildCalleeNode(e *callgrind.Entry, ncalls uint64, rootTotal uint64, depth int, minPct float64, visited map[*callgrind.Entry]bool) TreeNode {
	node := TreeNode{Entry: e, NCalls: ncalls, Pct: pctOf(costAt(e), rootTotal)}
	if depth <= 0 {
		return node
	}
	for _, call := range e.Calls {
		callee := call.Callee
		if visited[callee] {
			continue
		}
		if pctOf(costAt(callee), rootTotal) < minPct {
			continue
		}
		childVisited := extendVisited(visited, callee)
		child := buildCalleeNode(callee, call.NCalls, rootTotal, depth-1, minPct, childVisited)
		node.Children = append(node.Children, child)
	}
	return node
}

// Callers walks entry.Callers ascending, the same bounded/cycle-safe way
// as Callees. Since callers share no single cost basis with the root
// entry, minPct is evaluated level by level: a caller is kept when the
// current node's inclusive cost is at least minPct percent of that
// caller's inclusive cost. Each child's Pct is the caller's inclusive
// cost as a percentage of the node it was reached from.
func Callers(entry *callgrind.Entry, maxDepth int, minPct float64) TreeNode {
	visited := map[*callgrind.Entry]bool{entry: true}
	return buildCallerNode(entry, costAt(entry), maxDepth, minPct, visited)
}

func buildCallerNode(e *callgrind.Entry, basis uint64, depth int, minPct float64, visited map[*callgrind.Entry]bool) TreeNode {
	node := TreeNode{Entry: e, Pct: pctOf(costAt(e), basis)}
	if depth <= 0 {
		return node
	}
	nodeTotal := costAt(e)
	for _, caller := range e.Callers {
		if visited[caller] {
			continue
		}
		if pctOf(nodeTotal, costAt(caller)) < minPct {
			continue
		}
		childVisited := extendVisited(visited, caller)
		child := buildCallerNode(caller, nodeTotal, depth-1, minPct, childVisited)
		child.NCalls = ncallsInto(caller, e)
		node.Children = append(node.Children, child)
	}
	return node
}

// ncallsInto sums the call counts of every call site in caller that
// targets callee, since a caller may reach the same callee from more
// than one call site.
func ncallsInto(caller, callee *callgrind.Entry) uint64 {
	var total uint64
	for _, c := range caller.Calls {
		if c.Callee == callee {
			total += c.NCalls
		}
	}
	return total
}

func callTotalCost(c *callgrind.Call) uint64 {
	total := c.TotalCost()
	if len(total) == 0 {
		return 0
	}
	return total[0]
}

func costAt(e *callgrind.Entry) uint64 {
	total := e.TotalCost()
	if len(total) == 0 {
		return 0
	}
	return total[0]
}

func pctOf(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func extendVisited(visited map[*callgrind.Entry]bool, e *callgrind.Entry) map[*callgrind.Entry]bool {
	out := make(map[*callgrind.Entry]bool, len(visited)+1)
	for k := range visited {
		out[k] = true
	}
	out[e] = true
	return out
}
