package query

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func findChild(n TreeNode, symbol string) (TreeNode, bool) {
	for _, c := range n.Children {
		if c.Entry.Position.Symbol == symbol {
			return c, true
		}
	}
	return TreeNode{}, false
}

func TestCalleesBuildsTreeWithRootBasisPct(t *testing.T) {
	m := mustParse(t, sampleGraph)
	entries := m.Entries()
	root := entries[0]
	if root.Position.Symbol != "main" {
		t.Fatalf("expected main to be the hottest entry, got %s", root.Position.Symbol)
	}

	tree := Callees(root, 2, 0)
	if tree.Entry.Position.Symbol != "main" || !approxEqual(tree.Pct, 100) {
		t.Fatalf("unexpected root node: %+v", tree)
	}

	helperOne, ok := findChild(tree, "helper_one")
	if !ok {
		t.Fatal("expected helper_one as a child of main")
	}
	if !approxEqual(helperOne.Pct, 50.0) || helperOne.NCalls != 1 {
		t.Fatalf("unexpected helper_one node: %+v", helperOne)
	}

	leafHelper, ok := findChild(helperOne, "leaf_helper")
	if !ok {
		t.Fatal("expected leaf_helper as a grandchild via helper_one")
	}
	if !approxEqual(leafHelper.Pct, 2.0/90.0*100) || leafHelper.NCalls != 2 {
		t.Fatalf("unexpected leaf_helper node: %+v", leafHelper)
	}

	helperTwo, ok := findChild(tree, "helper_two")
	if !ok {
		t.Fatal("expected helper_two as a child of main")
	}
	if !approxEqual(helperTwo.Pct, 3.0/90.0*100) {
		t.Fatalf("unexpected helper_two node: %+v", helperTwo)
	}
}

func TestCalleesPrunesBelowMinPct(t *testing.T) {
	m := mustParse(t, sampleGraph)
	entries := m.Entries()
	root := entries[0]

	tree := Callees(root, 2, 10)
	if _, ok := findChild(tree, "helper_two"); ok {
		t.Fatal("expected helper_two (3.3%) to be pruned at minPct=10")
	}
	if _, ok := findChild(tree, "helper_one"); !ok {
		t.Fatal("expected helper_one (50%) to survive minPct=10")
	}
}

func TestCalleesRespectsMaxDepth(t *testing.T) {
	m := mustParse(t, sampleGraph)
	root := m.Entries()[0]

	tree := Callees(root, 1, 0)
	helperOne, ok := findChild(tree, "helper_one")
	if !ok {
		t.Fatal("expected helper_one at depth 1")
	}
	if len(helperOne.Children) != 0 {
		t.Fatalf("expected depth=1 walk to stop before helper_one's own calls, got %d children", len(helperOne.Children))
	}
}

func TestCallersWalksAscendingAndCountsCallSites(t *testing.T) {
	m := mustParse(t, sampleGraph)
	for _, e := range m.Entries() {
		if e.Position.Symbol == "leaf_helper" {
			tree := Callers(e, 2, 0)
			if !approxEqual(tree.Pct, 100) {
				t.Fatalf("expected root node pct=100, got %v", tree.Pct)
			}
			helperOne, ok := findChild(tree, "helper_one")
			if !ok {
				t.Fatal("expected helper_one as leaf_helper's only caller")
			}
			if helperOne.NCalls != 2 {
				t.Fatalf("expected NCalls=2 (one calls=2 site), got %d", helperOne.NCalls)
			}
			mainNode, ok := findChild(helperOne, "main")
			if !ok {
				t.Fatal("expected main as helper_one's caller")
			}
			if mainNode.NCalls != 1 {
				t.Fatalf("expected main->helper_one NCalls=1, got %d", mainNode.NCalls)
			}
			return
		}
	}
	t.Fatal("leaf_helper entry not found")
}

func TestCalleesCycleSafe(t *testing.T) {
	m := mustParse(t, `events: Ir
positions: line

fl=(1) a.c
fn=(1) f
1 1
cfn=(2) g
calls=1 1
1 1

fl=(1)
fn=(2)
1 1
cfn=(1)
calls=1 1
1 1
`)
	root := m.Entries()[0]

	tree := Callees(root, 50, 0)
	// A cycle must terminate the walk along that path rather than
	// recursing forever; the call tree can be at most two levels deep
	// here (root, its callee, and no further since the callee's own
	// call closes the cycle back to root).
	if len(tree.Children) != 1 {
		t.Fatalf("expected exactly one child, got %d", len(tree.Children))
	}
	child := tree.Children[0]
	if len(child.Children) != 0 {
		t.Fatalf("expected the cyclic edge back to root to be pruned, got %d children", len(child.Children))
	}
}
