package query

import (
	"strings"
	"testing"
)

func TestFormatHotIncludesTopEntry(t *testing.T) {
	m := mustParse(t, sampleGraph)
	out := FormatHot(m.Entries(), 2)
	if !strings.Contains(out, "main") {
		t.Fatalf("expected main in output, got %q", out)
	}
	if strings.Contains(out, "leaf_helper") {
		t.Fatalf("expected top=2 to exclude leaf_helper, got %q", out)
	}
}

func TestFormatHotEmpty(t *testing.T) {
	out := FormatHot(nil, 10)
	if !strings.Contains(out, "no entries") {
		t.Fatalf("expected a no-entries message, got %q", out)
	}
}

func TestFormatTreeIndentsByDepth(t *testing.T) {
	m := mustParse(t, sampleGraph)
	root := m.Entries()[0]
	tree := Callees(root, 2, 0)
	out := FormatTree(tree)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected at least root + one child line, got %q", out)
	}
	if strings.HasPrefix(lines[0], " ") {
		t.Fatalf("expected root line unindented, got %q", lines[0])
	}
	foundIndented := false
	for _, l := range lines[1:] {
		if strings.HasPrefix(l, "  ") {
			foundIndented = true
		}
	}
	if !foundIndented {
		t.Fatalf("expected at least one indented child line, got %q", out)
	}
}

func TestFormatStatsContainsAllFields(t *testing.T) {
	m := mustParse(t, sampleGraph)
	out := FormatStats(Stats(m))
	for _, want := range []string{"entries:", "positions:", "max cost:", "total cost:", "cyclic entries:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestFormatFindResultsEmpty(t *testing.T) {
	out := FormatFindResults(nil)
	if !strings.Contains(out, "no matches") {
		t.Fatalf("expected a no-matches message, got %q", out)
	}
}

func TestFormatEntryDetailIncludesCallsAndCallers(t *testing.T) {
	m := mustParse(t, sampleGraph)
	var helperOne = FindEntries(m, "helper_one")[0]
	out := FormatEntryDetail(helperOne)
	if !strings.Contains(out, "leaf_helper") {
		t.Fatalf("expected outbound call to leaf_helper in detail, got %q", out)
	}
	if !strings.Contains(out, "main") {
		t.Fatalf("expected caller main in detail, got %q", out)
	}
}
