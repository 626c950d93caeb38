package simplifier

import (
	"testing"

	"github.com/kataras/figma-mcp/pkg/figma"
)

func makeRow(label string) figma.Node {
	return figma.Node{
		Type: "FRAME",
		Children: []figma.Node{
			{Type: "TEXT", Characters: label + " name"},
			{Type: "TEXT", Characters: label + " value"},
		},
	}
}

// TestTableRowDedup_SevenIdenticalRowsKeepThreePlusSummary exercises the
// table-detection scenario: seven structurally identical rows differing
// only in per-row label text must be recognized as one repeated shape,
// kept up to three times, with the rest summarized.
func TestTableRowDedup_SevenIdenticalRowsKeepThreePlusSummary(t *testing.T) {
	var rows []figma.Node
	for i := 1; i <= 7; i++ {
		rows = append(rows, makeRow("Row"+string(rune('0'+i)))) //nolint:staticcheck
	}
	container := figma.Node{ID: "table", Type: "FRAME", Children: rows}

	if !IsTableContainer(container) {
		t.Fatalf("expected container with 7 identically-shaped rows to be detected as a table")
	}

	counter := NewTableCounter()
	kept := 0
	for _, r := range rows {
		if counter.Keep(contentSignature(r)) {
			kept++
		}
	}
	if kept != 3 {
		t.Errorf("expected exactly 3 rows kept, got %d", kept)
	}
	if counter.TotalOmitted() != 4 {
		t.Errorf("expected exactly 4 rows omitted, got %d", counter.TotalOmitted())
	}
}

func TestTableRowDedup_DifferentContentAtRootStillDistinguishes(t *testing.T) {
	a := contentSignature(figma.Node{Type: "TEXT", Characters: "Alpha"})
	b := contentSignature(figma.Node{Type: "TEXT", Characters: "Beta"})
	if a == b {
		t.Fatalf("expected distinct content signatures for distinct root-level text")
	}
}

func TestTableRowDedup_NestedTextDoesNotFragmentSignature(t *testing.T) {
	a := contentSignature(makeRow("Row1"))
	b := contentSignature(makeRow("Row2"))
	if a != b {
		t.Fatalf("expected nested TEXT children to not fragment the content signature: %q vs %q", a, b)
	}
}

func TestIsTableContainer_ThreeRepeatsAmongFourChildrenIsATable(t *testing.T) {
	container := figma.Node{
		Type: "FRAME",
		Children: []figma.Node{
			makeRow("Row1"), makeRow("Row2"), makeRow("Row3"),
			{Type: "RECTANGLE"},
		},
	}
	if !IsTableContainer(container) {
		t.Fatalf("expected 3 repeated signatures among 4 children to trigger table detection")
	}
}

func TestIsTableContainer_TwoRepeatsIsNotATable(t *testing.T) {
	container := figma.Node{
		Type: "FRAME",
		Children: []figma.Node{
			makeRow("Row1"), makeRow("Row2"),
			{Type: "RECTANGLE"}, {Type: "ELLIPSE"},
		},
	}
	if IsTableContainer(container) {
		t.Fatalf("expected only 2 repeated signatures to not trigger table detection")
	}
}

func TestIsTableContainer_FewChildrenNotATable(t *testing.T) {
	container := figma.Node{
		Type: "FRAME",
		Children: []figma.Node{
			{Type: "TEXT", Characters: "a"},
			{Type: "RECTANGLE"},
		},
	}
	if IsTableContainer(container) {
		t.Fatalf("expected a 2-child container to not be classified as a table")
	}
}
