package simplifier

import "testing"

func TestStyleInterner_BelowThresholdInlines(t *testing.T) {
	in := NewStyleInterner()
	nodes := []*SimplifiedNode{
		{ID: "1", Fills: in.Intern("fill", []Fill{{Type: "SOLID", Hex: "#FF0000"}})},
		{ID: "2", Fills: in.Intern("fill", []Fill{{Type: "SOLID", Hex: "#FF0000"}})},
	}

	vars := in.Finalize(nodes)
	if len(vars.Styles) != 0 {
		t.Fatalf("expected no promoted styles for a 2-use value, got %d", len(vars.Styles))
	}
	for _, n := range nodes {
		if n.Fills.IsRef() {
			t.Errorf("node %s: expected inlined value below threshold, still a ref", n.ID)
		}
	}
}

func TestStyleInterner_AtThresholdPromotes(t *testing.T) {
	in := NewStyleInterner()
	nodes := []*SimplifiedNode{
		{ID: "1", Fills: in.Intern("fill", []Fill{{Type: "SOLID", Hex: "#00FF00"}})},
		{ID: "2", Fills: in.Intern("fill", []Fill{{Type: "SOLID", Hex: "#00FF00"}})},
		{ID: "3", Fills: in.Intern("fill", []Fill{{Type: "SOLID", Hex: "#00FF00"}})},
	}

	vars := in.Finalize(nodes)
	if len(vars.Styles) != 1 {
		t.Fatalf("expected exactly one promoted style, got %d", len(vars.Styles))
	}
	for _, n := range nodes {
		if !n.Fills.IsRef() {
			t.Errorf("node %s: expected ref at threshold, got inlined value", n.ID)
		}
	}
}

func TestStyleInterner_DistinctValuesNeverMerge(t *testing.T) {
	in := NewStyleInterner()
	a := in.Intern("fill", []Fill{{Type: "SOLID", Hex: "#111111"}})
	b := in.Intern("fill", []Fill{{Type: "SOLID", Hex: "#222222"}})
	if a.Ref == b.Ref {
		t.Fatalf("expected distinct ids for distinct values")
	}
}

func TestStyleInterner_CanonicalizationIgnoresKeyOrder(t *testing.T) {
	a := canonicalKey(map[string]any{"b": 1, "a": 2})
	b := canonicalKey(map[string]any{"a": 2, "b": 1})
	if a != b {
		t.Fatalf("expected key-order-independent canonicalization, got %q vs %q", a, b)
	}
}
