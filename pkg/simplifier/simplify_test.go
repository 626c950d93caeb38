package simplifier

import (
	"regexp"
	"testing"

	"github.com/kataras/figma-mcp/pkg/figma"
)

var styleIDPattern = regexp.MustCompile(`^(style|fill|stroke|effect|layout)_[A-Z0-9]{6}$`)

// TestParseFileResponse_DepthClamp exercises the chain-of-frames depth
// clamp scenario: A -> B -> C -> D with maxDepth = 2 must yield A, B, C
// present and D replaced by a DEPTH_LIMIT placeholder carrying D's id.
func TestParseFileResponse_DepthClamp(t *testing.T) {
	d := figma.Node{ID: "D", Type: "FRAME"}
	c := figma.Node{ID: "C", Type: "FRAME", Children: []figma.Node{d}}
	b := figma.Node{ID: "B", Type: "FRAME", Children: []figma.Node{c}}
	a := figma.Node{ID: "A", Type: "FRAME", Children: []figma.Node{b}}
	canvas := figma.Node{ID: "canvas", Type: "CANVAS", Children: []figma.Node{a}}
	doc := figma.Node{ID: "0:0", Type: "DOCUMENT", Children: []figma.Node{canvas}}

	g := &GraphSimplifier{MaxDepth: 2}
	design := g.ParseFileResponse(&figma.FileResponse{Document: doc})

	if len(design.Nodes) != 1 {
		t.Fatalf("expected 1 top-level node (A), got %d", len(design.Nodes))
	}
	aOut := design.Nodes[0]
	if aOut.ID != "A" || len(aOut.Children) != 1 {
		t.Fatalf("expected A with one child, got %+v", aOut)
	}
	bOut := aOut.Children[0]
	if bOut.ID != "B" || len(bOut.Children) != 1 {
		t.Fatalf("expected B with one child, got %+v", bOut)
	}
	cOut := bOut.Children[0]
	if cOut.ID != "C" || len(cOut.Children) != 1 {
		t.Fatalf("expected C with one child, got %+v", cOut)
	}
	placeholder := cOut.Children[0]
	if placeholder.Type != "DEPTH_LIMIT" || placeholder.ID != "depth_limit_D" {
		t.Errorf("expected DEPTH_LIMIT placeholder for D, got %+v", placeholder)
	}
}

func TestParseNode_InvisibleNodeExcluded(t *testing.T) {
	hidden := false
	n := figma.Node{ID: "x", Type: "FRAME", Visible: &hidden}
	g := NewGraphSimplifier()
	if got := g.parseNode(n, nil, NewStyleInterner(), 0); got != nil {
		t.Errorf("expected invisible node to produce nil, got %+v", got)
	}
}

func TestParseChildren_SingleChildInstanceCollapses(t *testing.T) {
	parent := figma.Node{
		ID:   "f1",
		Type: "FRAME",
		Children: []figma.Node{
			{
				ID:          "inst1",
				Type:        "INSTANCE",
				ComponentID: "comp1",
				Children: []figma.Node{
					{ID: "inner", Type: "FRAME", Name: "Inner"},
				},
			},
		},
	}
	g := NewGraphSimplifier()
	children := g.parseChildren(parent, NewStyleInterner(), 0)
	if len(children) != 1 {
		t.Fatalf("expected one child, got %d", len(children))
	}
	collapsed := children[0]
	if collapsed.ID != "inner" {
		t.Fatalf("expected wrapper elided down to inner node, got id=%s", collapsed.ID)
	}
	if collapsed.ComponentID != "comp1" {
		t.Errorf("expected componentId carried onto the collapsed node")
	}
}

func TestParseChildren_MultiChildInstanceUnchanged(t *testing.T) {
	parent := figma.Node{
		ID:   "f2",
		Type: "FRAME",
		Children: []figma.Node{
			{
				ID:   "inst2",
				Type: "INSTANCE",
				Children: []figma.Node{
					{ID: "a", Type: "TEXT"},
					{ID: "b", Type: "TEXT"},
				},
			},
		},
	}
	g := NewGraphSimplifier()
	children := g.parseChildren(parent, NewStyleInterner(), 0)
	if len(children) != 1 {
		t.Fatalf("expected one child, got %d", len(children))
	}
	if children[0].ID != "inst2" || len(children[0].Children) != 2 {
		t.Fatalf("expected multi-child instance left intact, got %+v", children[0])
	}
}

// An elided INSTANCE wrapper contributes nothing, so its grandchild takes
// over the wrapper's depth slot: with the budget ending exactly where the
// wrapper sits, the grandchild must still render rather than clamp.
func TestParseFileResponse_ElidedWrapperDoesNotConsumeDepth(t *testing.T) {
	frame := figma.Node{
		ID:   "f1",
		Type: "FRAME",
		Children: []figma.Node{
			{
				ID:   "inst",
				Type: "INSTANCE",
				Children: []figma.Node{
					{ID: "txt", Type: "TEXT", Characters: "Hi"},
				},
			},
		},
	}

	g := &GraphSimplifier{MaxDepth: 1}
	design := g.ParseFileResponse(fileDoc(frame))

	out := design.Nodes[0]
	if len(out.Children) != 1 {
		t.Fatalf("expected one child, got %d", len(out.Children))
	}
	child := out.Children[0]
	if child.Type != "TEXT" || child.ID != "txt" {
		t.Fatalf("expected the grandchild rendered at the wrapper's depth, got %+v", child)
	}
}

func TestParseFileResponse_VectorBecomesImageSVG(t *testing.T) {
	doc := figma.Node{
		ID:   "0:0",
		Type: "DOCUMENT",
		Children: []figma.Node{
			{ID: "c", Type: "CANVAS", Children: []figma.Node{
				{ID: "v1", Type: "VECTOR", Name: "icon"},
			}},
		},
	}
	g := NewGraphSimplifier()
	design := g.ParseFileResponse(&figma.FileResponse{Document: doc})
	vec := design.Nodes[0]
	if vec.Type != "IMAGE-SVG" {
		t.Errorf("expected VECTOR to be rewritten to IMAGE-SVG, got %s", vec.Type)
	}
}

func fileDoc(children ...figma.Node) *figma.FileResponse {
	return &figma.FileResponse{
		Document: figma.Node{
			ID:   "0:0",
			Type: "DOCUMENT",
			Children: []figma.Node{
				{ID: "c", Type: "CANVAS", Children: children},
			},
		},
	}
}

func textNode(id, chars string) figma.Node {
	return figma.Node{
		ID:         id,
		Type:       "TEXT",
		Characters: chars,
		Style:      &figma.TypeStyle{FontFamily: "Inter", FontWeight: 400, FontSize: 16},
	}
}

func TestParseFileResponse_SharedTextStyleBelowThresholdInlines(t *testing.T) {
	g := NewGraphSimplifier()
	design := g.ParseFileResponse(fileDoc(textNode("t1", "a"), textNode("t2", "b")))

	if len(design.GlobalVars.Styles) != 0 {
		t.Fatalf("expected no promoted styles for a 2-use text style, got %v", design.GlobalVars.Styles)
	}
	for _, n := range design.Nodes {
		if n.TextStyle == nil || n.TextStyle.IsRef() {
			t.Errorf("node %s: expected inlined textStyle literal, got %+v", n.ID, n.TextStyle)
		}
	}
}

func TestParseFileResponse_SharedTextStyleAtThresholdInterns(t *testing.T) {
	g := NewGraphSimplifier()
	design := g.ParseFileResponse(fileDoc(textNode("t1", "a"), textNode("t2", "b"), textNode("t3", "c")))

	if len(design.GlobalVars.Styles) != 1 {
		t.Fatalf("expected one promoted style, got %v", design.GlobalVars.Styles)
	}
	var shared StyleID
	for _, n := range design.Nodes {
		if n.TextStyle == nil || !n.TextStyle.IsRef() {
			t.Fatalf("node %s: expected textStyle ref at threshold, got %+v", n.ID, n.TextStyle)
		}
		if shared == "" {
			shared = n.TextStyle.Ref
		} else if n.TextStyle.Ref != shared {
			t.Errorf("expected all three nodes to share one id, got %s vs %s", shared, n.TextStyle.Ref)
		}
	}
	if _, ok := design.GlobalVars.Styles[shared]; !ok {
		t.Errorf("shared id %s missing from globalVars", shared)
	}
	if !styleIDPattern.MatchString(string(shared)) {
		t.Errorf("id %s does not match the wire format", shared)
	}
}

func TestParseFileResponse_TableRowsCollapseWithSummary(t *testing.T) {
	var rows []figma.Node
	for i := 1; i <= 7; i++ {
		k := string(rune('0' + i))
		rows = append(rows, figma.Node{
			ID:   "row" + k,
			Type: "FRAME",
			Children: []figma.Node{
				{ID: "n" + k, Type: "TEXT", Characters: "Row " + k + " name"},
				{ID: "v" + k, Type: "TEXT", Characters: "Row " + k + " value"},
			},
		})
	}
	container := figma.Node{ID: "table", Type: "FRAME", Children: rows}

	g := NewGraphSimplifier()
	design := g.ParseFileResponse(fileDoc(container))

	out := design.Nodes[0]
	if len(out.Children) != 4 {
		t.Fatalf("expected 3 exemplar rows plus a summary, got %d children", len(out.Children))
	}
	for i, id := range []string{"row1", "row2", "row3"} {
		if out.Children[i].ID != id {
			t.Errorf("child %d: expected %s in input order, got %s", i, id, out.Children[i].ID)
		}
	}
	summary := out.Children[3]
	if summary.Type != "SUMMARY" || summary.Name != "Repetitive content summary" {
		t.Fatalf("expected trailing SUMMARY node, got %+v", summary)
	}
	if summary.Text != "(Omitted 4 similar items)" {
		t.Errorf("unexpected summary text: %q", summary.Text)
	}
}

func TestParseFileResponse_InstanceWrapperElidedInTraversal(t *testing.T) {
	frame := figma.Node{
		ID:   "f1",
		Type: "FRAME",
		Children: []figma.Node{
			{
				ID:          "inst",
				Type:        "INSTANCE",
				ComponentID: "comp1",
				Children: []figma.Node{
					{ID: "txt", Type: "TEXT", Characters: "Hi"},
				},
			},
		},
	}

	g := NewGraphSimplifier()
	design := g.ParseFileResponse(fileDoc(frame))

	out := design.Nodes[0]
	if len(out.Children) != 1 {
		t.Fatalf("expected one child, got %d", len(out.Children))
	}
	child := out.Children[0]
	if child.ID != "txt" || child.Type != "TEXT" || child.Text != "Hi" {
		t.Fatalf("expected the INSTANCE layer elided down to the TEXT, got %+v", child)
	}
}

func TestParseFileResponse_BareNodeEmitsIdentityOnly(t *testing.T) {
	g := NewGraphSimplifier()
	design := g.ParseFileResponse(fileDoc(figma.Node{ID: "r1", Name: "box", Type: "RECTANGLE"}))

	n := design.Nodes[0]
	if n.ID != "r1" || n.Name != "box" || n.Type != "RECTANGLE" {
		t.Fatalf("unexpected identity: %+v", n)
	}
	if n.Text != "" || n.Opacity != nil || n.BorderRadius != "" ||
		n.TextStyle != nil || n.Fills != nil || n.Strokes != nil || n.Effects != nil ||
		n.Layout != nil || n.Children != nil {
		t.Errorf("expected only id/name/type for a bare node, got %+v", n)
	}
}

func TestParseFileResponse_IdempotentOnAlreadySimplifiedShape(t *testing.T) {
	doc := figma.Node{
		ID:   "0:0",
		Type: "DOCUMENT",
		Children: []figma.Node{
			{ID: "c", Type: "CANVAS", Children: []figma.Node{
				{ID: "f1", Type: "FRAME", Name: "Root"},
			}},
		},
	}
	g := NewGraphSimplifier()
	d1 := g.ParseFileResponse(&figma.FileResponse{Document: doc})
	d2 := g.ParseFileResponse(&figma.FileResponse{Document: doc})
	if len(d1.Nodes) != len(d2.Nodes) {
		t.Fatalf("expected repeated simplification of the same input to be stable")
	}
}
