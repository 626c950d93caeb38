package simplifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/kataras/figma-mcp/pkg/figma"
)

// DefaultMaxDepth bounds recursive traversal when the caller does not
// request an explicit depth.
const DefaultMaxDepth = 6

// documentWrapperDepth is the depth assigned to the raw DOCUMENT root so
// that it and its CANVAS children are never subject to depth clamping in
// their own right; real content begins at depth 0.
const documentWrapperDepth = -2

// GraphSimplifier turns one or more raw Figma document trees into a
// SimplifiedDesign: depth-clamped, visibility-filtered, style-interned,
// with repetitive table rows collapsed and single-child INSTANCE
// wrappers elided.
type GraphSimplifier struct {
	MaxDepth int
}

// NewGraphSimplifier returns a simplifier bounded to DefaultMaxDepth.
func NewGraphSimplifier() *GraphSimplifier {
	return &GraphSimplifier{MaxDepth: DefaultMaxDepth}
}

// ParseFileResponse simplifies a whole-file response's document tree.
func (g *GraphSimplifier) ParseFileResponse(resp *figma.FileResponse) *SimplifiedDesign {
	interner := NewStyleInterner()
	root := g.parseNode(resp.Document, nil, interner, documentWrapperDepth)

	var nodes []*SimplifiedNode
	if root != nil {
		for _, canvas := range root.Children {
			nodes = append(nodes, canvas.Children...)
		}
	}

	design := &SimplifiedDesign{
		Name:         resp.Name,
		LastModified: resp.LastModified,
		ThumbnailURL: resp.ThumbnailURL,
		Nodes:        nodes,
		Components:   componentInfoMap(resp.Components),
	}
	design.ComponentSets = componentSetInfoMap(resp.ComponentSets)
	design.GlobalVars = interner.Finalize(nodes)
	return design
}

// ParseNodesResponse simplifies a specific-nodes response, producing one
// top-level simplified node per requested node ID.
func (g *GraphSimplifier) ParseNodesResponse(resp *figma.NodesResponse) *SimplifiedDesign {
	interner := NewStyleInterner()

	design := &SimplifiedDesign{
		Name:          resp.Name,
		LastModified:  resp.LastModified,
		ThumbnailURL:  resp.ThumbnailURL,
		Components:    make(map[string]ComponentInfo),
		ComponentSets: make(map[string]ComponentSetInfo),
	}

	for _, nd := range resp.Nodes {
		n := g.parseNode(nd.Document, nil, interner, 0)
		if n != nil {
			design.Nodes = append(design.Nodes, n)
		}
		for k, v := range componentInfoMap(nd.Components) {
			design.Components[k] = v
		}
		for k, v := range componentSetInfoMap(nd.ComponentSets) {
			design.ComponentSets[k] = v
		}
	}
	if len(design.Components) == 0 {
		design.Components = nil
	}
	if len(design.ComponentSets) == 0 {
		design.ComponentSets = nil
	}

	design.GlobalVars = interner.Finalize(design.Nodes)
	return design
}

func componentInfoMap(in map[string]figma.Component) map[string]ComponentInfo {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]ComponentInfo, len(in))
	for id, c := range in {
		out[id] = ComponentInfo{ID: id, Key: c.Key, Name: c.Name, ComponentSetID: c.ComponentSetID}
	}
	return out
}

func componentSetInfoMap(in map[string]figma.ComponentSet) map[string]ComponentSetInfo {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]ComponentSetInfo, len(in))
	for id, cs := range in {
		out[id] = ComponentSetInfo{ID: id, Key: cs.Key, Name: cs.Name, Description: cs.Description}
	}
	return out
}

// parseNode converts one raw node and its visible descendants into a
// SimplifiedNode, applying depth clamping, style interning, table-row
// dedup and INSTANCE wrapper elision along the way. Returns nil for an
// invisible node.
func (g *GraphSimplifier) parseNode(n figma.Node, parent *figma.Node, interner *StyleInterner, depth int) *SimplifiedNode {
	if !n.IsVisible() {
		return nil
	}

	if depth > g.MaxDepth {
		return &SimplifiedNode{
			ID:   "depth_limit_" + n.ID,
			Name: n.Name,
			Type: "DEPTH_LIMIT",
			Text: fmt.Sprintf("traversal stopped at depth %d; subtree omitted", g.MaxDepth),
		}
	}

	out := &SimplifiedNode{
		ID:   n.ID,
		Name: n.Name,
		Type: n.Type,
	}
	if n.Opacity != nil && *n.Opacity != 1 {
		out.Opacity = n.Opacity
	}
	out.BorderRadius = borderRadiusCSS(n)

	if n.Type == "INSTANCE" {
		out.ComponentID = n.ComponentID
		out.ComponentProperties = componentProperties(n.ComponentProperties)
	}

	if n.Type == "TEXT" {
		out.Text = n.Characters
		if ts := transformTextStyle(n.Style); ts != nil {
			out.TextStyle = interner.Intern("text", ts)
		}
	}

	if fills := transformFills(n.Fills); len(fills) > 0 {
		out.Fills = interner.Intern("fill", fills)
	}
	if stroke := transformStroke(n); stroke != nil {
		out.Strokes = interner.Intern("stroke", stroke)
	}
	if effects := transformEffects(n.Effects); effects != nil {
		out.Effects = interner.Intern("effect", effects)
	}
	if layout := filterLayoutForSlot(transformLayout(n, parent)); layout != nil {
		out.Layout = interner.Intern("layout", layout)
	}

	out.Children = g.parseChildren(n, interner, depth)

	if n.Type == "VECTOR" {
		out.Type = "IMAGE-SVG"
	}

	return out
}

// parseChildren converts n's visible children, eliding a single
// INSTANCE-wrapping child and collapsing repeated table rows down to a
// few exemplars plus a synthesized SUMMARY node.
func (g *GraphSimplifier) parseChildren(n figma.Node, interner *StyleInterner, depth int) []*SimplifiedNode {
	visible := visibleChildren(n)
	if len(visible) == 0 {
		return nil
	}

	isTable := IsTableContainer(n)
	var counter *TableCounter
	if isTable {
		counter = NewTableCounter()
	}

	var out []*SimplifiedNode
	for _, c := range visible {
		if isTable && !counter.Keep(contentSignature(c)) {
			continue
		}

		// Wrapper elision happens before recursing, so the grandchild
		// takes over the wrapper's depth slot rather than burning one
		// of its own.
		var child *SimplifiedNode
		if grandchild, ok := instanceWrappedChild(c); ok {
			child = g.parseNode(grandchild, &c, interner, depth+1)
			if child != nil {
				child.ComponentID = c.ComponentID
				child.ComponentProperties = componentProperties(c.ComponentProperties)
				if child.Name == "" {
					child.Name = c.Name
				}
			}
		} else {
			child = g.parseNode(c, &n, interner, depth+1)
		}
		if child == nil {
			continue
		}
		out = append(out, child)
	}

	if isTable && counter.TotalOmitted() > 0 {
		out = append(out, &SimplifiedNode{
			ID:   "summary_" + newGenID(),
			Name: "Repetitive content summary",
			Type: "SUMMARY",
			Text: fmt.Sprintf("(Omitted %d similar items)", counter.TotalOmitted()),
		})
	}

	return out
}

// newGenID returns a short, parse-local unique identifier for synthetic
// nodes (SUMMARY); ids are not expected to be stable across parses.
func newGenID() string {
	return strings.ToLower(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// instanceWrappedChild reports whether n is an INSTANCE wrapping exactly
// one visible child, returning that child. Such a wrapper contributes no
// structure of its own and is elided from the output.
func instanceWrappedChild(n figma.Node) (figma.Node, bool) {
	if n.Type != "INSTANCE" {
		return figma.Node{}, false
	}
	visible := visibleChildren(n)
	if len(visible) != 1 {
		return figma.Node{}, false
	}
	return visible[0], true
}

func componentProperties(in map[string]figma.ComponentPropertyRef) []ComponentProperty {
	if len(in) == 0 {
		return nil
	}
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ComponentProperty, 0, len(names))
	for _, name := range names {
		ref := in[name]
		out = append(out, ComponentProperty{Name: name, Value: ref.Value, Type: ref.Type})
	}
	return out
}

// borderRadiusCSS renders the corner radius as a single length when
// uniform or the minimal per-corner shorthand when the corners differ.
func borderRadiusCSS(n figma.Node) string {
	if len(n.RectangleCornerRadii) == 4 {
		r := n.RectangleCornerRadii
		if r[0] == 0 && r[1] == 0 && r[2] == 0 && r[3] == 0 {
			return ""
		}
		return edgeShorthand(r[0], r[1], r[2], r[3])
	}
	if n.CornerRadius == 0 {
		return ""
	}
	return px(n.CornerRadius)
}
