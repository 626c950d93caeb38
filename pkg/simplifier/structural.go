package simplifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kataras/figma-mcp/pkg/figma"
)

// tableRowBudget is the number of rows kept per table container before the
// rest collapse into a single summary node.
const tableRowBudget = 3

// tableMinChildren and tableRepeatThreshold gate table-container
// classification: more than tableMinChildren visible children, with some
// structure signature repeated at least tableRepeatThreshold times among
// the first tableSampleSize of them.
const (
	tableMinChildren     = 3
	tableRepeatThreshold = 3
	tableSampleSize      = 10
)

// contentSampleLen is how many leading characters of a TEXT node's
// characters participate in its content signature.
const contentSampleLen = 20

// structureSignature describes the shape of a node for table-row
// detection: its type, its direct child count, and the sorted set of
// distinct child types, looking two levels deep, recursing into the
// first three children at each level.
func structureSignature(n figma.Node) string {
	return structureSignatureDepth(n, 2)
}

func structureSignatureDepth(n figma.Node, levels int) string {
	var b strings.Builder
	b.WriteString(n.Type)
	if levels <= 0 || len(n.Children) == 0 {
		return b.String()
	}

	visible := visibleChildren(n)
	fmt.Fprintf(&b, "[%d]", len(visible))

	types := make(map[string]bool)
	for _, c := range visible {
		types[c.Type] = true
	}
	distinct := make([]string, 0, len(types))
	for t := range types {
		distinct = append(distinct, t)
	}
	sort.Strings(distinct)
	b.WriteString(strings.Join(distinct, ","))

	limit := len(visible)
	if limit > 3 {
		limit = 3
	}
	for _, c := range visible[:limit] {
		b.WriteByte('|')
		b.WriteString(structureSignatureDepth(c, levels-1))
	}
	return b.String()
}

// isContainerType reports whether a node's own type contributes a
// "type[childCount]" content-signature term, as opposed to a bare type tag.
func isContainerType(t string) bool {
	switch t {
	case "FRAME", "GROUP", "INSTANCE", "COMPONENT", "COMPONENT_SET":
		return true
	default:
		return false
	}
}

// contentSignature describes a node's actual content for table-row
// deduplication. A TEXT node at the signature's own root contributes a
// sample of its literal characters truncated to contentSampleLen, so two
// root-level TEXT nodes collapse together only when their first
// contentSampleLen characters match. A TEXT node encountered deeper in the
// recursion (a descendant, not the root) contributes only its bare type
// tag: recursing into literal text at every depth would make every row
// with distinct per-row text (e.g. "Row 1", "Row 2", ...) produce a
// distinct signature, defeating deduplication for the common case of a
// list of near-identical rows. Container nodes (frame/group/instance/
// component) contribute "type[childCount]" plus the signatures of their
// first five children.
func contentSignature(n figma.Node) string {
	sig := contentSignatureDepth(n, 0)
	if sig == "" {
		return structureSignature(n)
	}
	return sig
}

func contentSignatureDepth(n figma.Node, depth int) string {
	if n.Type == "TEXT" {
		if depth == 0 {
			sample := n.Characters
			if len(sample) > contentSampleLen {
				sample = sample[:contentSampleLen]
			}
			return "TEXT:" + sample
		}
		return "TEXT"
	}

	visible := visibleChildren(n)
	own := n.Type
	if isContainerType(n.Type) {
		own = fmt.Sprintf("%s[%d]", n.Type, len(visible))
	}

	if len(visible) == 0 {
		return own
	}

	limit := len(visible)
	if limit > 5 {
		limit = 5
	}
	parts := make([]string, 0, limit)
	for _, c := range visible[:limit] {
		parts = append(parts, contentSignatureDepth(c, depth+1))
	}
	return own + "|" + strings.Join(parts, "|")
}

func visibleChildren(n figma.Node) []figma.Node {
	out := make([]figma.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.IsVisible() {
			out = append(out, c)
		}
	}
	return out
}

// IsTableContainer reports whether a node's children look like repeated
// rows worth deduplicating: more than tableMinChildren visible children,
// with some structural signature repeated at least tableRepeatThreshold
// times among the first tableSampleSize of them.
func IsTableContainer(n figma.Node) bool {
	visible := visibleChildren(n)
	if len(visible) <= tableMinChildren {
		return false
	}

	sample := visible
	if len(sample) > tableSampleSize {
		sample = sample[:tableSampleSize]
	}

	counts := make(map[string]int)
	for _, c := range sample {
		sig := structureSignature(c)
		counts[sig]++
		if counts[sig] >= tableRepeatThreshold {
			return true
		}
	}
	return false
}

// TableCounter tracks one table container's row-dedup state: a single
// shared rowCount budget across the whole container, and a per-signature
// occurrence tally (rowsSeen) used to distinguish a signature's first
// occurrence (always kept) from its later ones (kept only while rowCount
// is still under budget).
type TableCounter struct {
	rowCount int
	rowsSeen map[string]int
}

// NewTableCounter returns an empty counter, scoped to one container's
// direct children.
func NewTableCounter() *TableCounter {
	return &TableCounter{rowsSeen: make(map[string]int)}
}

// Keep reports whether a row with the given content signature should be
// kept in the output (true) or dropped in favor of the summary (false).
func (tc *TableCounter) Keep(contentSig string) bool {
	seen, ok := tc.rowsSeen[contentSig]
	if !ok {
		tc.rowsSeen[contentSig] = 1
		tc.rowCount++
		return true
	}
	tc.rowsSeen[contentSig] = seen + 1

	if tc.rowCount < tableRowBudget {
		tc.rowCount++
		return true
	}
	return false
}

// TotalObserved returns the total number of rows this counter has seen
// (kept and dropped alike), across every signature.
func (tc *TableCounter) TotalObserved() int {
	total := 0
	for _, n := range tc.rowsSeen {
		total += n
	}
	return total
}

// TotalOmitted returns total observed minus the fixed keep budget, clamped
// at zero, matching the SUMMARY node's "Omitted N" count.
func (tc *TableCounter) TotalOmitted() int {
	omitted := tc.TotalObserved() - tableRowBudget
	if omitted < 0 {
		return 0
	}
	return omitted
}
