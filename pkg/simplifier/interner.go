package simplifier

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// styleIDNamespace is a fixed namespace UUID used to derive deterministic,
// content-addressed style IDs: the same canonical style value always hashes
// to the same id, in this run and any other.
var styleIDNamespace = uuid.MustParse("6f6d9d1e-6e0a-4e3e-9e8a-2f9f0c6b6b31")

// internThreshold is the usage count at which a style is worth hoisting
// into globalVars instead of being repeated inline at every node. Below
// this, the reference indirection costs more bytes than it saves.
const internThreshold = 3

// styleKindPrefix maps a style kind to its StyleID wire prefix.
var styleKindPrefix = map[string]string{
	"fill":   "fill",
	"stroke": "stroke",
	"effect": "effect",
	"text":   "style",
	"layout": "layout",
}

// internedStyle tracks one distinct canonicalized style value as it
// accumulates usages across the traversal.
type internedStyle struct {
	id    StyleID
	value any
	count int
}

// StyleInterner deduplicates style values encountered during traversal by
// canonical content, assigning each distinct value a stable StyleID and
// only promoting values used internThreshold times or more into the final
// GlobalVars table. Values below the threshold are inlined at every call
// site that referenced them.
type StyleInterner struct {
	byKey map[string]*internedStyle
	byID  map[StyleID]*internedStyle
}

// NewStyleInterner returns an empty interner.
func NewStyleInterner() *StyleInterner {
	return &StyleInterner{
		byKey: make(map[string]*internedStyle),
		byID:  make(map[StyleID]*internedStyle),
	}
}

// Intern records one usage of value under the given kind ("fill", "stroke",
// "effect", "text", "layout") and returns a slot that is always a Ref at
// this point; Finalize later rewrites slots below threshold back to
// inlined values.
func (in *StyleInterner) Intern(kind string, value any) *StyleSlot {
	if value == nil {
		return nil
	}
	key := kind + "|" + canonicalKey(value)

	s, ok := in.byKey[key]
	if !ok {
		s = &internedStyle{id: newStyleID(kind, key), value: value}
		in.byKey[key] = s
		in.byID[s.id] = s
	}
	s.count++
	return newRefSlot(s.id)
}

// Finalize walks every node in the tree and rewrites each style slot: slots
// referencing a style used internThreshold or more times are left as
// references and that style is added to globalVars; slots below threshold
// are rewritten to carry the literal value inline and the style is
// omitted from globalVars entirely.
func (in *StyleInterner) Finalize(nodes []*SimplifiedNode) GlobalVars {
	vars := GlobalVars{Styles: make(map[StyleID]any)}

	for _, s := range in.byID {
		if s.count >= internThreshold {
			vars.Styles[s.id] = s.value
		}
	}

	for _, n := range nodes {
		in.inlineNodeStyles(n, vars.Styles)
	}

	if len(vars.Styles) == 0 {
		vars.Styles = nil
	}
	return vars
}

func (in *StyleInterner) inlineNodeStyles(n *SimplifiedNode, kept map[StyleID]any) {
	n.TextStyle = in.inlineSlot(n.TextStyle, kept)
	n.Fills = in.inlineSlot(n.Fills, kept)
	n.Strokes = in.inlineSlot(n.Strokes, kept)
	n.Effects = in.inlineSlot(n.Effects, kept)
	n.Layout = in.inlineSlot(n.Layout, kept)
	for _, c := range n.Children {
		in.inlineNodeStyles(c, kept)
	}
}

func (in *StyleInterner) inlineSlot(slot *StyleSlot, kept map[StyleID]any) *StyleSlot {
	if slot == nil || !slot.IsRef() {
		return slot
	}
	if _, ok := kept[slot.Ref]; ok {
		return slot
	}
	s, ok := in.byID[slot.Ref]
	if !ok {
		return slot
	}
	return &StyleSlot{Value: s.value}
}

// canonicalKey produces a stable string representation of value suitable
// for equality-based deduplication: it round-trips through JSON to a
// generic representation and then serializes with map keys sorted, so two
// values that are structurally equal always produce the same key
// regardless of struct field order or map iteration order.
func canonicalKey(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}
	var b strings.Builder
	writeCanonical(&b, generic)
	return b.String()
}

func writeCanonical(b *strings.Builder, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteByte(':')
			writeCanonical(b, val[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, e := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, e)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%v", val)
	}
}

// newStyleID derives a StyleID for the given kind from a stable hash of
// key, so the same canonical value always yields the same id across runs.
func newStyleID(kind, key string) StyleID {
	id := uuid.NewSHA1(styleIDNamespace, []byte(key))
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	prefix, ok := styleKindPrefix[kind]
	if !ok {
		prefix = "style"
	}
	return StyleID(prefix + "_" + hex[:6])
}
