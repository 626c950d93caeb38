// Package simplifier turns a raw Figma document graph into a compact,
// LLM-friendly representation: it deduplicates repeated style objects,
// collapses repetitive table-like rows down to a few exemplars plus a
// summary, elides single-child INSTANCE wrappers, clamps traversal depth,
// and translates Figma's layout/typography/effects vocabulary into
// CSS-flavored terms.
//
// Everything here runs synchronously within a single ParseFileResponse or
// ParseNodesResponse call;
// no state is shared across calls.
package simplifier
