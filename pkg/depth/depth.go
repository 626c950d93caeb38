// Package depth analyzes a raw Figma document tree to estimate how large
// its fully-expanded simplified form would be, without actually running the
// simplifier, and recommends a traversal depth that keeps most of the
// content while bounding size.
package depth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kataras/figma-mcp/pkg/figma"
)

// cumulativeShareTarget is the fraction of total nodes the recommended
// depth must cover.
const cumulativeShareTarget = 0.8

const (
	charsPerStyleBlock = 200
	charsPerFill       = 100
	charsPerEffect     = 150
)

// sampleLimit bounds how many representative {type, name} samples are kept
// per depth level.
const sampleLimit = 3

// NodeSample is one representative node recorded for a depth level.
type NodeSample struct {
	Type string
	Name string
}

// LevelStats aggregates the nodes observed at one depth.
type LevelStats struct {
	Depth          int
	NodeCount      int
	EstimatedChars int
	Samples        []NodeSample
}

// Report is the result of analyzing a raw document tree.
type Report struct {
	MaxDepth        int
	TotalNodes      int
	EstimatedChars  int
	EstimatedKB     float64
	EstimatedTokens int
	Levels          []LevelStats
	RecommendedDepth int
}

// Analyze walks root (respecting visibility) and tallies per-depth node
// counts, representative samples, and an estimated character contribution
// used to project the eventual serialized size.
func Analyze(root figma.Node) *Report {
	levels := make(map[int]*LevelStats)
	maxDepth := 0
	totalNodes := 0
	totalChars := 0

	var walk func(n figma.Node, depth int)
	walk = func(n figma.Node, depth int) {
		if !n.IsVisible() {
			return
		}
		if depth > maxDepth {
			maxDepth = depth
		}
		totalNodes++

		lvl, ok := levels[depth]
		if !ok {
			lvl = &LevelStats{Depth: depth}
			levels[depth] = lvl
		}
		lvl.NodeCount++
		if len(lvl.Samples) < sampleLimit {
			lvl.Samples = append(lvl.Samples, NodeSample{Type: n.Type, Name: n.Name})
		}

		chars := nodeCharEstimate(n)
		lvl.EstimatedChars += chars
		totalChars += chars

		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)

	depths := make([]int, 0, len(levels))
	for d := range levels {
		depths = append(depths, d)
	}
	sort.Ints(depths)

	orderedLevels := make([]LevelStats, 0, len(depths))
	for _, d := range depths {
		orderedLevels = append(orderedLevels, *levels[d])
	}

	rep := &Report{
		MaxDepth:        maxDepth,
		TotalNodes:      totalNodes,
		EstimatedChars:  totalChars,
		EstimatedKB:     estimatedKB(totalChars),
		EstimatedTokens: totalChars / 4,
		Levels:          orderedLevels,
	}
	rep.RecommendedDepth = recommendDepth(orderedLevels, totalNodes)
	return rep
}

func nodeCharEstimate(n figma.Node) int {
	chars := len(n.ID) + len(n.Name) + len(n.Type) + len(n.Characters)
	if n.Style != nil {
		chars += charsPerStyleBlock
	}
	chars += len(n.Fills) * charsPerFill
	chars += len(n.Effects) * charsPerEffect
	return chars
}

func estimatedKB(chars int) float64 {
	return float64(chars) * 1.2 * 0.8 / 1024
}

// recommendDepth returns the smallest depth whose cumulative node share
// reaches cumulativeShareTarget of the total.
func recommendDepth(levels []LevelStats, total int) int {
	if total == 0 {
		return 0
	}
	cumulative := 0
	for _, lvl := range levels {
		cumulative += lvl.NodeCount
		if float64(cumulative)/float64(total) >= cumulativeShareTarget {
			return lvl.Depth
		}
	}
	if len(levels) == 0 {
		return 0
	}
	return levels[len(levels)-1].Depth
}

// Render produces the human-readable report text described for the depth
// analyzer tool: summary line, size estimate, a per-depth table with
// cumulative percent, and the recommended depth.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Max depth: %d, total nodes: %d\n", r.MaxDepth, r.TotalNodes)
	fmt.Fprintf(&b, "Estimated size: %.1f KB (~%d tokens)\n\n", r.EstimatedKB, r.EstimatedTokens)
	b.WriteString("Depth | Nodes | Cumulative % | Cumulative KB | Samples\n")

	cumulative := 0
	cumulativeChars := 0
	for _, lvl := range r.Levels {
		cumulative += lvl.NodeCount
		cumulativeChars += lvl.EstimatedChars
		pct := 0.0
		if r.TotalNodes > 0 {
			pct = float64(cumulative) / float64(r.TotalNodes) * 100
		}
		samples := make([]string, 0, len(lvl.Samples))
		for _, s := range lvl.Samples {
			samples = append(samples, fmt.Sprintf("%s %q", s.Type, s.Name))
		}
		fmt.Fprintf(&b, "%5d | %5d | %11.1f%% | %13.1f | %s\n",
			lvl.Depth, lvl.NodeCount, pct, estimatedKB(cumulativeChars), strings.Join(samples, ", "))
	}

	fmt.Fprintf(&b, "\nRecommended depth: %d\n", r.RecommendedDepth)
	return b.String()
}
