package edits

import (
	"sort"
	"strings"

	"stitchSightAi/internal/grid"
)

// Placement is a suggested location for a new visual element.
type Placement struct {
	Primary      []string   `json:"primary"`
	Alternatives [][]string `json:"alternatives"`
	Reasoning    string     `json:"reasoning"`
}

// SuggestPlacement proposes grid cells for adding an element of the given
// type. Deterministic for a given grid state; no randomness.
func SuggestPlacement(elementType string, g grid.Grid) Placement {
	switch strings.ToLower(strings.TrimSpace(elementType)) {
	case "logo":
		return suggestLogo(g)
	case "text":
		return Placement{
			Primary:      []string{"D2", "D3"},
			Alternatives: [][]string{{"D1", "D4"}, {"C2", "C3"}},
			Reasoning:    "Bottom-center placement keeps text legible without covering the product.",
		}
	case "pattern":
		return suggestPattern(g)
	case "decoration":
		return Placement{
			Primary:      []string{"A1", "A4"},
			Alternatives: [][]string{{"D1", "D4"}, {"A2", "A3"}},
			Reasoning:    "Top corners frame the product; decorations there stay out of the focal area.",
		}
	default:
		center, _ := grid.RegionCells("center")
		return Placement{
			Primary:   center,
			Reasoning: "Unknown element type; defaulting to the center region.",
		}
	}
}

func suggestLogo(g grid.Grid) Placement {
	for _, id := range []string{"B2", "B3"} {
		if cell, ok := g.Cell(id); ok && cell.HasProduct {
			return Placement{
				Primary:      []string{"B2"},
				Alternatives: [][]string{{"A1"}, {"C2"}, {"B3"}},
				Reasoning:    "Product occupies the chest area, so the logo goes where branding is expected on a garment.",
			}
		}
	}
	return Placement{
		Primary:      []string{"A1"},
		Alternatives: [][]string{{"A4"}, {"D1"}, {"D4"}},
		Reasoning:    "No product detected in the chest area; falling back to corner placement.",
	}
}

func suggestPattern(g grid.Grid) Placement {
	groups := emptyRegions(g)
	if len(groups) == 0 {
		center, _ := grid.RegionCells("center")
		return Placement{
			Primary:   center,
			Reasoning: "No empty or background cells available; a pattern would have to overlay the center.",
		}
	}

	placement := Placement{
		Primary:   groups[0],
		Reasoning: "Largest contiguous empty region gives the pattern room without touching the product.",
	}
	for _, group := range groups[1:] {
		placement.Alternatives = append(placement.Alternatives, group)
		if len(placement.Alternatives) == 2 {
			break
		}
	}
	return placement
}

// emptyRegions groups the grid's empty/background cells into maximal
// contiguous regions using breadth-first flood fill over 4-directional
// adjacency, ordered by descending size. Ties break on the first cell's
// row-major index so the ordering is stable.
func emptyRegions(g grid.Grid) [][]string {
	open := make(map[int]bool, len(g.Cells))
	for i, cell := range g.Cells {
		if cell.IsEmpty || cell.HasBackground {
			open[i] = true
		}
	}

	visited := make(map[int]bool, len(open))
	var groups [][]int

	for i := 0; i < len(g.Cells); i++ {
		if !open[i] || visited[i] {
			continue
		}
		var group []int
		queue := []int{i}
		visited[i] = true
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			group = append(group, idx)
			for _, next := range neighbors(idx) {
				if open[next] && !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Ints(group)
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if len(groups[a]) != len(groups[b]) {
			return len(groups[a]) > len(groups[b])
		}
		return groups[a][0] < groups[b][0]
	})

	out := make([][]string, len(groups))
	for gi, group := range groups {
		ids := make([]string, len(group))
		for i, idx := range group {
			ids[i] = g.Cells[idx].ID
		}
		out[gi] = ids
	}
	return out
}

// neighbors lists the 4-directionally adjacent cell indexes.
func neighbors(idx int) []int {
	row, col := idx/grid.Cols, idx%grid.Cols
	var out []int
	if row > 0 {
		out = append(out, idx-grid.Cols)
	}
	if row < grid.Rows-1 {
		out = append(out, idx+grid.Cols)
	}
	if col > 0 {
		out = append(out, idx-1)
	}
	if col < grid.Cols-1 {
		out = append(out, idx+1)
	}
	return out
}
