// Package edits translates free-text edit instructions into concrete grid
// targets, proposes placements for new elements, and scores completed
// edits against their intent.
package edits

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"stitchSightAi/internal/grid"
)

var cellIDRe = regexp.MustCompile(`\b([A-D][1-4])\b`)

// logoCells is the fixed heuristic target set for logo/brand edits:
// corners favored by branding plus the chest area.
var logoCells = []string{"A1", "A4", "B2", "B3", "C2"}

// ExpandPrompt annotates an edit instruction with grid context. Every
// position keyword found in the instruction contributes a bracketed
// clause naming the cells it resolves to and what they currently show.
func ExpandPrompt(instruction string, g grid.Grid) string {
	lowered := strings.ToLower(instruction)
	expanded := instruction

	for _, name := range grid.RegionNames() {
		if !strings.Contains(lowered, name) {
			continue
		}
		cells := g.CellsIn(name)
		descriptions := make([]string, 0, len(cells))
		for _, cell := range cells {
			descriptions = append(descriptions, fmt.Sprintf("%s: %s", cell.ID, cell.Content))
		}
		expanded += fmt.Sprintf(" [%s region covers %s]", name, strings.Join(descriptions, "; "))
	}

	return expanded
}

// AffectedCells maps an instruction onto the set of cell ids it is judged
// to touch. The rules are independent and additive:
//   - literal cell ids mentioned in the text,
//   - color edits target every product cell,
//   - logo/brand edits target the fixed branding cells,
//   - background edits target background or empty cells.
//
// The result is sorted row-major for deterministic output.
func AffectedCells(instruction string, g grid.Grid) []string {
	lowered := strings.ToLower(instruction)
	affected := map[string]bool{}

	for _, match := range cellIDRe.FindAllStringSubmatch(strings.ToUpper(instruction), -1) {
		affected[match[1]] = true
	}

	if strings.Contains(lowered, "color") || strings.Contains(lowered, "colour") {
		for _, cell := range g.Cells {
			if cell.HasProduct {
				affected[cell.ID] = true
			}
		}
	}

	if strings.Contains(lowered, "logo") || strings.Contains(lowered, "brand") {
		for _, id := range logoCells {
			affected[id] = true
		}
	}

	if strings.Contains(lowered, "background") {
		for _, cell := range g.Cells {
			if cell.HasBackground || cell.IsEmpty {
				affected[cell.ID] = true
			}
		}
	}

	return sortedIDs(affected)
}

// sortedIDs flattens a cell-id set into row-major order.
func sortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
