package grid

import "strings"

// regionCells is the single source of truth for what a position name means
// in cell terms. The analysis parser, the edit mapper and the placement
// advisor all resolve positions through this table so their semantics
// cannot drift apart.
var regionCells = map[string][]string{
	"top":           {"A1", "A2", "A3", "A4"},
	"bottom":        {"D1", "D2", "D3", "D4"},
	"left":          {"A1", "B1", "C1", "D1"},
	"right":         {"A4", "B4", "C4", "D4"},
	"center":        {"B2", "B3", "C2", "C3"},
	"middle":        {"B2", "B3", "C2", "C3"},
	"top-left":      {"A1"},
	"top-right":     {"A4"},
	"bottom-left":   {"D1"},
	"bottom-right":  {"D4"},
	"top-center":    {"A2", "A3"},
	"bottom-center": {"D2", "D3"},
	"chest":         {"B2", "B3"},
	"collar":        {"A2", "A3"},
	"sleeve":        {"B1", "B4"},
	"pocket":        {"C1", "C4"},
}

// summaryRegions are the regions reported in a spatial analysis, in the
// order they appear in the output.
var summaryRegions = []string{"top", "bottom", "left", "right", "center", "middle"}

// RegionCells returns the cell ids belonging to a named region.
func RegionCells(name string) ([]string, bool) {
	ids, ok := regionCells[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, true
}

// RegionNames lists every known position keyword. Compound names come
// first so that an instruction like "top-left" matches the corner before
// the bare "top" row.
func RegionNames() []string {
	names := make([]string, 0, len(regionCells))
	for _, name := range []string{
		"top-left", "top-right", "bottom-left", "bottom-right",
		"top-center", "bottom-center",
		"chest", "collar", "sleeve", "pocket",
		"top", "bottom", "left", "right", "center", "middle",
	} {
		if _, ok := regionCells[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// SummaryRegions lists the region names included in dominant-region
// summaries, in canonical order.
func SummaryRegions() []string {
	out := make([]string, len(summaryRegions))
	copy(out, summaryRegions)
	return out
}

// CellsIn resolves a region name against a concrete grid.
func (g Grid) CellsIn(region string) []Cell {
	ids, ok := RegionCells(region)
	if !ok {
		return nil
	}
	cells := make([]Cell, 0, len(ids))
	for _, id := range ids {
		if cell, found := g.Cell(id); found {
			cells = append(cells, cell)
		}
	}
	return cells
}
