package edits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitchSightAi/internal/grid"
)

func TestSuggestLogoChestPlacement(t *testing.T) {
	g := gridWith(t, map[string]string{"B2": "shirt chest"})

	p := SuggestPlacement("logo", g)
	assert.Equal(t, []string{"B2"}, p.Primary)
	assert.Equal(t, [][]string{{"A1"}, {"C2"}, {"B3"}}, p.Alternatives)
	assert.NotEmpty(t, p.Reasoning)
}

func TestSuggestLogoCornerFallback(t *testing.T) {
	g := grid.New()

	p := SuggestPlacement("logo", g)
	assert.Equal(t, []string{"A1"}, p.Primary)
	assert.Equal(t, [][]string{{"A4"}, {"D1"}, {"D4"}}, p.Alternatives)
}

func TestSuggestTextAndDecorationAreFixed(t *testing.T) {
	g := grid.New()

	text := SuggestPlacement("text", g)
	assert.Equal(t, []string{"D2", "D3"}, text.Primary)
	assert.Equal(t, [][]string{{"D1", "D4"}, {"C2", "C3"}}, text.Alternatives)

	deco := SuggestPlacement("decoration", g)
	assert.Equal(t, []string{"A1", "A4"}, deco.Primary)
	assert.Equal(t, [][]string{{"D1", "D4"}, {"A2", "A3"}}, deco.Alternatives)
}

func TestSuggestPatternSingleRegion(t *testing.T) {
	// One contiguous empty L-shape: A1, A2, B1. Everything else is product.
	contents := map[string]string{}
	for _, id := range grid.AllIDs() {
		contents[id] = "shirt fabric"
	}
	contents["A1"] = "empty space"
	contents["A2"] = "empty space"
	contents["B1"] = "empty space"
	g := gridWith(t, contents)

	p := SuggestPlacement("pattern", g)
	assert.ElementsMatch(t, []string{"A1", "A2", "B1"}, p.Primary)
	assert.Empty(t, p.Alternatives)
}

func TestSuggestPatternRanksRegionsBySize(t *testing.T) {
	// Two separate empty regions: {A1} and {C4, D3, D4}.
	contents := map[string]string{}
	for _, id := range grid.AllIDs() {
		contents[id] = "shirt fabric"
	}
	contents["A1"] = "blank corner"
	contents["C4"] = "empty area"
	contents["D3"] = "empty area"
	contents["D4"] = "empty area"
	g := gridWith(t, contents)

	p := SuggestPlacement("pattern", g)
	assert.ElementsMatch(t, []string{"C4", "D3", "D4"}, p.Primary)
	require.Len(t, p.Alternatives, 1)
	assert.Equal(t, []string{"A1"}, p.Alternatives[0])
}

func TestSuggestPatternDiagonalCellsAreNotContiguous(t *testing.T) {
	// A1 and B2 touch only diagonally; 4-directional adjacency keeps them
	// in separate regions.
	contents := map[string]string{}
	for _, id := range grid.AllIDs() {
		contents[id] = "shirt fabric"
	}
	contents["A1"] = "empty space"
	contents["B2"] = "empty space"
	g := gridWith(t, contents)

	p := SuggestPlacement("pattern", g)
	assert.Len(t, p.Primary, 1)
	require.Len(t, p.Alternatives, 1)
	assert.Len(t, p.Alternatives[0], 1)
}

func TestSuggestPatternNoEmptyCells(t *testing.T) {
	contents := map[string]string{}
	for _, id := range grid.AllIDs() {
		contents[id] = "shirt fabric"
	}
	g := gridWith(t, contents)

	p := SuggestPlacement("pattern", g)
	assert.Equal(t, []string{"B2", "B3", "C2", "C3"}, p.Primary)
}

func TestSuggestPlacementUnknownElementType(t *testing.T) {
	p := SuggestPlacement("hologram", grid.New())
	assert.Equal(t, []string{"B2", "B3", "C2", "C3"}, p.Primary)
	assert.NotEmpty(t, p.Reasoning)
}
