package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridHasSixteenCells(t *testing.T) {
	g := New()
	require.Len(t, g.Cells, 16)

	wantIDs := []string{
		"A1", "A2", "A3", "A4",
		"B1", "B2", "B3", "B4",
		"C1", "C2", "C3", "C4",
		"D1", "D2", "D3", "D4",
	}
	for i, cell := range g.Cells {
		assert.Equal(t, wantIDs[i], cell.ID)
		assert.Equal(t, DefaultContent, cell.Content)
		assert.Equal(t, i/Cols, cell.Row)
		assert.Equal(t, i%Cols, cell.Col)
	}
}

func TestPositionLabelsAreStable(t *testing.T) {
	first := New()
	second := New()
	for i := range first.Cells {
		assert.Equal(t, first.Cells[i].Position, second.Cells[i].Position)
		assert.NotEmpty(t, first.Cells[i].Position)
	}

	a1, ok := first.Cell("A1")
	require.True(t, ok)
	assert.Equal(t, "top-left", a1.Position)

	b3, ok := first.Cell("B3")
	require.True(t, ok)
	assert.Equal(t, "upper-center-right", b3.Position)

	d4, ok := first.Cell("D4")
	require.True(t, ok)
	assert.Equal(t, "bottom-right", d4.Position)
}

func TestDeriveFlags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Flags
	}{
		{"product", "a blue cotton shirt", Flags{HasProduct: true}},
		{"background", "plain white background", Flags{HasBackground: true}},
		{"text", "care label with writing", Flags{HasText: true}},
		{"logo", "embroidered brand emblem", Flags{HasLogo: true}},
		{"empty", "nothing visible here", Flags{IsEmpty: true}},
		{"default", DefaultContent, Flags{}},
		{
			// Keyword conflicts are allowed; the summarizer arbitrates.
			"logo and empty",
			"empty corner with a small logo",
			Flags{HasBackground: true, HasLogo: true, IsEmpty: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveFlags(tt.content)
			assert.Equal(t, tt.want, got)
			// Idempotence: deriving again yields the same result.
			assert.Equal(t, got, DeriveFlags(tt.content))
		})
	}
}

func TestDominantColorPaletteOrder(t *testing.T) {
	assert.Equal(t, "white", DominantColor("white shirt on a navy background"))
	assert.Equal(t, "red", DominantColor("Bright RED fabric"))
	assert.Equal(t, "", DominantColor("no recognizable shade"))
}

func TestSetContentRederivesFlags(t *testing.T) {
	g := New()
	g.SetContent("B2", "shirt chest with logo")

	cell, ok := g.Cell("B2")
	require.True(t, ok)
	assert.True(t, cell.HasProduct)
	assert.True(t, cell.HasLogo)
	assert.Equal(t, 1, cell.Row)
	assert.Equal(t, 1, cell.Col)
	assert.Equal(t, "upper-center-left", cell.Position)
}

func TestRegionCellsSharedTable(t *testing.T) {
	chest, ok := RegionCells("chest")
	require.True(t, ok)
	assert.Equal(t, []string{"B2", "B3"}, chest)

	center, ok := RegionCells("CENTER")
	require.True(t, ok)
	assert.Equal(t, []string{"B2", "B3", "C2", "C3"}, center)

	_, ok = RegionCells("nowhere")
	assert.False(t, ok)
}
