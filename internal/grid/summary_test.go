package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizePriorityOrder(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
		want  string
	}{
		{
			"all empty",
			[]Cell{NewCell(0, 0, "empty space"), NewCell(0, 1, "blank area")},
			"Empty/Background",
		},
		{
			"product beats empty",
			[]Cell{NewCell(0, 0, "empty space"), NewCell(0, 1, "blue shirt")},
			"Product",
		},
		{
			"product with logo",
			[]Cell{NewCell(1, 1, "shirt with brand logo"), NewCell(1, 2, "shirt fabric")},
			"Product with logo",
		},
		{
			"logo only",
			[]Cell{NewCell(0, 0, "embroidered emblem")},
			"Logo area",
		},
		{
			"color fallback",
			[]Cell{NewCell(2, 0, "solid red fabric swatch"), NewCell(2, 1, "deep blue fabric swatch")},
			"red, blue area",
		},
		{
			"mixed content fallthrough",
			[]Cell{NewCell(3, 0, DefaultContent), NewCell(3, 1, DefaultContent)},
			"Mixed content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.cells))
		})
	}
}

func TestSummarizeProductNeverMaskedByEmptyCells(t *testing.T) {
	// One product cell among empties must report product territory.
	cells := []Cell{
		NewCell(0, 0, "empty background"),
		NewCell(0, 1, "garment sleeve"),
		NewCell(0, 2, "blank corner"),
	}
	got := Summarize(cells)
	assert.Contains(t, []string{"Product", "Product with logo"}, got)
	assert.Equal(t, "Product", got)
}
