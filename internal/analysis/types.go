package analysis

import (
	"time"

	"stitchSightAi/internal/grid"
)

// SpatialGridAnalysis is the per-cell semantic breakdown of one image.
type SpatialGridAnalysis struct {
	GridSize        string            `json:"grid_size"`
	Squares         []grid.Cell       `json:"squares"`
	DominantRegions map[string]string `json:"dominant_regions"`
}

// ImageAnalysis aggregates everything extracted from one vision-model
// response. It is created once per call and never mutated afterwards; an
// edit produces a wholly new analysis.
type ImageAnalysis struct {
	ID                 string               `json:"id"`
	ProductType        string               `json:"product_type,omitempty"`
	CurrentColors      []string             `json:"current_colors,omitempty"`
	Materials          []string             `json:"materials,omitempty"`
	Textures           []string             `json:"textures,omitempty"`
	KeyFeatures        []string             `json:"key_features,omitempty"`
	Style              string               `json:"style,omitempty"`
	Quality            string               `json:"quality,omitempty"`
	ViewSpecificDetail string               `json:"view_specific_detail,omitempty"`
	SpatialGrid        *SpatialGridAnalysis `json:"spatial_grid,omitempty"`
	FullAnalysis       string               `json:"full_analysis"`
	Suggestions        []string             `json:"suggestions,omitempty"`
	Model              string               `json:"model,omitempty"`
	Timestamp          time.Time            `json:"timestamp"`
}

// Empty reports whether the parse extracted nothing beyond the raw text.
func (a ImageAnalysis) Empty() bool {
	return a.ProductType == "" &&
		len(a.CurrentColors) == 0 &&
		len(a.Materials) == 0 &&
		len(a.KeyFeatures) == 0 &&
		a.Style == "" &&
		a.SpatialGrid == nil
}
