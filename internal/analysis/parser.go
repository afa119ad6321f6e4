package analysis

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"stitchSightAi/internal/grid"
)

// Field extraction is line-oriented and order-independent: each pattern
// searches the whole response on its own and the first hit wins. A missing
// section leaves the field at its zero value; the raw text is always kept
// in FullAnalysis so nothing is lost to a failed match.
var (
	productTypeRe = regexp.MustCompile(`(?im)^product\s*type:?\s*([^\n]+)`)
	colorsRe      = regexp.MustCompile(`(?im)^colors?:?\s*([^\n]+)`)
	materialsRe   = regexp.MustCompile(`(?im)^materials?:?\s*([^\n]+)`)
	texturesRe    = regexp.MustCompile(`(?im)^textures?:?\s*([^\n]+)`)
	featuresRe    = regexp.MustCompile(`(?im)^(?:key\s*)?features?:?\s*([^\n]+)`)
	styleRe       = regexp.MustCompile(`(?im)^style:?\s*([^\n]+)`)
	qualityRe     = regexp.MustCompile(`(?im)^quality:?\s*([^\n]+)`)
	suggestionsRe = regexp.MustCompile(`(?im)^suggestions?:?\s*([^\n]+)`)
)

// Parse extracts a structured ImageAnalysis from a free-text vision-model
// response. It never fails: absent sections degrade to empty fields and
// absent cell lines degrade to the default cell content.
func Parse(text string, includeSpatialGrid bool) ImageAnalysis {
	result := ImageAnalysis{
		ID:           uuid.NewString(),
		ProductType:  firstMatch(productTypeRe, text),
		Style:        firstMatch(styleRe, text),
		Quality:      firstMatch(qualityRe, text),
		FullAnalysis: text,
		Timestamp:    time.Now().UTC(),
	}
	result.CurrentColors = splitList(firstMatch(colorsRe, text))
	result.Materials = splitList(firstMatch(materialsRe, text))
	result.Textures = splitList(firstMatch(texturesRe, text))
	result.KeyFeatures = splitList(firstMatch(featuresRe, text))
	result.Suggestions = splitList(firstMatch(suggestionsRe, text))

	if includeSpatialGrid {
		spatial := parseSpatialGrid(text)
		result.SpatialGrid = &spatial
	}

	return result
}

func parseSpatialGrid(text string) SpatialGridAnalysis {
	g := grid.New()
	for _, id := range grid.AllIDs() {
		if content := cellContent(text, id); content != "" {
			g.SetContent(id, content)
		}
	}

	regions := make(map[string]string, len(grid.SummaryRegions()))
	for _, region := range grid.SummaryRegions() {
		regions[region] = grid.Summarize(g.CellsIn(region))
	}

	return SpatialGridAnalysis{
		GridSize:        grid.Size,
		Squares:         g.Cells,
		DominantRegions: regions,
	}
}

// cellContent locates a "<ID>: description" line for the given cell.
func cellContent(text, id string) string {
	re := regexp.MustCompile(`(?im)^\s*` + id + `\s*:\s*([^\n]+)`)
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

var listSeparatorRe = regexp.MustCompile(`[,;]`)

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	for _, part := range listSeparatorRe.Split(raw, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
