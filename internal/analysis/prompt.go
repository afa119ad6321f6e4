package analysis

import (
	"fmt"
	"strings"

	"stitchSightAi/internal/grid"
)

const basePromptTemplate = `You are a senior apparel technical designer preparing a tech pack.
Describe the product photo below in plain labeled lines, one section per line:
Product type: ...
Colors: comma-separated list
Materials: comma-separated list
Textures: comma-separated list
Key features: comma-separated list
Style: ...
Quality: ...
Suggestions: comma-separated list of improvements
%s
Do not invent details that are not visible in the image.`

const gridInstruction = `Then divide the image into a 4x4 grid of cells labeled A1-A4 (top row)
through D1-D4 (bottom row) and describe each cell on its own line as
"<CELL>: <what is visible there>". Mention product, background, logos,
text and dominant colors explicitly.`

// BuildAnalysisPrompt composes the instruction sent to the vision model.
func BuildAnalysisPrompt(includeSpatialGrid bool) string {
	extra := ""
	if includeSpatialGrid {
		extra = gridInstruction
	}
	return fmt.Sprintf(basePromptTemplate, extra)
}

// BuildViewPrompt tailors the analysis prompt to a named product view.
func BuildViewPrompt(view string, includeSpatialGrid bool) string {
	prompt := BuildAnalysisPrompt(includeSpatialGrid)
	view = strings.ToLower(strings.TrimSpace(view))
	if view == "" {
		return prompt
	}
	return fmt.Sprintf("This photo shows the %s view of the product.\n%s", view, prompt)
}

// DescribeRegion renders a human-readable summary for a named region of a
// parsed grid, for use in edit prompts and API responses.
func DescribeRegion(g grid.Grid, region string) string {
	cells := g.CellsIn(region)
	if len(cells) == 0 {
		return ""
	}
	return grid.Summarize(cells)
}
