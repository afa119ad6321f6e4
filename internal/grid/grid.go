package grid

import (
	"regexp"
	"strings"
)

// The grid is fixed at 4x4 for now, but adjacency math goes through these
// constants so the flood-fill generalizes if the resolution ever changes.
const (
	Rows = 4
	Cols = 4
)

// Size is the wire label for the grid resolution.
const Size = "4x4"

// DefaultContent marks a cell the vision model said nothing about.
const DefaultContent = "Not specified"

var rowLetters = [Rows]string{"A", "B", "C", "D"}

// positionLabels maps (row, col) to a human-readable location name.
var positionLabels = [Rows][Cols]string{
	{"top-left", "top-center-left", "top-center-right", "top-right"},
	{"upper-left", "upper-center-left", "upper-center-right", "upper-right"},
	{"lower-left", "lower-center-left", "lower-center-right", "lower-right"},
	{"bottom-left", "bottom-center-left", "bottom-center-right", "bottom-right"},
}

// Cell is one of the 16 addressable regions of a product image.
// Row/col/id/position are fixed at construction; the flags and dominant
// color are derived from Content and nothing else.
type Cell struct {
	ID            string `json:"id"`
	Row           int    `json:"row"`
	Col           int    `json:"col"`
	Position      string `json:"position"`
	Content       string `json:"content"`
	HasProduct    bool   `json:"has_product"`
	HasBackground bool   `json:"has_background"`
	HasText       bool   `json:"has_text"`
	HasLogo       bool   `json:"has_logo"`
	IsEmpty       bool   `json:"is_empty"`
	DominantColor string `json:"dominant_color,omitempty"`
}

// Flags captures the semantic classification of a cell's content.
type Flags struct {
	HasProduct    bool
	HasBackground bool
	HasText       bool
	HasLogo       bool
	IsEmpty       bool
}

var (
	productRe    = regexp.MustCompile(`(?i)product|item|garment|clothing|shirt|pants|dress|shoe`)
	backgroundRe = regexp.MustCompile(`(?i)background|empty|blank|white|plain`)
	textRe       = regexp.MustCompile(`(?i)text|label|tag|writing`)
	logoRe       = regexp.MustCompile(`(?i)logo|brand|emblem|symbol`)
	emptyRe      = regexp.MustCompile(`(?i)empty|blank|nothing`)
)

// colorPalette is checked in order; the first substring hit wins.
var colorPalette = []string{
	"white", "black", "red", "blue", "green", "yellow", "purple",
	"orange", "pink", "gray", "brown", "beige", "navy", "teal",
}

// CellID returns the canonical id for a (row, col) pair, e.g. (0,0) -> "A1".
func CellID(row, col int) string {
	return rowLetters[row] + string(rune('1'+col))
}

// DeriveFlags classifies free-text cell content. Deriving twice from the
// same content always yields the same flags; unknown content yields the
// zero value rather than an error.
func DeriveFlags(content string) Flags {
	return Flags{
		HasProduct:    productRe.MatchString(content),
		HasBackground: backgroundRe.MatchString(content),
		HasText:       textRe.MatchString(content),
		HasLogo:       logoRe.MatchString(content),
		IsEmpty:       emptyRe.MatchString(content),
	}
}

// DominantColor returns the first palette color mentioned in content, or "".
func DominantColor(content string) string {
	lowered := strings.ToLower(content)
	for _, color := range colorPalette {
		if strings.Contains(lowered, color) {
			return color
		}
	}
	return ""
}

// NewCell builds a fully derived cell for the given coordinates.
func NewCell(row, col int, content string) Cell {
	flags := DeriveFlags(content)
	return Cell{
		ID:            CellID(row, col),
		Row:           row,
		Col:           col,
		Position:      positionLabels[row][col],
		Content:       content,
		HasProduct:    flags.HasProduct,
		HasBackground: flags.HasBackground,
		HasText:       flags.HasText,
		HasLogo:       flags.HasLogo,
		IsEmpty:       flags.IsEmpty,
		DominantColor: DominantColor(content),
	}
}

// Grid holds the 16 cells in row-major order, A1 through D4.
type Grid struct {
	Cells []Cell
}

// New constructs a grid where every cell carries DefaultContent.
func New() Grid {
	cells := make([]Cell, 0, Rows*Cols)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			cells = append(cells, NewCell(row, col, DefaultContent))
		}
	}
	return Grid{Cells: cells}
}

// Cell returns the cell with the given id, if it exists.
func (g Grid) Cell(id string) (Cell, bool) {
	for _, c := range g.Cells {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return Cell{}, false
}

// SetContent replaces a cell's content and re-derives its flags and color.
// Position and coordinates are never recomputed.
func (g *Grid) SetContent(id, content string) {
	for i := range g.Cells {
		if strings.EqualFold(g.Cells[i].ID, id) {
			cell := NewCell(g.Cells[i].Row, g.Cells[i].Col, content)
			g.Cells[i] = cell
			return
		}
	}
}

// AllIDs lists the 16 cell ids in row-major order.
func AllIDs() []string {
	ids := make([]string, 0, Rows*Cols)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			ids = append(ids, CellID(row, col))
		}
	}
	return ids
}
