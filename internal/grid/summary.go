package grid

import "strings"

// Summarize reduces a set of cells to a one-line semantic label.
//
// The priority order is a product contract: an all-empty region reads
// "Empty/Background", but a single product cell is enough to report the
// region as product territory even when other cells are empty.
func Summarize(cells []Cell) string {
	if len(cells) == 0 {
		return "Empty/Background"
	}

	allEmpty := true
	hasProduct := false
	hasLogo := false
	var colors []string
	seenColors := map[string]bool{}

	for _, cell := range cells {
		if !cell.IsEmpty {
			allEmpty = false
		}
		if cell.HasProduct {
			hasProduct = true
		}
		if cell.HasLogo {
			hasLogo = true
		}
		if cell.DominantColor != "" && !seenColors[cell.DominantColor] {
			seenColors[cell.DominantColor] = true
			colors = append(colors, cell.DominantColor)
		}
	}

	switch {
	case allEmpty:
		return "Empty/Background"
	case hasProduct && hasLogo:
		return "Product with logo"
	case hasProduct:
		return "Product"
	case hasLogo:
		return "Logo area"
	case len(colors) > 0:
		return strings.Join(colors, ", ") + " area"
	default:
		return "Mixed content"
	}
}
