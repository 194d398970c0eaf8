package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct, width = clampBar(pct, width)

	var style = StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	pctStr := fmt.Sprintf("%3.0f%%", pct*100)
	return fmt.Sprintf("[%s] %s", style.Render(bar(pct, width)), pctStr)
}

// RenderShareBar renders a bracketless bar for a share of a total, used
// next to breakdown rows.
func RenderShareBar(pct float64, width int) string {
	pct, width = clampBar(pct, width)
	return StyleBlue.Render(bar(pct, width))
}

func clampBar(pct float64, width int) (float64, int) {
	pct = min(max(pct, 0), 1)
	return pct, max(width, 2)
}

func bar(pct float64, width int) string {
	filled := min(int(pct*float64(width)), width)
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}
