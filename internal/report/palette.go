package report

// Palette maps a chart category (track name, "trend", "accepted",
// "observations") to an RRGGBB hex color. It is a plain value passed into
// every chart call; there is no package-level styling state.
type Palette map[string]string

// colorCycle backs tracks that have no explicit palette entry
var colorCycle = []string{
	"4472C4", "ED7D31", "A5A5A5", "FFC000", "5B9BD5", "70AD47",
}

// DefaultPalette returns the stock report colors
func DefaultPalette() Palette {
	return Palette{
		"trend":        "C00000",
		"accepted":     "BFBFBF",
		"observations": "4472C4",
	}
}

// Color returns the palette entry for key, or fallback when absent
func (p Palette) Color(key, fallback string) string {
	if c, ok := p[key]; ok {
		return c
	}
	return fallback
}

// SeriesColor returns the color for the i-th series named key, cycling
// through the stock colors when the palette has no entry.
func (p Palette) SeriesColor(key string, i int) string {
	return p.Color(key, colorCycle[i%len(colorCycle)])
}
