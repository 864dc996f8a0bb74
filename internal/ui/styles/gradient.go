package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient renders text in bold, shading each grapheme from one hex theme
// color to the other in HCL space.
func Gradient(text string, from, to lipgloss.Color) string {
	n := uniseg.GraphemeClusterCount(text)
	stops, ok := gradientStops(n, from, to)
	if !ok {
		return lipgloss.NewStyle().Foreground(from).Bold(true).Render(text)
	}

	var b strings.Builder
	gr := uniseg.NewGraphemes(text)
	for i := 0; gr.Next(); i++ {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(stops[i].Hex())).
			Bold(true).
			Render(gr.Str()))
	}
	return b.String()
}

// gradientStops returns n colors from from to to inclusive. ok is false
// when fewer than two stops are asked for or a color is not "#rrggbb".
func gradientStops(n int, from, to lipgloss.Color) (stops []colorful.Color, ok bool) {
	if n < 2 {
		return nil, false
	}
	start, err := colorful.Hex(string(from))
	if err != nil {
		return nil, false
	}
	end, err := colorful.Hex(string(to))
	if err != nil {
		return nil, false
	}

	stops = make([]colorful.Color, n)
	for i := range stops {
		stops[i] = start.BlendHcl(end, float64(i)/float64(n-1)).Clamped()
	}
	return stops, true
}
