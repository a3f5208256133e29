package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style helpers. Every one reads the theme it is given so a theme switch
// takes effect on the next frame.

// Panel draws a rounded box in the theme border colour.
func Panel(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}

func Title(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

func Subtle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func Body(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

// KeyHint renders "key action" pairs for footers.
func KeyHint(t Theme, pairs ...string) string {
	key := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	desc := Subtle(t)
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(key.Render(pairs[i]))
		b.WriteString(desc.Render(" " + pairs[i+1]))
	}
	return b.String()
}

// GradientText creates a gradient effect on text using color interpolation
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	runes := []rune(text)
	n := len(runes)

	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}

	return result.String()
}

// ProgressBar renders a progress bar filled to percent in [0, 1].
func ProgressBar(t Theme, percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	done := lipgloss.NewStyle().Foreground(t.Primary).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("░", width-filled))
	return done + rest
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(t Theme, values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	style := lipgloss.NewStyle().Foreground(t.Secondary)
	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		result.WriteRune(chars[idx])
	}
	return style.Render(result.String())
}

// BoxWithTitle renders a titled box
func BoxWithTitle(t Theme, title, content string, width int) string {
	box := Panel(t).Width(width)
	fill := width - lipgloss.Width(title) - 3
	if fill < 0 {
		fill = 0
	}
	border := lipgloss.NewStyle().Foreground(t.Border)
	header := border.Render("╭─ ") + Title(t).Render(title) + border.Render(" "+strings.Repeat("─", fill)+"╮")
	return header + "\n" + box.BorderTop(false).Render(content)
}

// Separator draws a centred decorative rule.
func Separator(t Theme, width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle(t).Render(left + " ◆ " + right)
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = min(max(v, 0), 255)
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
