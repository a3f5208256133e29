package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/webdevguide/internal/catalog"
	"github.com/san-kum/webdevguide/internal/trace"
	"github.com/san-kum/webdevguide/internal/viz"
)

const (
	storyboardWidth = 960
	barTop          = 70
	barHeight       = 36
	labelGap        = 18
	minBarWidth     = 4
)

// StoryboardSVG draws one bar per step of d, each as wide as its share of
// the total duration and filled with the step's accent.
func StoryboardSVG(d *catalog.Diagram, theme viz.Theme) string {
	steps := d.Sequence.Steps()
	total := d.Sequence.Total().Seconds()
	height := barTop + barHeight + labelGap*(len(steps)+1) + 20

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">
<rect width="100%%" height="100%%" fill="%s"/>
<text x="20" y="32" font-size="20" font-weight="bold" fill="%s">%s</text>
<text x="20" y="54" font-size="13" fill="%s">%s</text>
`, storyboardWidth, height, storyboardWidth, height,
		theme.Background, theme.Primary, html.EscapeString(d.Title), theme.Muted, html.EscapeString(d.Summary)))

	usable := float64(storyboardWidth - 40)
	x := 20.0
	for i, st := range steps {
		w := usable / float64(len(steps))
		if total > 0 {
			w = st.Duration().Seconds() / total * usable
		}
		if w < minBarWidth {
			w = minBarWidth
		}

		fill := theme.AccentColor(st.Visual.Accent)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%d" width="%.1f" height="%d" rx="4" fill="%s" stroke="%s"><title>%s</title></rect>
`, x, barTop, w-2, barHeight, fill, theme.Background, html.EscapeString(st.Label)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="12" fill="%s">%d</text>
`, x+4, barTop+22, theme.Background, i+1))

		ly := barTop + barHeight + labelGap*(i+1)
		sb.WriteString(fmt.Sprintf(`<text x="20" y="%d" font-size="12" fill="%s">%d. %s (%.1fs)</text>
`, ly, theme.Text, i+1, html.EscapeString(st.Label), st.Duration().Seconds()))
		x += w
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// TimelineSVG plots the step index of a recorded trace against time as a
// step line.
func TimelineSVG(events []trace.Event, steps, width, height int, strokeColor string) string {
	if len(events) < 2 || steps < 1 {
		return ""
	}

	end := events[len(events)-1].AtMs
	if end == 0 {
		end = 1
	}
	pad := 20.0
	sx := (float64(width) - 2*pad) / float64(end)
	sy := (float64(height) - 2*pad) / float64(max(steps-1, 1))
	px := func(ms int64) float64 { return pad + float64(ms)*sx }
	py := func(index int) float64 { return float64(height) - pad - float64(index)*sy }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0f172a"/>
<path fill="none" stroke="%s" stroke-width="2" d="M`,
		width, height, width, height, strokeColor))

	sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(events[0].AtMs), py(events[0].Index)))
	for i := 1; i < len(events); i++ {
		e := events[i]
		sb.WriteString(fmt.Sprintf(" L%.1f,%.1f L%.1f,%.1f", px(e.AtMs), py(events[i-1].Index), px(e.AtMs), py(e.Index)))
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
