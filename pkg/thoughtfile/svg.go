package thoughtfile

import (
	"fmt"
	"html"
	"strings"

	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// GenerateSVG renders t as SVG. The view box is in world coordinates, so
// the drawing matches the editor's geometry exactly.
func GenerateSVG(t *thought.Thought, e *textlayout.Engine, opts ImageOptions) (string, error) {
	box, err := frame(t, e, opts)
	if err != nil {
		return "", err
	}
	theme := t.ThemeOrDefault()
	font := e.Options.Font
	family := font.Family
	if family == "" {
		family = "sans-serif"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.1f %.1f %.1f %.1f">
<title>%s</title>
<defs>
  <linearGradient id="background" x1="0" y1="0" x2="0" y2="1">
    <stop offset="0" stop-color="%s"/>
    <stop offset="1" stop-color="%s"/>
  </linearGradient>
</defs>
<style>
  .connection { fill: %s; stroke: %s; stroke-width: %.1f; }
  .node { fill: %s; stroke: %s; stroke-width: %.1f; }
  .label { font-family: %s; font-size: %.1fpx; fill: %s; text-anchor: middle; dominant-baseline: middle; }
</style>
`, box.W*opts.Scale, box.H*opts.Scale, box.X, box.Y, box.W, box.H,
		html.EscapeString(t.Name),
		theme.BackgroundTopColor, theme.BackgroundBottomColor,
		theme.ConnectionInnerColor, theme.ConnectionOuterColor, opts.LineWidth/2,
		theme.NodeInnerColor, theme.NodeOuterColor, opts.LineWidth,
		html.EscapeString(family), font.Size, theme.NodeTextColor))

	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#background)"/>
`, box.X, box.Y, box.W, box.H))

	// Connections first, so nodes cover the ribbon ends.
	for _, c := range t.Connections {
		r := shape.ConnectionRibbon(c, e, opts.Shape)
		sb.WriteString(fmt.Sprintf(`<path d="M %.2f %.2f Q %.2f %.2f %.2f %.2f L %.2f %.2f Q %.2f %.2f %.2f %.2f Z" class="connection"/>
`, r.Top0.X, r.Top0.Y, r.ControlTop.X, r.ControlTop.Y, r.Top1.X, r.Top1.Y,
			r.Bottom1.X, r.Bottom1.Y, r.ControlBottom.X, r.ControlBottom.Y, r.Bottom0.X, r.Bottom0.Y))
	}

	for _, n := range t.Nodes {
		circle := shape.NodeCircle(n, e)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" class="node"/>
`, circle.Center.X, circle.Center.Y, circle.Radius))

		lines, ys := labelLines(n, e)
		for i, line := range lines {
			if line == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" class="label">%s</text>
`, n.X, ys[i], html.EscapeString(line)))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}
