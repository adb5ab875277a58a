package thoughtfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// pointsPerInch converts world units, taken as points, to Graphviz inches.
const pointsPerInch = 72

// GenerateDOT converts a thought to an undirected Graphviz graph. Nodes are
// pinned at their positions and sized to their radii, so `neato -n` draws
// the map as laid out. Other layout engines ignore the pins.
func GenerateDOT(t *thought.Thought, e *textlayout.Engine) string {
	theme := t.ThemeOrDefault()
	var sb strings.Builder

	sb.WriteString("graph thought {\n")
	sb.WriteString("    layout=neato;\n")
	sb.WriteString(fmt.Sprintf("    bgcolor=\"%s\";\n", theme.BackgroundTopColor))
	sb.WriteString(fmt.Sprintf("    node [shape=circle, fixedsize=true, style=filled, fillcolor=\"%s\", color=\"%s\", fontcolor=\"%s\", fontname=\"Helvetica\", fontsize=%.0f];\n",
		theme.NodeInnerColor, theme.NodeOuterColor, theme.NodeTextColor, e.Options.Font.Size))
	sb.WriteString(fmt.Sprintf("    edge [color=\"%s\", penwidth=3];\n", theme.ConnectionInnerColor))
	sb.WriteString("\n")

	if t.Name != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(t.Name)))
		sb.WriteString("\n")
	}

	ids := make(map[*thought.Node]string, len(t.Nodes))
	for i, n := range t.Nodes {
		id := fmt.Sprintf("n%d", i)
		ids[n] = id
		width := 2 * n.Radius(e) / pointsPerInch
		label := strings.Join(n.Lines(e), "\n")
		up := 0 - n.Y // Graphviz y grows upwards
		sb.WriteString(fmt.Sprintf("    %s [label=\"%s\", width=%.3f, pos=\"%.1f,%.1f!\"];\n",
			id, escapeDOT(label), width, n.X, up))
	}
	sb.WriteString("\n")

	for _, c := range t.Connections {
		sb.WriteString(fmt.Sprintf("    %s -- %s;\n", ids[c.A], ids[c.B]))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
