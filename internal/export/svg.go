package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/mvp-studio/mvp-planner-backend/internal/planning"
)

const (
	nodeWidth  = 160.0
	nodeHeight = 56.0
	svgPadding = 60.0
)

// RenderDiagramSVG turns the stored graph into a standalone SVG. A missing
// or empty diagram yields a labelled placeholder rather than an error, so
// the export link always produces a file.
func RenderDiagramSVG(d *planning.FlowDiagram) []byte {
	if d == nil || len(d.Graph.Nodes) == 0 {
		return placeholderSVG()
	}

	minX, minY, maxX, maxY := bounds(d.Graph.Nodes)
	width := maxX - minX + nodeWidth + 2*svgPadding
	height := maxY - minY + nodeHeight + 2*svgPadding
	// Translate so the top-left node lands inside the padding.
	offX := svgPadding - minX
	offY := svgPadding - minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`<defs><marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="#555"/></marker></defs>` + "\n")

	centers := make(map[string][2]float64, len(d.Graph.Nodes))
	for _, n := range d.Graph.Nodes {
		centers[n.ID] = [2]float64{n.X + offX + nodeWidth/2, n.Y + offY + nodeHeight/2}
	}

	for _, e := range d.Graph.Edges {
		src, ok := centers[e.Source]
		if !ok {
			continue
		}
		dst, ok := centers[e.Target]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#555" stroke-width="2" marker-end="url(#arrow)"/>`+"\n",
			src[0], src[1], dst[0], dst[1])
		if e.Label != "" {
			fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="12" fill="#777" text-anchor="middle">%s</text>`+"\n",
				(src[0]+dst[0])/2, (src[1]+dst[1])/2-6, html.EscapeString(e.Label))
		}
	}

	for _, n := range d.Graph.Nodes {
		fill := n.Color
		if fill == "" {
			fill = "#e8f0fe"
		}
		x, y := n.X+offX, n.Y+offY
		fmt.Fprintf(&buf, `<rect x="%.1f" y="%.1f" width="%.0f" height="%.0f" rx="10" fill="%s" stroke="#6b8cba" stroke-width="1.5"/>`+"\n",
			x, y, nodeWidth, nodeHeight, html.EscapeString(fill))
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="14" font-family="sans-serif" fill="#1a2b3c" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			x+nodeWidth/2, y+nodeHeight/2, html.EscapeString(n.Label))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func bounds(nodes []planning.Node) (minX, minY, maxX, maxY float64) {
	minX, minY = nodes[0].X, nodes[0].Y
	maxX, maxY = nodes[0].X, nodes[0].Y
	for _, n := range nodes[1:] {
		if n.X < minX {
			minX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.X > maxX {
			maxX = n.X
		}
		if n.Y > maxY {
			maxY = n.Y
		}
	}
	return
}

func placeholderSVG() []byte {
	return []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="480" height="200" viewBox="0 0 480 200">
<rect x="1" y="1" width="478" height="198" rx="12" fill="#f5f7fa" stroke="#c3cbd6"/>
<text x="240" y="92" font-size="18" font-family="sans-serif" fill="#6a7685" text-anchor="middle">No flow diagram yet</text>
<text x="240" y="120" font-size="13" font-family="sans-serif" fill="#9aa5b1" text-anchor="middle">Design one in the Flow Diagram step and export again.</text>
</svg>
`)
}
