package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"
)

// SVGOptions configures the conflict-graph SVG export.
type SVGOptions struct {
	Width      int    // Canvas width in pixels
	Height     int    // Canvas height in pixels
	ShowLabels bool   // Show deploy id labels
	ShowLegend bool   // Show legend explaining colors
	NodeRadius int    // Radius of deploy nodes (default: 18)
	EdgeWidth  int    // Width of edge lines (default: 2)
	Margin     int    // Canvas margin in pixels (default: 60)
	Title      string // Optional title
}

// DefaultSVGOptions returns sensible default export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1000,
		Height:     800,
		ShowLabels: true,
		ShowLegend: true,
		NodeRadius: 18,
		EdgeWidth:  2,
		Margin:     60,
		Title:      "Conflict Graph",
	}
}

// ExportSVG renders the artifact's conflict graph: nodes colored green
// for accepted and red for rejected, conflict edges as dashed gray
// lines, depends edges as blue arrows.
func ExportSVG(artifact Artifact, opts SVGOptions) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 18
	}
	if opts.EdgeWidth <= 0 {
		opts.EdgeWidth = 2
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	positions, order := calculateLayout(artifact, opts)
	accepted := toSet(artifact.Accepted)

	drawConflictEdges(canvas, artifact.ConflictEdges, positions, opts)
	drawDependsEdges(canvas, artifact.DependsEdges, positions, opts)
	drawNodes(canvas, order, positions, accepted, opts)
	if opts.ShowLabels {
		drawLabels(canvas, order, positions, opts)
	}
	if opts.ShowLegend {
		drawLegend(canvas, opts)
	}
	if opts.Title != "" {
		drawHeader(canvas, artifact, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile renders the artifact's conflict graph and saves it to a
// file.
func SaveSVGToFile(artifact Artifact, filepath string, opts SVGOptions) error {
	data, err := ExportSVG(artifact, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

type position struct {
	X, Y float64
}

// calculateLayout places every deploy mentioned in the artifact on a
// circle, sorted by id for deterministic output — the same simple
// circular layout a force-directed one would replace later.
func calculateLayout(artifact Artifact, opts SVGOptions) (map[string]position, []string) {
	seen := make(map[string]struct{})
	var order []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			order = append(order, id)
		}
	}
	for _, id := range artifact.Accepted {
		add(id)
	}
	for _, id := range artifact.Rejected {
		add(id)
	}
	sort.Strings(order)

	positions := make(map[string]position, len(order))
	if len(order) == 0 {
		return positions, order
	}

	drawWidth := float64(opts.Width - 2*opts.Margin - 2*opts.NodeRadius)
	drawHeight := float64(opts.Height - 2*opts.Margin - 2*opts.NodeRadius - 80)
	centerX := float64(opts.Width) / 2
	centerY := float64(opts.Height-80) / 2
	radius := math.Min(drawWidth, drawHeight) / 2.5

	angleStep := 2 * math.Pi / float64(len(order))
	for i, id := range order {
		angle := float64(i) * angleStep
		positions[id] = position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions, order
}

func drawConflictEdges(canvas *svg.SVG, edges []Edge, positions map[string]position, opts SVGOptions) {
	for _, e := range edges {
		from, ok1 := positions[e.From]
		to, ok2 := positions[e.To]
		if !ok1 || !ok2 {
			continue
		}
		canvas.Line(
			int(from.X), int(from.Y), int(to.X), int(to.Y),
			fmt.Sprintf("stroke:#718096;stroke-width:%d;stroke-dasharray:5,5;opacity:0.7", opts.EdgeWidth),
		)
	}
}

func drawDependsEdges(canvas *svg.SVG, edges []Edge, positions map[string]position, opts SVGOptions) {
	for _, e := range edges {
		from, ok1 := positions[e.From]
		to, ok2 := positions[e.To]
		if !ok1 || !ok2 {
			continue
		}
		canvas.Line(
			int(from.X), int(from.Y), int(to.X), int(to.Y),
			fmt.Sprintf("stroke:#4299e1;stroke-width:%d;opacity:0.8", opts.EdgeWidth),
		)
		drawArrowhead(canvas, from, to, "#4299e1")
	}
}

func drawArrowhead(canvas *svg.SVG, from, to position, color string) {
	midX := (from.X + to.X) / 2
	midY := (from.Y + to.Y) / 2
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	const size = 8.0

	tip := position{X: midX + size*math.Cos(angle), Y: midY + size*math.Sin(angle)}
	left := position{X: midX + size*math.Cos(angle+2.8), Y: midY + size*math.Sin(angle+2.8)}
	right := position{X: midX + size*math.Cos(angle-2.8), Y: midY + size*math.Sin(angle-2.8)}

	xs := []int{int(tip.X), int(left.X), int(right.X)}
	ys := []int{int(tip.Y), int(left.Y), int(right.Y)}
	canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s", color))
}

func drawNodes(canvas *svg.SVG, order []string, positions map[string]position, accepted map[string]struct{}, opts SVGOptions) {
	for _, id := range order {
		pos := positions[id]
		color := "#f56565"
		if _, ok := accepted[id]; ok {
			color = "#48bb78"
		}
		canvas.Circle(int(pos.X), int(pos.Y), opts.NodeRadius,
			fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:2;opacity:0.9", color))
	}
}

func drawLabels(canvas *svg.SVG, order []string, positions map[string]position, opts SVGOptions) {
	for _, id := range order {
		pos := positions[id]
		labelY := int(pos.Y) + opts.NodeRadius + 14
		canvas.Text(int(pos.X), labelY, id,
			"text-anchor:middle;font-size:11px;font-family:monospace;fill:#e2e8f0;font-weight:500")
	}
}

func drawLegend(canvas *svg.SVG, opts SVGOptions) {
	legendX := opts.Width - opts.Margin - 160
	legendY := opts.Margin + 20

	canvas.Rect(legendX-10, legendY-15, 170, 130,
		"fill:#2d3748;stroke:#4a5568;stroke-width:1;opacity:0.95;rx:5")
	canvas.Text(legendX, legendY, "Legend", "font-size:14px;font-weight:bold;fill:#e2e8f0")
	legendY += 25

	canvas.Circle(legendX+8, legendY, 8, "fill:#48bb78;stroke:#fff;stroke-width:1")
	canvas.Text(legendX+25, legendY+4, "Accepted", "font-size:11px;fill:#cbd5e0")
	legendY += 22

	canvas.Circle(legendX+8, legendY, 8, "fill:#f56565;stroke:#fff;stroke-width:1")
	canvas.Text(legendX+25, legendY+4, "Rejected", "font-size:11px;fill:#cbd5e0")
	legendY += 22

	canvas.Line(legendX, legendY, legendX+30, legendY, "stroke:#718096;stroke-width:2;stroke-dasharray:5,5")
	canvas.Text(legendX+35, legendY+4, "Conflicts", "font-size:11px;fill:#cbd5e0")
	legendY += 18

	canvas.Line(legendX, legendY, legendX+30, legendY, "stroke:#4299e1;stroke-width:2")
	canvas.Text(legendX+35, legendY+4, "Depends", "font-size:11px;fill:#cbd5e0")
}

func drawHeader(canvas *svg.SVG, artifact Artifact, opts SVGOptions) {
	headerY := 25
	canvas.Text(opts.Width/2, headerY, opts.Title,
		"text-anchor:middle;font-size:20px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	headerY += 28

	stats := fmt.Sprintf("Accepted: %d | Rejected: %d", len(artifact.Accepted), len(artifact.Rejected))
	canvas.Text(opts.Width/2, headerY, stats,
		"text-anchor:middle;font-size:12px;fill:#a0aec0;font-family:monospace")
}
