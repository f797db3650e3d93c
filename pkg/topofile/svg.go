package topofile

import (
	"fmt"
	"html"
	"strings"

	"github.com/nettopo/topokit/pkg/topo"
)

// SVGOptions controls native SVG rendering.
type SVGOptions struct {
	Width      int    // output width in pixels
	Height     int    // output height in pixels
	Title      string // diagram title
	FontSize   int    // base font size for node names
	LabelSize  int    // font size for interface labels (0 = FontSize - 3)
	TitleSize  int    // font size for title (0 = FontSize + 4)
	Padding    int    // padding around the drawing
	ShowLabels bool   // render interface labels
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     600,
		FontSize:   13,
		Padding:    50,
		ShowLabels: true,
	}
}

// viewTransform maps canvas coordinates into the padded output viewport.
type viewTransform struct {
	scale            float64
	offsetX, offsetY float64
}

func (v viewTransform) apply(x, y float64) (float64, float64) {
	return (x-v.offsetX)*v.scale, (y - v.offsetY) * v.scale
}

// fitView computes the transform that fits all nodes (with slack for
// icons and labels) into the drawable area. An empty topology maps 1:1.
func fitView(t *topo.Topology, width, height, padding int) viewTransform {
	if len(t.Nodes) == 0 {
		return viewTransform{scale: 1}
	}

	const slack = 80.0

	minX, minY := t.Nodes[0].X, t.Nodes[0].Y
	maxX, maxY := minX, minY
	for _, n := range t.Nodes[1:] {
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

	minX -= slack
	minY -= slack
	maxX += slack
	maxY += slack

	drawW := float64(width - 2*padding)
	drawH := float64(height - 2*padding)

	scaleX := drawW / (maxX - minX)
	scaleY := drawH / (maxY - minY)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale > 1 {
		scale = 1
	}

	// Center the drawing inside the viewport.
	offsetX := minX - (drawW/scale-(maxX-minX))/2 - float64(padding)/scale
	offsetY := minY - (drawH/scale-(maxY-minY))/2 - float64(padding)/scale

	return viewTransform{scale: scale, offsetX: offsetX, offsetY: offsetY}
}

// GenerateSVG renders a topology to SVG, with interface labels placed by
// the label placement engine.
func GenerateSVG(t *topo.Topology, opts SVGOptions) string {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	if opts.FontSize == 0 {
		opts.FontSize = 13
	}
	if opts.LabelSize == 0 {
		opts.LabelSize = opts.FontSize - 3
	}
	if opts.TitleSize == 0 {
		opts.TitleSize = opts.FontSize + 4
	}
	if opts.Padding == 0 {
		opts.Padding = 50
	}

	view := fitView(t, opts.Width, opts.Height, opts.Padding)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height))
	sb.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" font-family="Helvetica" font-size="%d" text-anchor="middle" fill="#333">%s</text>`+"\n",
			opts.Width/2, opts.TitleSize+8, opts.TitleSize, html.EscapeString(opts.Title)))
	}

	// Links underneath nodes.
	for _, l := range t.Links {
		src, srcOK := t.NodeByID(l.Source)
		tgt, tgtOK := t.NodeByID(l.Target)
		if !srcOK || !tgtOK {
			continue
		}

		x1, y1 := view.apply(src.X, src.Y)
		x2, y2 := view.apply(tgt.X, tgt.Y)
		sb.WriteString(fmt.Sprintf(`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#999" stroke-width="1.5"/>`+"\n",
			x1, y1, x2, y2))
	}

	// Interface labels.
	if opts.ShowLabels {
		placements := ComputeLinkLabelPlacements(t.Nodes, t.Links)
		for _, l := range t.Links {
			p, ok := placements[l.ID]
			if !ok {
				continue
			}
			if p.Source != nil {
				writeSVGLabel(&sb, view, *p.Source, l.SourceInterface, opts.LabelSize)
			}
			if p.Target != nil {
				writeSVGLabel(&sb, view, *p.Target, l.TargetInterface, opts.LabelSize)
			}
		}
	}

	// Nodes on top.
	for _, n := range t.Nodes {
		x, y := view.apply(n.X, n.Y)
		fill := KindFill(n.Kind).Hex()
		border := KindBorder(n.Kind).Hex()

		r := NodeRect(n)
		w := r.W * view.scale
		h := r.H * view.scale

		if n.Kind.IsExternal() {
			sb.WriteString(fmt.Sprintf(`  <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="1.5" stroke-dasharray="4 2"/>`+"\n",
				x, y, w/2, h/2, fill, border))
		} else {
			sb.WriteString(fmt.Sprintf(`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
				x-w/2, y-h/2, w, h, fill, border))
		}

		sb.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.1f" font-family="Helvetica" font-size="%d" text-anchor="middle" fill="#333">%s</text>`+"\n",
			x, y+h/2+float64(opts.FontSize), opts.FontSize, html.EscapeString(n.Label())))
	}

	sb.WriteString("</svg>\n")

	return sb.String()
}

func writeSVGLabel(sb *strings.Builder, view viewTransform, pos Point, text string, size int) {
	if text == "" {
		return
	}
	x, y := view.apply(pos.X, pos.Y)
	rect := EstimateLabelRect(x, y, text)
	sb.WriteString(fmt.Sprintf(`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="#f5f5f5" fill-opacity="0.85"/>`+"\n",
		rect.X-rect.W/2, rect.Y-rect.H/2, rect.W, rect.H))
	sb.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.1f" font-family="Helvetica" font-size="%d" text-anchor="middle" fill="#555">%s</text>`+"\n",
		x, y+float64(size)/3, size, html.EscapeString(text)))
}
