// Native PNG rendering for topology diagrams.
// Mirrors the SVG renderer output using Go's image packages.

package topofile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/nettopo/topokit/pkg/topo"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width      int
	Height     int
	Padding    int
	FontSize   int
	LabelSize  int
	Title      string
	ShowLabels bool
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:      800,
		Height:     600,
		Padding:    50,
		FontSize:   13,
		LabelSize:  10,
		ShowLabels: true,
	}
}

var (
	pngWhite    = color.RGBA{255, 255, 255, 255}
	pngText     = color.RGBA{51, 51, 51, 255}    // #333
	pngLabel    = color.RGBA{85, 85, 85, 255}    // #555
	pngLabelBg  = color.RGBA{245, 245, 245, 255} // #f5f5f5
	pngLinkGray = color.RGBA{153, 153, 153, 255} // #999
)

// pngContext holds rendering state at supersampled resolution.
type pngContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	face      font.Face
	labelFace font.Face
}

func newPNGContext(img *image.RGBA, scale int, opts PNGOptions) (*pngContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(opts.FontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone, // supersampling smooths instead
	})
	if err != nil {
		return nil, err
	}

	labelFace, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(opts.LabelSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}

	return &pngContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 1.5,
		face:      face,
		labelFace: labelFace,
	}, nil
}

// RenderPNG renders a topology to PNG. Renders at 4x size and
// downsamples for smooth edges.
func RenderPNG(t *topo.Topology, w io.Writer, opts PNGOptions) error {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	if opts.Padding == 0 {
		opts.Padding = 50
	}
	if opts.FontSize == 0 {
		opts.FontSize = 13
	}
	if opts.LabelSize == 0 {
		opts.LabelSize = 10
	}

	const scale = 4

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*scale, opts.Height*scale))
	ctx, err := newPNGContext(large, scale, opts)
	if err != nil {
		return err
	}

	renderTopology(ctx, t, opts, scale)

	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)

	return png.Encode(w, final)
}

func renderTopology(ctx *pngContext, t *topo.Topology, opts PNGOptions, scale int) {
	bounds := ctx.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ctx.img.Set(x, y, pngWhite)
		}
	}

	view := fitView(t, opts.Width, opts.Height, opts.Padding)
	s := float64(scale)

	// Project a canvas point into supersampled pixels.
	project := func(x, y float64) (float64, float64) {
		vx, vy := view.apply(x, y)
		return vx * s, vy * s
	}

	// Links first, underneath everything.
	for _, l := range t.Links {
		src, srcOK := t.NodeByID(l.Source)
		tgt, tgtOK := t.NodeByID(l.Target)
		if !srcOK || !tgtOK {
			continue
		}
		x1, y1 := project(src.X, src.Y)
		x2, y2 := project(tgt.X, tgt.Y)
		ctx.drawLine(x1, y1, x2, y2, pngLinkGray)
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
				x, y := project(p.Source.X, p.Source.Y)
				ctx.drawLabel(x, y, l.SourceInterface)
			}
			if p.Target != nil {
				x, y := project(p.Target.X, p.Target.Y)
				ctx.drawLabel(x, y, l.TargetInterface)
			}
		}
	}

	// Nodes on top.
	for _, n := range t.Nodes {
		x, y := project(n.X, n.Y)
		r := NodeRect(n)
		w := r.W * view.scale * s
		h := r.H * view.scale * s

		if n.Kind.IsExternal() {
			ctx.fillEllipse(x, y, w/2, h/2, fillRGBA(n.Kind))
			ctx.strokeEllipse(x, y, w/2, h/2, borderRGBA(n.Kind))
		} else {
			ctx.fillRect(x, y, w, h, fillRGBA(n.Kind))
			ctx.strokeRect(x, y, w, h, borderRGBA(n.Kind))
		}

		ctx.drawTextCentered(x, y+h/2+float64(opts.FontSize)*s, n.Label(), ctx.face, pngText)
	}
}

// drawLine draws a thick anti-aliased-ish line by stamping disks along
// its length.
func (ctx *pngContext) drawLine(x1, y1, x2, y2 float64, c color.RGBA) {
	dist := math.Hypot(x2-x1, y2-y1)
	if dist == 0 {
		return
	}
	steps := int(dist)
	if steps < 1 {
		steps = 1
	}
	radius := ctx.lineWidth / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		ctx.fillDisk(x1+(x2-x1)*t, y1+(y2-y1)*t, radius, c)
	}
}

func (ctx *pngContext) fillDisk(cx, cy, r float64, c color.RGBA) {
	for y := int(cy - r); y <= int(cy+r+1); y++ {
		for x := int(cx - r); x <= int(cx+r+1); x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r*r {
				ctx.img.Set(x, y, c)
			}
		}
	}
}

func (ctx *pngContext) fillRect(cx, cy, w, h float64, c color.RGBA) {
	for y := int(cy - h/2); y <= int(cy+h/2); y++ {
		for x := int(cx - w/2); x <= int(cx+w/2); x++ {
			ctx.img.Set(x, y, c)
		}
	}
}

func (ctx *pngContext) strokeRect(cx, cy, w, h float64, c color.RGBA) {
	ctx.drawLine(cx-w/2, cy-h/2, cx+w/2, cy-h/2, c)
	ctx.drawLine(cx+w/2, cy-h/2, cx+w/2, cy+h/2, c)
	ctx.drawLine(cx+w/2, cy+h/2, cx-w/2, cy+h/2, c)
	ctx.drawLine(cx-w/2, cy+h/2, cx-w/2, cy-h/2, c)
}

func (ctx *pngContext) fillEllipse(cx, cy, rx, ry float64, c color.RGBA) {
	for y := int(cy - ry); y <= int(cy+ry+1); y++ {
		for x := int(cx - rx); x <= int(cx+rx+1); x++ {
			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			if dx*dx+dy*dy <= 1 {
				ctx.img.Set(x, y, c)
			}
		}
	}
}

func (ctx *pngContext) strokeEllipse(cx, cy, rx, ry float64, c color.RGBA) {
	steps := int(2 * math.Pi * math.Max(rx, ry))
	if steps < 16 {
		steps = 16
	}
	radius := ctx.lineWidth / 2
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		ctx.fillDisk(cx+rx*math.Cos(a), cy+ry*math.Sin(a), radius, c)
	}
}

// drawLabel draws an interface label with its pale backing box.
func (ctx *pngContext) drawLabel(x, y float64, text string) {
	if text == "" {
		return
	}

	width := font.MeasureString(ctx.labelFace, text).Ceil()
	metrics := ctx.labelFace.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	pad := 3 * ctx.scale
	ctx.fillRect(x, y, float64(width)+2*pad, float64(height)+pad, pngLabelBg)
	ctx.drawTextCentered(x, y+float64(metrics.Ascent.Ceil())/2.5, text, ctx.labelFace, pngLabel)
}

func (ctx *pngContext) drawTextCentered(x, y float64, text string, face font.Face, c color.RGBA) {
	width := font.MeasureString(face, text)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(x)) - width/2,
			Y: fixed.I(int(y)),
		},
	}
	d.DrawString(text)
}
