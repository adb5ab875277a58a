// Native PNG rendering for thoughts.
// Mirrors the SVG renderer output using Go's image packages.

package thoughtfile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// supersample is the factor the image is drawn at before downsampling.
const supersample = 4

// circleSegments is the polygon resolution for rasterised circles.
const circleSegments = 96

// renderContext holds the target image and the world-to-pixel transform.
type renderContext struct {
	img       *image.RGBA
	origin    geom.Point // World point drawn at pixel (0, 0)
	scale     float64    // Pixels per world unit
	lineWidth float64    // Pixels
	face      font.Face
	z         *vector.Rasterizer
}

func (ctx *renderContext) px(p geom.Point) (float32, float32) {
	return float32((p.X - ctx.origin.X) * ctx.scale), float32((p.Y - ctx.origin.Y) * ctx.scale)
}

// fill rasterises the path built by path and paints it with c.
func (ctx *renderContext) fill(c color.Color, path func(z *vector.Rasterizer)) {
	b := ctx.img.Bounds()
	ctx.z.Reset(b.Dx(), b.Dy())
	path(ctx.z)
	ctx.z.Draw(ctx.img, b, image.NewUniform(c), image.Point{})
}

// RenderPNG renders t to PNG format.
// Uses 4x supersampling for smoother output.
func RenderPNG(t *thought.Thought, e *textlayout.Engine, w io.Writer, opts ImageOptions) error {
	img, err := Render(t, e, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Render draws t into a new image covering its bounding box.
func Render(t *thought.Thought, e *textlayout.Engine, opts ImageOptions) (*image.RGBA, error) {
	box, err := frame(t, e, opts)
	if err != nil {
		return nil, err
	}
	width := int(math.Ceil(box.W * opts.Scale))
	height := int(math.Ceil(box.H * opts.Scale))

	scale := opts.Scale * supersample
	face, err := labelFace(e, e.Options.Font.Size*scale)
	if err != nil {
		return nil, err
	}
	large := image.NewRGBA(image.Rect(0, 0, width*supersample, height*supersample))
	ctx := &renderContext{
		img:       large,
		origin:    geom.Pt(box.X, box.Y),
		scale:     scale,
		lineWidth: opts.LineWidth * scale,
		face:      face,
		z:         vector.NewRasterizer(large.Bounds().Dx(), large.Bounds().Dy()),
	}

	theme := t.ThemeOrDefault()
	drawBackground(ctx, theme)
	for _, c := range t.Connections {
		drawRibbon(ctx, shape.ConnectionRibbon(c, e, opts.Shape), theme)
	}
	for _, n := range t.Nodes {
		drawNode(ctx, n, e, theme)
	}

	// Downsample to target size using high-quality interpolation
	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

// labelFace returns a face of the given pixel size, taken from e's
// measurer when it has fonts and from Go Regular otherwise.
func labelFace(e *textlayout.Engine, size float64) (font.Face, error) {
	m, ok := e.Measurer.(*textlayout.FaceMeasurer)
	if !ok {
		var err error
		if m, err = textlayout.NewFaceMeasurer(nil); err != nil {
			return nil, err
		}
	}
	return m.Face(size)
}

// drawBackground fills the image with the theme's vertical gradient.
func drawBackground(ctx *renderContext, theme thought.Theme) {
	top := theme.ColorOrBlack(theme.BackgroundTopColor)
	bottom := theme.ColorOrBlack(theme.BackgroundBottomColor)

	b := ctx.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		f := 0.0
		if b.Dy() > 1 {
			f = float64(y-b.Min.Y) / float64(b.Dy()-1)
		}
		r, g, bl := thought.Gradient(top, bottom, f).RGB255()
		row := color.RGBA{r, g, bl, 255}
		for x := b.Min.X; x < b.Max.X; x++ {
			ctx.img.SetRGBA(x, y, row)
		}
	}
}

func drawRibbon(ctx *renderContext, r shape.Ribbon, theme thought.Theme) {
	ctx.fill(theme.ColorOrBlack(theme.ConnectionInnerColor), func(z *vector.Rasterizer) {
		z.MoveTo(ctx.px(r.Top0))
		cx, cy := ctx.px(r.ControlTop)
		x, y := ctx.px(r.Top1)
		z.QuadTo(cx, cy, x, y)
		z.LineTo(ctx.px(r.Bottom1))
		cx, cy = ctx.px(r.ControlBottom)
		x, y = ctx.px(r.Bottom0)
		z.QuadTo(cx, cy, x, y)
		z.ClosePath()
	})

	outer := theme.ColorOrBlack(theme.ConnectionOuterColor)
	for _, curve := range r.Curves() {
		drawQuadBezier(ctx, curve[0], curve[1], curve[2], ctx.lineWidth/2, outer)
	}
}

func drawNode(ctx *renderContext, n *thought.Node, e *textlayout.Engine, theme thought.Theme) {
	circle := shape.NodeCircle(n, e)
	fillCircle(ctx, circle.Center, circle.Radius, theme.ColorOrBlack(theme.NodeOuterColor))
	fillCircle(ctx, circle.Center, circle.Radius-ctx.lineWidth/ctx.scale, theme.ColorOrBlack(theme.NodeInnerColor))

	text := theme.ColorOrBlack(theme.NodeTextColor)
	lines, ys := labelLines(n, e)
	for i, line := range lines {
		x, y := ctx.px(geom.Pt(n.X, ys[i]))
		drawTextCentered(ctx, int(x), int(y), line, text)
	}
}

func fillCircle(ctx *renderContext, center geom.Point, radius float64, c color.Color) {
	if radius <= 0 {
		return
	}
	poly := geom.CircleToPolygon(center, radius, circleSegments)
	ctx.fill(c, func(z *vector.Rasterizer) {
		z.MoveTo(ctx.px(poly[0]))
		for _, p := range poly[1:] {
			z.LineTo(ctx.px(p))
		}
		z.ClosePath()
	})
}

// drawLine draws a line between two points in pixel space.
func drawLine(ctx *renderContext, x1, y1, x2, y2, thickness float64, c color.Color) {
	img := ctx.img

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	halfThick := thickness / 2

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawQuadBezier strokes a quadratic curve given in world coordinates.
func drawQuadBezier(ctx *renderContext, p0, cp, p1 geom.Point, thickness float64, c color.Color) {
	const steps = 100
	prevX, prevY := ctx.px(p0)
	for i := 1; i <= steps; i++ {
		x, y := ctx.px(geom.QuadBezier(p0, cp, p1, float64(i)/steps))
		drawLine(ctx, float64(prevX), float64(prevY), float64(x), float64(y), thickness, c)
		prevX, prevY = x, y
	}
}

// drawTextCentered draws text centred on (x, y).
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	if text == "" {
		return
	}
	width := font.MeasureString(ctx.face, text).Ceil()

	// Cap height is about 0.7 of the ascent; centre the caps on y.
	ascent := ctx.face.Metrics().Ascent.Ceil()
	baselineY := y + int(float64(ascent)*0.35)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.Point26_6{X: fixed.I(x - width/2), Y: fixed.I(baselineY)},
	}
	d.DrawString(text)
}
