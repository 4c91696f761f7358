// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/vector"

	"github.com/s28672/pbio/internal/fileutil"
	"github.com/s28672/pbio/pkg/types"
)

const (
	dpi          = 72
	titleSize    = 14
	axisSize     = 11
	tickSize     = 9
	markerRadius = 4
	lineWidth    = 2
)

var (
	seriesColor = color.RGBA{0x1f, 0x77, 0xb4, 0xff}
	axisColor   = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

var loadFont = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// ChartOptions sizes and labels the length chart. Zero fields take defaults.
type ChartOptions struct {
	Width  int
	Height int
	Title  string
	XLabel string
	YLabel string
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Width <= 0 {
		o.Width = 1000
	}
	if o.Height <= 0 {
		o.Height = 500
	}
	if o.Title == "" {
		o.Title = "Sequence Lengths (Longest to Shortest)"
	}
	if o.XLabel == "" {
		o.XLabel = "GenBank Accession Number"
	}
	if o.YLabel == "" {
		o.YLabel = "Sequence Length (bp)"
	}
	return o
}

// RankByLength returns a copy of records ordered longest first. Records of
// equal length keep their input order.
func RankByLength(records []types.SequenceRecord) []types.SequenceRecord {
	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b types.SequenceRecord) int {
		return cmp.Compare(b.Length, a.Length)
	})
	return ranked
}

// WriteChart renders the ranked lengths as a line through point markers,
// one accession per x tick, and writes it as a PNG.
func WriteChart(path string, records []types.SequenceRecord, opts ChartOptions) error {
	img, err := RenderChart(records, opts)
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// RenderChart draws the chart into an image without writing it anywhere.
func RenderChart(records []types.SequenceRecord, opts ChartOptions) (*image.RGBA, error) {
	opts = opts.withDefaults()
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("loading chart font: %w", err)
	}

	c := &canvas{
		img:  image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		font: f,
	}
	draw.Draw(c.img, c.img.Bounds(), image.White, image.Point{}, draw.Src)

	ranked := RankByLength(records)
	labels := make([]string, len(ranked))
	lengths := make([]float64, len(ranked))
	maxLabel := 0
	for i, r := range ranked {
		labels[i] = r.Accession
		lengths[i] = float64(r.Length)
		maxLabel = max(maxLabel, c.textWidth(r.Accession, tickSize))
	}

	lo, hi := valueRange(lengths)
	ticks := niceTicks(lo, hi, 6)
	maxTick := 0
	for _, v := range ticks {
		maxTick = max(maxTick, c.textWidth(formatTick(v), tickSize))
	}

	// Plot area; the bottom margin grows with the rotated accession labels.
	left := maxTick + 2*c.lineHeight(axisSize) + 10
	right := opts.Width - 20
	top := 2*c.lineHeight(titleSize) + 4
	bottomMargin := min(maxLabel+c.lineHeight(axisSize)+24, opts.Height-top-100)
	bottom := opts.Height - max(bottomMargin, 40)
	area := image.Rect(left, top, right, bottom)

	if err := c.drawCentered(opts.Title, titleSize, opts.Width/2, c.lineHeight(titleSize)+4); err != nil {
		return nil, err
	}

	yPos := func(v float64) float64 {
		return float64(area.Max.Y) - (v-lo)/(hi-lo)*float64(area.Dy())
	}
	for _, v := range ticks {
		y := int(math.Round(yPos(v)))
		c.fillRect(image.Rect(area.Min.X-4, y, area.Min.X, y+1), axisColor)
		s := formatTick(v)
		if err := c.drawText(c.img, s, tickSize, area.Min.X-6-c.textWidth(s, tickSize), y+tickSize/3); err != nil {
			return nil, err
		}
	}

	xs := xPositions(len(ranked), area)
	for i, x := range xs {
		xi := int(math.Round(x))
		c.fillRect(image.Rect(xi, area.Max.Y, xi+1, area.Max.Y+4), axisColor)
		h := c.lineHeight(tickSize)
		if err := c.drawVertical(labels[i], tickSize, xi-h/2, area.Max.Y+6); err != nil {
			return nil, err
		}
	}

	c.frame(area)

	if err := c.drawCentered(opts.XLabel, axisSize, (area.Min.X+area.Max.X)/2, opts.Height-8); err != nil {
		return nil, err
	}
	yLabelW := c.textWidth(opts.YLabel, axisSize)
	if err := c.drawVertical(opts.YLabel, axisSize, 6, (area.Min.Y+area.Max.Y)/2-yLabelW/2); err != nil {
		return nil, err
	}

	points := make([][2]float32, len(xs))
	for i, x := range xs {
		points[i] = [2]float32{float32(x), float32(yPos(lengths[i]))}
	}
	c.polyline(points, lineWidth, seriesColor)
	c.markers(points, markerRadius, seriesColor)

	return c.img, nil
}

// valueRange pads the data range by 5% on each side, or by one unit when
// all values are equal.
func valueRange(vs []float64) (float64, float64) {
	if len(vs) == 0 {
		return 0, 1
	}
	lo, hi := slices.Min(vs), slices.Max(vs)
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// niceTicks returns tick values inside [lo, hi] spaced by 1, 2 or 5 times a
// power of ten, aiming for about n ticks.
func niceTicks(lo, hi float64, n int) []float64 {
	if hi <= lo || n < 2 {
		return []float64{lo}
	}
	raw := (hi - lo) / float64(n-1)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	var ticks []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		// Snap away float drift such as 0.30000000000000004.
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// xPositions spreads n points across the area with a 5% margin on each side.
func xPositions(n int, area image.Rectangle) []float64 {
	xs := make([]float64, n)
	if n == 0 {
		return xs
	}
	if n == 1 {
		xs[0] = float64(area.Min.X+area.Max.X) / 2
		return xs
	}
	pad := float64(area.Dx()) * 0.05
	step := (float64(area.Dx()) - 2*pad) / float64(n-1)
	for i := range xs {
		xs[i] = float64(area.Min.X) + pad + float64(i)*step
	}
	return xs
}

// canvas wraps the target image with text and shape helpers.
type canvas struct {
	img  *image.RGBA
	font *truetype.Font
}

func (c *canvas) face(size float64) font.Face {
	return truetype.NewFace(c.font, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
}

func (c *canvas) textWidth(s string, size float64) int {
	face := c.face(size)
	defer face.Close()
	return font.MeasureString(face, s).Ceil()
}

func (c *canvas) lineHeight(size float64) int {
	face := c.face(size)
	defer face.Close()
	return face.Metrics().Height.Ceil()
}

// drawText draws s with the left end of its baseline at (x, y).
func (c *canvas) drawText(dst draw.Image, s string, size float64, x, y int) error {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(c.font)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(axisColor))
	if _, err := ctx.DrawString(s, freetype.Pt(x, y)); err != nil {
		return fmt.Errorf("drawing %q: %w", s, err)
	}
	return nil
}

func (c *canvas) drawCentered(s string, size float64, cx, baseline int) error {
	return c.drawText(c.img, s, size, cx-c.textWidth(s, size)/2, baseline)
}

// drawVertical draws s rotated a quarter turn counter-clockwise so it reads
// bottom to top. (x, y) is the top-left corner of the rotated text box.
func (c *canvas) drawVertical(s string, size float64, x, y int) error {
	w := c.textWidth(s, size)
	h := c.lineHeight(size)
	if w == 0 || h == 0 {
		return nil
	}
	face := c.face(size)
	ascent := face.Metrics().Ascent.Ceil()
	face.Close()

	tmp := image.NewAlpha(image.Rect(0, 0, w, h))
	if err := c.drawText(tmp, s, size, 0, ascent); err != nil {
		return err
	}

	b := c.img.Bounds()
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			a := tmp.AlphaAt(px, py).A
			if a == 0 {
				continue
			}
			dx, dy := x+py, y+w-1-px
			if !image.Pt(dx, dy).In(b) {
				continue
			}
			c.blend(dx, dy, axisColor, a)
		}
	}
	return nil
}

// blend composites col over the pixel at (x, y) with coverage a.
func (c *canvas) blend(x, y int, col color.RGBA, a uint8) {
	dst := c.img.RGBAAt(x, y)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*uint32(a) + uint32(d)*(255-uint32(a))) / 255)
	}
	c.img.SetRGBA(x, y, color.RGBA{mix(dst.R, col.R), mix(dst.G, col.G), mix(dst.B, col.B), 0xff})
}

func (c *canvas) fillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

func (c *canvas) frame(r image.Rectangle) {
	c.fillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Min.Y+1), axisColor)
	c.fillRect(image.Rect(r.Min.X, r.Max.Y, r.Max.X+1, r.Max.Y+1), axisColor)
	c.fillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y+1), axisColor)
	c.fillRect(image.Rect(r.Max.X, r.Min.Y, r.Max.X+1, r.Max.Y+1), axisColor)
}

// polyline strokes consecutive points with an anti-aliased line of the
// given width. Each segment is filled as a quad with the same winding.
func (c *canvas) polyline(pts [][2]float32, width float32, col color.Color) {
	if len(pts) < 2 {
		return
	}
	b := c.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	half := width / 2
	for i := 1; i < len(pts); i++ {
		a, e := pts[i-1], pts[i]
		dx, dy := e[0]-a[0], e[1]-a[1]
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		z.MoveTo(a[0]+nx, a[1]+ny)
		z.LineTo(e[0]+nx, e[1]+ny)
		z.LineTo(e[0]-nx, e[1]-ny)
		z.LineTo(a[0]-nx, a[1]-ny)
		z.ClosePath()
	}
	z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// markers fills a circle of radius r at every point.
func (c *canvas) markers(pts [][2]float32, r float32, col color.Color) {
	if len(pts) == 0 {
		return
	}
	const segments = 20
	b := c.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, p := range pts {
		for k := 0; k <= segments; k++ {
			theta := 2 * math.Pi * float64(k) / segments
			x := p[0] + r*float32(math.Cos(theta))
			y := p[1] + r*float32(math.Sin(theta))
			if k == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
		z.ClosePath()
	}
	z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}
