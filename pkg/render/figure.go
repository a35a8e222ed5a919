package render

import (
	"bytes"
	"image/color"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/matzehuels/pacefig/pkg/errors"
	"github.com/matzehuels/pacefig/pkg/layout"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatSVG: true,
	FormatPDF: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf)", format)
	}
	return nil
}

// FormatFromPath infers the format from path's extension. It returns ""
// when the extension is not a supported format.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ValidFormats[ext] {
		return ext
	}
	return ""
}

// Figure defaults.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
	DefaultDPI    = 100

	labelSize = 14
)

// Axis labels.
const (
	XLabel = "Processor #"
	YLabel = "Simulation Time (s)"
)

var plotBackground color.Color = colornames.Lightgray

// Option configures Figure.
type Option func(*figureRenderer)

type figureRenderer struct {
	format  string
	width   vg.Length
	height  vg.Length
	dpi     int
	palette Palette
}

// WithFormat sets the output format (default png).
func WithFormat(f string) Option {
	return func(r *figureRenderer) { r.format = f }
}

// WithSize sets the figure size (default 10x6 inches).
func WithSize(w, h vg.Length) Option {
	return func(r *figureRenderer) { r.width, r.height = w, h }
}

// WithDPI sets the PNG resolution (default 100, giving 1000x600 pixels).
func WithDPI(dpi int) Option {
	return func(r *figureRenderer) { r.dpi = dpi }
}

// WithPalette replaces the default component colors.
func WithPalette(p Palette) Option {
	return func(r *figureRenderer) { r.palette = p }
}

// Figure renders l and returns the encoded image.
func Figure(l layout.Layout, opts ...Option) ([]byte, error) {
	r := figureRenderer{
		format:  FormatPNG,
		width:   DefaultWidth,
		height:  DefaultHeight,
		dpi:     DefaultDPI,
		palette: defaultPalette,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if err := ValidateFormat(r.format); err != nil {
		return nil, err
	}
	if r.width <= 0 || r.height <= 0 || r.dpi <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid figure size %vx%v at %d dpi", r.width, r.height, r.dpi)
	}

	p, err := r.build(l)
	if err != nil {
		return nil, err
	}
	return r.encode(p)
}

func (r *figureRenderer) build(l layout.Layout) (*plot.Plot, error) {
	p := plot.New()

	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.X.Padding = 0
	p.Y.Padding = 0

	p.X.Tick.Marker = constantTicks(l.XTicks)
	p.Y.Tick.Marker = constantTicks(l.YTicks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	p.Add(background{}, bars{rects: l.Rects, palette: r.palette})

	labels, err := barLabels(l.Rects)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build labels")
	}
	if labels != nil {
		p.Add(labels)
	}

	// Add widens the axes to the data; pin them afterwards.
	p.X.Min, p.X.Max = 0, l.XMax
	p.Y.Min, p.Y.Max = 0, l.YMax
	return p, nil
}

func (r *figureRenderer) encode(p *plot.Plot) ([]byte, error) {
	var buf bytes.Buffer
	if r.format == FormatPNG {
		c := vgimg.NewWith(vgimg.UseWH(r.width, r.height), vgimg.UseDPI(r.dpi))
		p.Draw(draw.New(c))
		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
		}
		return buf.Bytes(), nil
	}

	w, err := p.WriterTo(r.width, r.height, r.format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s canvas", r.format)
	}
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", r.format)
	}
	return buf.Bytes(), nil
}

func constantTicks(vs []float64) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(vs))
	for i, v := range vs {
		ticks[i] = plot.Tick{Value: v, Label: tickLabel(v)}
	}
	return ticks
}

// tickLabel formats v with at most two decimals and no trailing zeros.
func tickLabel(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func barLabels(rects []layout.Rect) (*plotter.Labels, error) {
	if len(rects) == 0 {
		return nil, nil
	}
	xys := make(plotter.XYs, len(rects))
	names := make([]string, len(rects))
	for i, rect := range rects {
		xys[i] = plotter.XY{X: rect.CenterX(), Y: rect.CenterY()}
		names[i] = string(rect.Component)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		s := &labels.TextStyle[i]
		s.Color = color.Black
		s.Font.Size = vg.Points(labelSize)
		s.Font.Weight = xfont.WeightBold
		s.XAlign = draw.XCenter
		s.YAlign = draw.YCenter
	}
	return labels, nil
}

// background fills the data area.
type background struct{}

func (background) Plot(c draw.Canvas, _ *plot.Plot) {
	lo, hi := c.Min, c.Max
	c.FillPolygon(plotBackground, []vg.Point{
		lo,
		{X: hi.X, Y: lo.Y},
		hi,
		{X: lo.X, Y: hi.Y},
	})
}

// bars draws one filled rectangle per component.
type bars struct {
	rects   []layout.Rect
	palette Palette
}

func (b bars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, r := range b.rects {
		if r.Width() <= 0 || r.Height <= 0 {
			continue
		}
		pts := c.ClipPolygonXY([]vg.Point{
			{X: trX(r.Left), Y: trY(r.Bottom)},
			{X: trX(r.Right), Y: trY(r.Bottom)},
			{X: trX(r.Right), Y: trY(r.Top())},
			{X: trX(r.Left), Y: trY(r.Top())},
		})
		c.FillPolygon(b.palette.Fill(r.Component), pts)
	}
}

// DataRange implements plot.DataRanger.
func (b bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	if len(b.rects) == 0 {
		return 0, 1, 0, 1
	}
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, r := range b.rects {
		xmin = min(xmin, r.Left)
		xmax = max(xmax, r.Right)
		ymin = min(ymin, r.Bottom)
		ymax = max(ymax, r.Top())
	}
	return xmin, xmax, ymin, ymax
}
