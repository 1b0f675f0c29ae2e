package chart

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"smartanalyzer/internal/analysis"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image encoding
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

const (
	DefaultTitle    = "Correlation Heatmap"
	DefaultCellSize = 64

	labelPad      = 8
	titleHeight   = 36
	colorbarWidth = 18
	colorbarGap   = 16
	colorbarSteps = 64
)

var (
	missingCellColor = drawing.Color{R: 220, G: 220, B: 220, A: 255}
	gridLineColor    = drawing.ColorWhite
	textColor        = drawing.Color{R: 34, G: 34, B: 34, A: 255}
)

// HeatmapOptions controls the rendered heatmap
type HeatmapOptions struct {
	Title    string
	CellSize int
	FontSize float64
}

func (o HeatmapOptions) withDefaults() HeatmapOptions {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.FontSize <= 0 {
		o.FontSize = math.Max(8, float64(o.CellSize)/6)
	}
	return o
}

// ParseFormat maps a file extension or format name onto a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// ContentType returns the MIME type for f
func ContentType(f Format) string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func provider(f Format) (chart.RendererProvider, error) {
	switch f {
	case FormatSVG:
		return chart.SVG, nil
	case FormatPNG:
		return chart.PNG, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", f)
	}
}

// layout is the pixel geometry of one heatmap
type layout struct {
	cell       int
	n          int
	labelWidth int
	textHeight int
	left, top  int
	width      int
	height     int
}

func (l layout) gridRight() int  { return l.left + l.n*l.cell }
func (l layout) gridBottom() int { return l.top + l.n*l.cell }

// RenderHeatmap draws m as an annotated square heatmap with column names on
// both axes and a color bar spanning [-1, 1]. Undefined coefficients are
// drawn as grey "nan" cells.
func RenderHeatmap(w io.Writer, m *analysis.CorrelationMatrix, format Format, opts HeatmapOptions) error {
	opts = opts.withDefaults()
	newRenderer, err := provider(format)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	lay, err := measure(m, opts, font)
	if err != nil {
		return err
	}

	r, err := newRenderer(lay.width, lay.height)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	r.SetDPI(chart.DefaultDPI)
	if format == FormatSVG {
		r = svgTextRenderer{r}
	}

	fillRect(r, 0, 0, lay.width, lay.height, drawing.ColorWhite)
	drawTitle(r, font, opts, lay)
	drawCells(r, font, opts, m, lay)
	drawLabels(r, font, opts, m, lay)
	drawColorbar(r, font, opts, lay)

	return r.Save(w)
}

// svgTextRenderer escapes text bodies written into the SVG document. Column
// names come from uploaded files and are drawn verbatim otherwise.
type svgTextRenderer struct {
	chart.Renderer
}

func (r svgTextRenderer) Text(body string, x, y int) {
	r.Renderer.Text(html.EscapeString(body), x, y)
}

func measure(m *analysis.CorrelationMatrix, opts HeatmapOptions, font *truetype.Font) (layout, error) {
	scratch, err := chart.SVG(1, 1)
	if err != nil {
		return layout{}, err
	}
	scratch.SetDPI(chart.DefaultDPI)
	scratch.SetFont(font)
	scratch.SetFontSize(opts.FontSize)

	lay := layout{cell: opts.CellSize, n: m.Size()}
	for _, name := range m.Columns {
		box := scratch.MeasureText(name)
		if box.Width() > lay.labelWidth {
			lay.labelWidth = box.Width()
		}
		if box.Height() > lay.textHeight {
			lay.textHeight = box.Height()
		}
	}
	tick := scratch.MeasureText("-1.00")
	if lay.textHeight == 0 {
		lay.textHeight = tick.Height()
	}

	lay.left = labelPad*2 + lay.labelWidth
	lay.top = titleHeight
	lay.width = lay.gridRight() + colorbarGap + colorbarWidth + labelPad + tick.Width() + labelPad
	lay.height = lay.gridBottom() + labelPad*2 + lay.labelWidth
	if floor := lay.top + colorbarMinHeight(lay) + labelPad; lay.height < floor {
		lay.height = floor
	}
	return lay, nil
}

// colorbarMinHeight keeps the color bar readable for tiny matrices
func colorbarMinHeight(l layout) int {
	h := l.n * l.cell
	if h < 120 {
		h = 120
	}
	return h
}

func drawTitle(r chart.Renderer, font *truetype.Font, opts HeatmapOptions, lay layout) {
	setText(r, font, opts.FontSize*1.3, textColor)
	box := r.MeasureText(opts.Title)
	r.Text(opts.Title, (lay.width-box.Width())/2, titleHeight/2+box.Height()/2)
}

func drawCells(r chart.Renderer, font *truetype.Font, opts HeatmapOptions, m *analysis.CorrelationMatrix, lay layout) {
	for i := 0; i < lay.n; i++ {
		for j := 0; j < lay.n; j++ {
			x := lay.left + j*lay.cell
			y := lay.top + i*lay.cell
			v := m.At(i, j)

			fill := missingCellColor
			if !math.IsNaN(v) {
				fill = chart.Viridis(v, -1, 1)
			}
			fillRect(r, x, y, x+lay.cell, y+lay.cell, fill)

			label := "nan"
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			setText(r, font, opts.FontSize, contrastText(fill))
			box := r.MeasureText(label)
			r.Text(label, x+(lay.cell-box.Width())/2, y+(lay.cell+box.Height())/2)
		}
	}
}

func drawLabels(r chart.Renderer, font *truetype.Font, opts HeatmapOptions, m *analysis.CorrelationMatrix, lay layout) {
	setText(r, font, opts.FontSize, textColor)
	for i, name := range m.Columns {
		box := r.MeasureText(name)
		// y axis, right aligned against the grid
		r.Text(name, lay.left-labelPad-box.Width(), lay.top+i*lay.cell+(lay.cell+box.Height())/2)
	}

	r.SetTextRotation(3 * math.Pi / 2)
	for j, name := range m.Columns {
		box := r.MeasureText(name)
		// x axis, reading upwards and ending just under the grid
		x := lay.left + j*lay.cell + (lay.cell+box.Height())/2
		y := lay.gridBottom() + labelPad + box.Width()
		r.Text(name, x, y)
	}
	r.ClearTextRotation()
}

func drawColorbar(r chart.Renderer, font *truetype.Font, opts HeatmapOptions, lay layout) {
	x0 := lay.gridRight() + colorbarGap
	x1 := x0 + colorbarWidth
	top := lay.top
	height := colorbarMinHeight(lay)
	if lay.n*lay.cell > height {
		height = lay.n * lay.cell
	}

	for s := 0; s < colorbarSteps; s++ {
		y0 := top + s*height/colorbarSteps
		y1 := top + (s+1)*height/colorbarSteps
		v := 1 - 2*(float64(s)+0.5)/colorbarSteps
		fillRect(r, x0, y0, x1, y1, chart.Viridis(v, -1, 1))
	}

	setText(r, font, opts.FontSize, textColor)
	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		label := fmt.Sprintf("%.2f", tick)
		box := r.MeasureText(label)
		y := top + int(float64(height)*(1-tick)/2)
		r.Text(label, x1+labelPad, y+box.Height()/2)
	}
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeColor(gridLineColor)
	r.SetStrokeWidth(1)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.LineTo(x0, y0)
	r.Close()
	r.FillStroke()
}

func setText(r chart.Renderer, font *truetype.Font, size float64, c drawing.Color) {
	r.SetFont(font)
	r.SetFontSize(size)
	r.SetFontColor(c)
}

// contrastText picks dark or light text for a cell background
func contrastText(bg drawing.Color) drawing.Color {
	luminance := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luminance > 140 {
		return textColor
	}
	return drawing.ColorWhite
}
