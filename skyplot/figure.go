// Package skyplot draws the Sun and Moon positions on a polar compass panel and
// a rectangular azimuth/altitude panel, tiled side by side in one figure.
package skyplot

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/devskill-org/skyview/ephemeris"
)

// Output formats accepted by Encode
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// Default figure size
const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// Marker colors, matching the usual named colors
var (
	ColorYellow = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	ColorOrange = color.RGBA{R: 0xff, G: 0xa5, A: 0xff}
	ColorGray   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// PanelKind tells how a panel projects its data
type PanelKind int

const (
	Polar PanelKind = iota
	Cartesian
)

func (k PanelKind) String() string {
	switch k {
	case Polar:
		return "polar"
	case Cartesian:
		return "cartesian"
	default:
		return fmt.Sprintf("PanelKind(%d)", int(k))
	}
}

// Panel is one subplot of the figure
type Panel struct {
	Kind   PanelKind
	Plot   *plot.Plot
	Series []string // names of the plotted body series, in legend order
}

// Figure is the two-panel sky chart
type Figure struct {
	Panels []Panel
	Width  vg.Length
	Height vg.Length
}

// UnsupportedFormatError is returned by Encode for an unknown image format
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported image format %q, must be one of: %s, %s, %s", e.Format, FormatPNG, FormatSVG, FormatPDF)
}

// Build creates the polar and rectangular panels for state
func Build(state ephemeris.SkyState) (*Figure, error) {
	polar, err := newPolarPanel(state)
	if err != nil {
		return nil, fmt.Errorf("failed to build polar panel: %w", err)
	}

	rect, err := newRectangularPanel(state)
	if err != nil {
		return nil, fmt.Errorf("failed to build rectangular panel: %w", err)
	}

	return &Figure{
		Panels: []Panel{polar, rect},
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}, nil
}

// WriteTo encodes the figure as PNG
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	return f.Encode(w, FormatPNG)
}

// Encode draws the panels side by side and writes the figure in format
func (f *Figure) Encode(w io.Writer, format string) (int64, error) {
	c, err := newCanvas(f.Width, f.Height, format)
	if err != nil {
		return 0, err
	}

	row := make([]*plot.Plot, len(f.Panels))
	for i, p := range f.Panels {
		row[i] = p.Plot
	}
	plots := [][]*plot.Plot{row}

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(row),
		PadX:      vg.Centimeter,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}

	dc := draw.New(c)
	canvases := plot.Align(plots, tiles, dc)
	for i, p := range row {
		p.Draw(canvases[0][i])
	}

	n, err := c.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write %s figure: %w", format, err)
	}
	return n, nil
}

// ContentType returns the MIME type for an output format
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

func newCanvas(w, h vg.Length, format string) (vg.CanvasWriterTo, error) {
	switch format {
	case FormatPNG, "":
		return vgimg.PngCanvas{Canvas: vgimg.New(w, h)}, nil
	case FormatSVG:
		return vgsvg.New(w, h), nil
	case FormatPDF:
		return vgpdf.New(w, h), nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// bodyScatter returns a single-point scatter with a filled circle marker
func bodyScatter(x, y float64, c color.Color) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(plotter.XYs{{X: x, Y: y}})
	if err != nil {
		return nil, err
	}
	s.GlyphStyle = draw.GlyphStyle{
		Color:  c,
		Radius: vg.Points(5),
		Shape:  draw.CircleGlyph{},
	}
	return s, nil
}
