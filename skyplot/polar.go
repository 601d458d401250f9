package skyplot

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/devskill-org/skyview/ephemeris"
)

// CompassPoint is a labelled direction on the polar panel
type CompassPoint struct {
	Label   string
	Azimuth float64 // degrees clockwise from north
}

// CompassPoints are the eight guide directions drawn on the polar panel
var CompassPoints = []CompassPoint{
	{"N", 0}, {"NE", 45}, {"E", 90}, {"SE", 135},
	{"S", 180}, {"SW", 225}, {"W", 270}, {"NW", 315},
}

const (
	horizonRadius = 90.0 // zenith distance of the horizon
	labelRadius   = 95.0
	polarMargin   = 10.0
)

var ringRadii = []float64{30, 60, 90}

var spokeColor = color.NRGBA{A: 77} // black at 30% opacity

// PolarXY projects a compass azimuth and radius onto the plane with north up
// and azimuth increasing clockwise
func PolarXY(azimuth, radius float64) (x, y float64) {
	rad := ephemeris.DegToRad(azimuth)
	return radius * math.Sin(rad), radius * math.Cos(rad)
}

func newPolarPanel(state ephemeris.SkyState) (Panel, error) {
	p := plot.New()
	p.Title.Text = "Polar Plot"
	p.HideAxes()
	p.Legend.Top = true

	for _, r := range ringRadii {
		ring, err := circle(r)
		if err != nil {
			return Panel{}, err
		}
		p.Add(ring)
	}

	for _, cp := range CompassPoints {
		x, y := PolarXY(cp.Azimuth, horizonRadius)
		spoke, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: x, Y: y}})
		if err != nil {
			return Panel{}, err
		}
		spoke.LineStyle = draw.LineStyle{Color: spokeColor, Width: vg.Points(1)}
		p.Add(spoke)
	}

	labels, err := compassLabels()
	if err != nil {
		return Panel{}, err
	}
	p.Add(labels)

	extent := labelRadius + polarMargin
	panel := Panel{Kind: Polar, Plot: p}
	for _, b := range []struct {
		pos   ephemeris.Position
		color color.Color
	}{
		{state.Sun, ColorYellow},
		{state.Moon, ColorGray},
	} {
		zd := b.pos.ZenithDistance()
		x, y := PolarXY(b.pos.Azimuth, zd)
		s, err := bodyScatter(x, y, b.color)
		if err != nil {
			return Panel{}, err
		}
		p.Add(s)
		p.Legend.Add(b.pos.Name, s)
		panel.Series = append(panel.Series, b.pos.Name)

		extent = math.Max(extent, zd+polarMargin)
	}

	p.X.Min, p.X.Max = -extent, extent
	p.Y.Min, p.Y.Max = -extent, extent

	return panel, nil
}

// circle returns a closed polyline of constant zenith distance r
func circle(r float64) (*plotter.Line, error) {
	const segments = 120
	pts := make(plotter.XYs, segments+1)
	for i := range pts {
		pts[i].X, pts[i].Y = PolarXY(float64(i)*360/segments, r)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle = plotter.DefaultGridLineStyle
	return line, nil
}

func compassLabels() (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(CompassPoints))
	names := make([]string, len(CompassPoints))
	for i, cp := range CompassPoints {
		xys[i].X, xys[i].Y = PolarXY(cp.Azimuth, labelRadius)
		names[i] = cp.Label
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
		labels.TextStyle[i].Font.Size = vg.Points(8)
	}
	return labels, nil
}
