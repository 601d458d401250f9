package skyplot

import (
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/devskill-org/skyview/ephemeris"
)

func newRectangularPanel(state ephemeris.SkyState) (Panel, error) {
	p := plot.New()
	p.Title.Text = "Rectangular Plot"
	p.X.Label.Text = "Azimuth (degrees)"
	p.Y.Label.Text = "Altitude (degrees)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	panel := Panel{Kind: Cartesian, Plot: p}
	for _, b := range []struct {
		pos   ephemeris.Position
		color color.Color
	}{
		{state.Sun, ColorOrange},
		{state.Moon, ColorGray},
	} {
		s, err := bodyScatter(b.pos.Azimuth, b.pos.Altitude, b.color)
		if err != nil {
			return Panel{}, err
		}
		p.Add(s)
		p.Legend.Add(b.pos.Name, s)
		panel.Series = append(panel.Series, b.pos.Name)
	}

	// Fixed ranges; bodies below the horizon fall outside and are clipped
	p.X.Min, p.X.Max = 0, 360
	p.Y.Min, p.Y.Max = 0, 90
	p.X.Tick.Marker = stepTicks(45)
	p.Y.Tick.Marker = stepTicks(15)

	// Both axes run backwards so the panel reads like the compass view
	p.X.Scale = plot.InvertedScale{Normalizer: p.X.Scale}
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}

	return panel, nil
}

// stepTicks labels every multiple of step within the axis range
func stepTicks(step float64) plot.Ticker {
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		var ticks []plot.Tick
		for v := min; v <= max+1e-9; v += step {
			ticks = append(ticks, plot.Tick{Value: v, Label: formatDegrees(v)})
		}
		return ticks
	})
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
