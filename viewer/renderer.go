package viewer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/devskill-org/skyview/ephemeris"
	"github.com/devskill-org/skyview/skyplot"
)

// Snapshot is one computed and rendered observation
type Snapshot struct {
	State      ephemeris.SkyState
	Day        ephemeris.DayInfo
	Figure     *skyplot.Figure
	Image      []byte
	Format     string
	RenderedAt time.Time
}

// Display shows a rendered snapshot on some output surface
type Display interface {
	Show(ctx context.Context, snap *Snapshot) error
}

// SkyRenderer computes body positions and draws the two-panel figure
type SkyRenderer struct {
	provider ephemeris.Provider
	format   string
	width    vg.Length
	height   vg.Length
	debug    bool
	logger   *log.Logger
}

// NewSkyRenderer creates a renderer from the configuration
func NewSkyRenderer(config *Config, logger *log.Logger) (*SkyRenderer, error) {
	if logger == nil {
		logger = log.Default()
	}

	provider, err := ephemeris.NewProvider(config.Ephemeris)
	if err != nil {
		return nil, err
	}

	return &SkyRenderer{
		provider: provider,
		format:   config.OutputFormat,
		width:    vg.Length(config.FigureWidth) * vg.Inch,
		height:   vg.Length(config.FigureHeight) * vg.Inch,
		debug:    config.LogLevel == "debug",
		logger:   logger,
	}, nil
}

// Compute returns the Sun and Moon positions without rendering
func (r *SkyRenderer) Compute(latitude, longitude float64, t time.Time) (ephemeris.SkyState, error) {
	obs := ephemeris.NewObserver(latitude, longitude, t)

	state, err := ephemeris.Compute(r.provider, obs)
	if err != nil {
		return ephemeris.SkyState{}, err
	}

	if r.debug {
		for _, pos := range state.Positions() {
			r.logger.Printf("[%s] %s: azimuth %.4f°, altitude %.4f°, zenith distance %.4f°",
				state.Provider, pos.Name, pos.Azimuth, pos.Altitude, pos.ZenithDistance())
		}
	}

	return state, nil
}

// Render computes the positions for the observer and encodes the figure
func (r *SkyRenderer) Render(latitude, longitude float64, t time.Time) (*Snapshot, error) {
	state, err := r.Compute(latitude, longitude, t)
	if err != nil {
		return nil, err
	}

	fig, err := skyplot.Build(state)
	if err != nil {
		return nil, fmt.Errorf("failed to build figure: %w", err)
	}
	fig.Width = r.width
	fig.Height = r.height

	var buf bytes.Buffer
	if _, err := fig.Encode(&buf, r.format); err != nil {
		return nil, fmt.Errorf("failed to render figure: %w", err)
	}

	return &Snapshot{
		State:      state,
		Day:        ephemeris.Day(state.Observer),
		Figure:     fig,
		Image:      buf.Bytes(),
		Format:     r.format,
		RenderedAt: time.Now(),
	}, nil
}

// FileDisplay writes the rendered figure to a file
type FileDisplay struct {
	Path   string
	logger *log.Logger
}

// NewFileDisplay creates a display writing to path
func NewFileDisplay(path string, logger *log.Logger) *FileDisplay {
	if logger == nil {
		logger = log.Default()
	}
	return &FileDisplay{Path: path, logger: logger}
}

// Show implements Display
func (d *FileDisplay) Show(_ context.Context, snap *Snapshot) error {
	if err := os.WriteFile(d.Path, snap.Image, 0o644); err != nil {
		return fmt.Errorf("failed to write figure: %w", err)
	}
	d.logger.Printf("Sky chart written to %s (%d bytes, %s)", d.Path, len(snap.Image), snap.Format)
	return nil
}

// NewDisplay picks the file output when configured, otherwise the local viewer
func NewDisplay(config *Config, logger *log.Logger) Display {
	if config.OutputFile != "" {
		return NewFileDisplay(config.OutputFile, logger)
	}
	return NewWebServer(config.ViewerPort, config.ShutdownTimeout, logger)
}

// PlotSky computes the Sun and Moon positions for the observer at t and shows
// the two-panel chart. With the web viewer it blocks until ctx is cancelled.
func PlotSky(ctx context.Context, config *Config, logger *log.Logger, latitude, longitude float64, t time.Time) error {
	renderer, err := NewSkyRenderer(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	snap, err := renderer.Render(latitude, longitude, t)
	if err != nil {
		return err
	}

	return NewDisplay(config, logger).Show(ctx, snap)
}
