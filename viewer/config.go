package viewer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devskill-org/skyview/ephemeris"
	"github.com/devskill-org/skyview/skyplot"
	"github.com/devskill-org/skyview/utils"
)

// Config represents the configuration for a sky render
type Config struct {
	// Observer settings
	Latitude        float64 `json:"latitude"`         // Observer latitude in degrees, north positive
	Longitude       float64 `json:"longitude"`        // Observer longitude in degrees, east positive
	ObservationTime string  `json:"observation_time"` // RFC 3339 timestamp, empty for now (UTC)

	// Ephemeris backend: suncalc or meeus
	Ephemeris string `json:"ephemeris"`

	// Figure settings
	OutputFile   string  `json:"output_file"`   // Write the figure here instead of serving it
	OutputFormat string  `json:"output_format"` // png, svg or pdf
	FigureWidth  float64 `json:"figure_width"`  // inches
	FigureHeight float64 `json:"figure_height"` // inches

	// Viewer settings
	ViewerPort      int           `json:"viewer_port"`      // Port of the local viewer
	ShutdownTimeout time.Duration `json:"shutdown_timeout"` // Grace period for closing the viewer

	// Logging settings
	LogLevel string `json:"log_level"` // Log level: debug, info, warn, error
}

// Default observer: the Campanile, UC Berkeley
const (
	DefaultLatitude  = 37.871873
	DefaultLongitude = -122.258347
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Latitude:        DefaultLatitude,
		Longitude:       DefaultLongitude,
		ObservationTime: "",
		Ephemeris:       ephemeris.ProviderSunCalc,
		OutputFile:      "",
		OutputFormat:    skyplot.FormatPNG,
		FigureWidth:     12,
		FigureHeight:    6,
		ViewerPort:      8080,
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	config := DefaultConfig()

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config JSON: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a JSON file
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	return c.SaveConfigToWriter(file)
}

// SaveConfigToWriter saves the configuration to an io.Writer
func (c *Config) SaveConfigToWriter(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config JSON: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from SKYVIEW_* environment variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	floats := map[string]*float64{
		"SKYVIEW_LATITUDE":  &c.Latitude,
		"SKYVIEW_LONGITUDE": &c.Longitude,
	}
	for key, dst := range floats {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = f
		}
	}

	strs := map[string]*string{
		"SKYVIEW_TIME":      &c.ObservationTime,
		"SKYVIEW_EPHEMERIS": &c.Ephemeris,
		"SKYVIEW_OUTPUT":    &c.OutputFile,
		"SKYVIEW_FORMAT":    &c.OutputFormat,
		"SKYVIEW_LOG_LEVEL": &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("SKYVIEW_PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid SKYVIEW_PORT: %w", err)
		}
		c.ViewerPort = port
	}

	return nil
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	// Validate latitude
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got: %f", c.Latitude)
	}

	// Validate longitude
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got: %f", c.Longitude)
	}

	if _, err := utils.ParseObservationTime(c.ObservationTime, time.Now); err != nil {
		return fmt.Errorf("invalid observation_time: %w", err)
	}

	if _, err := ephemeris.NewProvider(c.Ephemeris); err != nil {
		return fmt.Errorf("invalid ephemeris: %w", err)
	}

	validFormats := map[string]bool{
		skyplot.FormatPNG: true,
		skyplot.FormatSVG: true,
		skyplot.FormatPDF: true,
	}
	if !validFormats[c.OutputFormat] {
		return fmt.Errorf("invalid output_format: %s, must be one of: png, svg, pdf", c.OutputFormat)
	}

	if c.FigureWidth <= 0 {
		return fmt.Errorf("figure_width must be greater than 0, got: %f", c.FigureWidth)
	}

	if c.FigureHeight <= 0 {
		return fmt.Errorf("figure_height must be greater than 0, got: %f", c.FigureHeight)
	}

	if c.ViewerPort < 0 || c.ViewerPort > 65535 {
		return fmt.Errorf("viewer_port must be between 0 and 65535, got: %d", c.ViewerPort)
	}

	if c.OutputFile == "" && c.ViewerPort == 0 {
		return fmt.Errorf("either output_file or viewer_port must be set")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be greater than 0, got: %s", c.ShutdownTimeout)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level: %s, must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ObservationInstant resolves ObservationTime, defaulting to now in UTC
func (c *Config) ObservationInstant(now func() time.Time) (time.Time, error) {
	return utils.ParseObservationTime(c.ObservationTime, now)
}

// MarshalJSON implements custom JSON marshaling to handle durations
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		ShutdownTimeout string `json:"shutdown_timeout"`
	}{
		Alias:           (*Alias)(c),
		ShutdownTimeout: c.ShutdownTimeout.String(),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling to handle durations
func (c *Config) UnmarshalJSON(data []byte) error {
	type Alias Config
	aux := &struct {
		*Alias
		ShutdownTimeout string `json:"shutdown_timeout"`
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.ShutdownTimeout != "" {
		var err error
		if c.ShutdownTimeout, err = time.ParseDuration(aux.ShutdownTimeout); err != nil {
			return fmt.Errorf("invalid shutdown_timeout: %w", err)
		}
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
