// Package main provides the skyview entry point and CLI interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/devskill-org/skyview/ephemeris"
	"github.com/devskill-org/skyview/utils"
	"github.com/devskill-org/skyview/viewer"
)

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "", "Configuration file path (optional)")
		lat        = flag.Float64("lat", viewer.DefaultLatitude, "Observer latitude in degrees, north positive")
		lon        = flag.Float64("lon", viewer.DefaultLongitude, "Observer longitude in degrees, east positive")
		obsTime    = flag.String("time", "", "Observation time in RFC 3339 format (default: now, UTC)")
		provider   = flag.String("ephemeris", ephemeris.ProviderSunCalc, "Ephemeris backend: suncalc or meeus")
		outFile    = flag.String("out", "", "Write the chart to this file instead of serving it")
		format     = flag.String("format", "png", "Chart format: png, svg or pdf")
		port       = flag.Int("port", 8080, "Port of the local chart viewer")
		info       = flag.Bool("info", false, "Print the Sun and Moon positions and exit")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	logger := log.New(os.Stdout, "[SKYVIEW] ", log.LstdFlags)

	if err := godotenv.Load(); err != nil {
		logger.Printf("No .env file found, using environment and flags")
	}

	config := viewer.DefaultConfig()
	if *configFile != "" {
		var err error
		if config, err = viewer.LoadConfig(*configFile); err != nil {
			fmt.Println("Error loading configuration:", err)
			os.Exit(1)
		}
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Println("Error reading environment:", err)
		os.Exit(1)
	}

	// Explicit flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			config.Latitude = *lat
		case "lon":
			config.Longitude = *lon
		case "time":
			config.ObservationTime = *obsTime
		case "ephemeris":
			config.Ephemeris = *provider
		case "out":
			config.OutputFile = *outFile
		case "format":
			config.OutputFormat = *format
		case "port":
			config.ViewerPort = *port
		}
	})

	if err := config.Validate(); err != nil {
		fmt.Println("Invalid configuration:", err)
		os.Exit(1)
	}

	t, err := config.ObservationInstant(time.Now)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if *info {
		if err := showPositions(config, logger, t); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	}

	// Set up context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("Plotting Sun and Moon for %.6f, %.6f at %s (%s)",
		config.Latitude, config.Longitude, utils.FormatUTC(t), config.Ephemeris)

	if err := viewer.PlotSky(ctx, config, logger, config.Latitude, config.Longitude, t); err != nil {
		logger.Printf("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func showPositions(config *viewer.Config, logger *log.Logger, t time.Time) error {
	renderer, err := viewer.NewSkyRenderer(config, logger)
	if err != nil {
		return err
	}

	state, err := renderer.Compute(config.Latitude, config.Longitude, t)
	if err != nil {
		return err
	}
	day := ephemeris.Day(state.Observer)

	fmt.Println("\n========================================")
	fmt.Println("SUN AND MOON POSITIONS")
	fmt.Println("========================================")
	fmt.Printf("Observer:  %.6f, %.6f\n", config.Latitude, config.Longitude)
	fmt.Printf("Time:      %s\n", utils.FormatUTC(t))
	fmt.Printf("Ephemeris: %s\n\n", state.Provider)

	fmt.Println("┌──────┬───────────┬───────────┬───────────┬─────────────┐")
	fmt.Println("│ Body │  Azimuth  │ Altitude  │ Zenith D. │  Distance   │")
	fmt.Println("│      │   (deg)   │   (deg)   │   (deg)   │    (km)     │")
	fmt.Println("├──────┼───────────┼───────────┼───────────┼─────────────┤")
	for _, pos := range state.Positions() {
		fmt.Printf("│ %-4s │  %7.2f  │  %7.2f  │  %7.2f  │ %11.0f │\n",
			pos.Name, pos.Azimuth, pos.Altitude, pos.ZenithDistance(), pos.DistanceKm)
	}
	fmt.Println("└──────┴───────────┴───────────┴───────────┴─────────────┘")

	fmt.Println("\n========================================")
	fmt.Println("DAY")
	fmt.Println("========================================")
	if day.HasSunriseTime {
		fmt.Printf("Sunrise:     %s\n", utils.FormatUTC(day.Sunrise))
		fmt.Printf("Solar noon:  %s\n", utils.FormatUTC(day.SolarNoon))
		fmt.Printf("Sunset:      %s\n", utils.FormatUTC(day.Sunset))
	} else {
		fmt.Println("No sunrise or sunset on this date")
	}
	fmt.Printf("Moon illuminated: %.0f%%\n", day.MoonFraction*100)
	fmt.Println("========================================")

	return nil
}

func showHelp() {
	fmt.Println("skyview - Plot the apparent position of the Sun and the Moon")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Computes the azimuth and altitude of the Sun and the Moon for an observer")
	fmt.Println("  and an instant, and draws them on a polar compass chart and on an")
	fmt.Println("  azimuth/altitude chart. The chart is served on a local web page until")
	fmt.Println("  interrupted, or written to a file with -out.")
	fmt.Println()
	fmt.Println("  Settings are read from the config file, then SKYVIEW_* environment")
	fmt.Println("  variables (a .env file is loaded if present), then flags.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  skyview [OPTIONS]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Current sky over the Berkeley Campanile")
	fmt.Println("  skyview")
	fmt.Println()
	fmt.Println("  # Riga at the March equinox, written to a file")
	fmt.Println("  skyview -lat 56.9496 -lon 24.1052 -time 2024-03-20T12:00:00+02:00 -out sky.png")
	fmt.Println()
	fmt.Println("  # Positions only, using the Meeus backend")
	fmt.Println("  skyview -ephemeris meeus -info")
	fmt.Println()
	fmt.Println("  # Custom configuration")
	fmt.Println("  skyview --config=config.json")
}
