// Package main provides an example of computing Sun and Moon positions with both ephemeris backends.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/devskill-org/skyview/ephemeris"
)

func main() {
	// Riga, Latvia
	obs := ephemeris.NewObserver(56.9496, 24.1052, time.Now().UTC())

	for _, name := range []string{ephemeris.ProviderSunCalc, ephemeris.ProviderMeeus} {
		provider, err := ephemeris.NewProvider(name)
		if err != nil {
			log.Fatalf("Invalid provider: %v", err)
		}

		state, err := ephemeris.Compute(provider, obs)
		if err != nil {
			log.Fatalf("Compute failed: %v", err)
		}

		fmt.Printf("[%s]\n", state.Provider)
		for _, pos := range state.Positions() {
			fmt.Printf("  %-4s Azimuth: %6.2f°, Altitude: %6.2f°\n", pos.Name, pos.Azimuth, pos.Altitude)
		}
	}

	day := ephemeris.Day(obs)
	if day.HasSunriseTime {
		fmt.Println("Sunrise:", day.Sunrise)
		fmt.Println("Sunset:", day.Sunset)
	}
	fmt.Printf("Moon illuminated: %.0f%%\n", day.MoonFraction*100)
}
