// Package ephemeris computes the apparent horizontal position of the Sun and
// the Moon for an observer on the Earth's surface.
//
// The package does not implement orbital mechanics itself. It wraps existing
// ephemeris libraries behind a small Provider interface and normalises their
// output to compass conventions:
//
//   - Azimuth in degrees, 0 = north, increasing clockwise, in [0, 360)
//   - Altitude in degrees above the horizon, in [-90, 90]
//
// Basic Usage:
//
//	obs := ephemeris.NewObserver(37.871873, -122.258347, time.Now().UTC())
//
//	provider, err := ephemeris.NewProvider(ephemeris.ProviderSunCalc)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, err := ephemeris.Compute(provider, obs)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Sun: az %.2f°, alt %.2f°\n", state.Sun.Azimuth, state.Sun.Altitude)
//
// Backends:
//
// - ProviderSunCalc: github.com/sixdouglas/suncalc (default)
// - ProviderMeeus: github.com/soniakeys/meeus/v3, apparent coordinates with nutation
package ephemeris
