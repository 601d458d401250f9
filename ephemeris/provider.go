package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Names accepted by NewProvider
const (
	ProviderSunCalc = "suncalc"
	ProviderMeeus   = "meeus"
)

var errNonFinite = errors.New("backend returned a non-finite coordinate")

// Provider computes the apparent horizontal position of a body for an observer
type Provider interface {
	// Name returns the backend name as accepted by NewProvider
	Name() string

	// Position returns the topocentric azimuth and altitude of body
	Position(obs Observer, body Body) (Position, error)
}

// NewProvider returns the backend registered under name. An empty name selects suncalc.
func NewProvider(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderSunCalc:
		return SunCalc{}, nil
	case ProviderMeeus:
		return NewMeeus(), nil
	default:
		return nil, &UnknownProviderError{Name: name}
	}
}

// Compute returns the positions of the Sun and the Moon for obs
func Compute(p Provider, obs Observer) (SkyState, error) {
	state := SkyState{
		Observer: obs,
		Provider: p.Name(),
	}

	sun, err := p.Position(obs, Sun)
	if err != nil {
		return SkyState{}, fmt.Errorf("failed to compute sky state: %w", err)
	}
	state.Sun = sun

	moon, err := p.Position(obs, Moon)
	if err != nil {
		return SkyState{}, fmt.Errorf("failed to compute sky state: %w", err)
	}
	state.Moon = moon

	return state, nil
}

// newPosition converts backend radians (azimuth from the south, westward) into a Position
func newPosition(provider string, body Body, azimuthRad, altitudeRad, distanceKm float64) (Position, error) {
	for _, v := range []float64{azimuthRad, altitudeRad, distanceKm} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Position{}, &ComputeError{Provider: provider, Body: body, Err: errNonFinite}
		}
	}

	return Position{
		Body:       body,
		Name:       body.String(),
		Azimuth:    CompassAzimuth(azimuthRad),
		Altitude:   clampAltitude(RadToDeg(altitudeRad)),
		DistanceKm: distanceKm,
	}, nil
}
