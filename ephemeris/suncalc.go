package ephemeris

import (
	"time"

	"github.com/sixdouglas/suncalc"
)

// SunCalc is the default Provider backed by github.com/sixdouglas/suncalc.
// The Moon altitude includes the library's atmospheric refraction term.
type SunCalc struct{}

// Name implements Provider
func (SunCalc) Name() string {
	return ProviderSunCalc
}

// Position implements Provider
func (SunCalc) Position(obs Observer, body Body) (Position, error) {
	switch body {
	case Sun:
		pos := suncalc.GetPosition(obs.Time, obs.Latitude, obs.Longitude)
		return newPosition(ProviderSunCalc, Sun, pos.Azimuth, pos.Altitude, 0)
	case Moon:
		pos := suncalc.GetMoonPosition(obs.Time, obs.Latitude, obs.Longitude)
		return newPosition(ProviderSunCalc, Moon, pos.Azimuth, pos.Altitude, pos.Distance)
	default:
		return Position{}, &UnknownBodyError{Body: body}
	}
}

// Day returns sunrise, sunset, solar noon and the Moon's illumination for the
// observer's date. Sunrise and sunset are only reported when the Sun actually
// crosses the horizon that day.
func Day(obs Observer) DayInfo {
	times := suncalc.GetTimes(obs.Time, obs.Latitude, obs.Longitude)
	illumination := suncalc.GetMoonIllumination(obs.Time)

	info := DayInfo{
		SolarNoon:    times["solarNoon"].Value,
		MoonFraction: illumination.Fraction,
		MoonPhase:    illumination.Phase,
	}

	sunrise := times["sunrise"].Value
	sunset := times["sunset"].Value
	if validCrossing(obs.Time, sunrise) && validCrossing(obs.Time, sunset) && sunrise.Before(sunset) {
		info.Sunrise = sunrise
		info.Sunset = sunset
		info.HasSunriseTime = true
	}

	return info
}

// validCrossing rejects the zero or far-off times suncalc yields when there is no crossing
func validCrossing(ref, t time.Time) bool {
	if t.IsZero() {
		return false
	}
	d := t.Sub(ref)
	if d < 0 {
		d = -d
	}
	return d <= 36*time.Hour
}
