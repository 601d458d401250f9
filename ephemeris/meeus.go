package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

const (
	// defaultDeltaT is TT - UT in seconds, close to the 2020s value
	defaultDeltaT = 69.2

	earthEquatorialRadiusKm = 6378.14
)

// Meeus is a Provider backed by github.com/soniakeys/meeus/v3 (Jean Meeus,
// "Astronomical Algorithms"). Positions are apparent, with nutation and
// aberration; the Moon is corrected for horizontal parallax.
type Meeus struct {
	// DeltaT is TT - UT in seconds used to derive the ephemeris day
	DeltaT float64
}

// NewMeeus returns a Meeus provider with the default ΔT
func NewMeeus() Meeus {
	return Meeus{DeltaT: defaultDeltaT}
}

// Name implements Provider
func (Meeus) Name() string {
	return ProviderMeeus
}

// Position implements Provider
func (m Meeus) Position(obs Observer, body Body) (Position, error) {
	jd := julian.TimeToJD(obs.Time.UTC())
	jde := jd + m.DeltaT/86400

	st := sidereal.Apparent(jd)
	φ := unit.Angle(obs.LatRad())
	// Meeus measures longitude positive westward
	ψ := unit.Angle(-obs.LonRad())

	switch body {
	case Sun:
		α, δ := solar.ApparentEquatorial(jde)
		A, h := coord.EqToHz(α, δ, φ, ψ, st)
		return newPosition(ProviderMeeus, Sun, A.Rad(), h.Rad(), 0)
	case Moon:
		λ, β, Δ := moonposition.Position(jde)
		Δψ, Δε := nutation.Nutation(jde)
		ε := nutation.MeanObliquity(jde) + Δε
		α, δ := coord.EclToEq(λ+Δψ, β, ε.Sin(), ε.Cos())
		A, h := coord.EqToHz(α, δ, φ, ψ, st)
		return newPosition(ProviderMeeus, Moon, A.Rad(), topocentricAltitude(h.Rad(), Δ), Δ)
	default:
		return Position{}, &UnknownBodyError{Body: body}
	}
}

// topocentricAltitude lowers a geocentric altitude by the parallax of a body at distanceKm
func topocentricAltitude(altitudeRad, distanceKm float64) float64 {
	if distanceKm <= earthEquatorialRadiusKm {
		return altitudeRad
	}
	parallax := math.Asin(earthEquatorialRadiusKm / distanceKm)
	return altitudeRad - math.Asin(math.Sin(parallax)*math.Cos(altitudeRad))
}
