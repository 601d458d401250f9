package ephemeris

import (
	"fmt"
	"time"
)

// Body identifies a celestial body supported by the providers
type Body int

const (
	Sun Body = iota
	Moon
)

// Bodies lists every supported body in plotting order
var Bodies = []Body{Sun, Moon}

func (b Body) String() string {
	switch b {
	case Sun:
		return "Sun"
	case Moon:
		return "Moon"
	default:
		return fmt.Sprintf("Body(%d)", int(b))
	}
}

// Observer is a geographic location at a single instant
type Observer struct {
	Latitude  float64   // degrees, north positive
	Longitude float64   // degrees, east positive
	Time      time.Time // observation instant
}

// NewObserver creates an observer for the given location and instant
func NewObserver(latitude, longitude float64, t time.Time) Observer {
	return Observer{
		Latitude:  latitude,
		Longitude: longitude,
		Time:      t,
	}
}

// LatRad returns the latitude in radians
func (o Observer) LatRad() float64 {
	return DegToRad(o.Latitude)
}

// LonRad returns the longitude in radians
func (o Observer) LonRad() float64 {
	return DegToRad(o.Longitude)
}

// Position is the apparent horizontal position of a body
type Position struct {
	Body       Body    `json:"-"`
	Name       string  `json:"body"`
	Azimuth    float64 `json:"azimuth"`               // degrees clockwise from north, [0, 360)
	Altitude   float64 `json:"altitude"`              // degrees above the horizon, [-90, 90]
	DistanceKm float64 `json:"distance_km,omitempty"` // 0 when the backend does not report it
}

// ZenithDistance returns the angular distance from the zenith in degrees
func (p Position) ZenithDistance() float64 {
	return ZenithDistance(p.Altitude)
}

// AboveHorizon reports whether the body is above the geometric horizon
func (p Position) AboveHorizon() bool {
	return p.Altitude > 0
}

// SkyState holds the positions of all bodies for one observer
type SkyState struct {
	Observer Observer `json:"-"`
	Provider string   `json:"provider"`
	Sun      Position `json:"sun"`
	Moon     Position `json:"moon"`
}

// Positions returns the body positions in plotting order
func (s SkyState) Positions() []Position {
	return []Position{s.Sun, s.Moon}
}

// DayInfo holds informational sun and moon data for the observation date
type DayInfo struct {
	Sunrise        time.Time `json:"sunrise"`
	Sunset         time.Time `json:"sunset"`
	SolarNoon      time.Time `json:"solar_noon"`
	MoonFraction   float64   `json:"moon_fraction"` // illuminated fraction, 0..1
	MoonPhase      float64   `json:"moon_phase"`    // 0 new, 0.25 first quarter, 0.5 full, 0.75 last quarter
	HasSunriseTime bool      `json:"has_sunrise"`   // false during polar day or night
}
