package ephemeris

import "math"

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// NormalizeAzimuth wraps an angle in degrees into [0, 360)
func NormalizeAzimuth(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod of a tiny negative value can round up to exactly 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// CompassAzimuth converts an azimuth in radians measured westward from the
// south (the suncalc and Meeus convention) to degrees clockwise from the north
func CompassAzimuth(southRad float64) float64 {
	return NormalizeAzimuth(RadToDeg(southRad) + 180)
}

// ZenithDistance returns 90 - altitude, 0 at the zenith and 90 at the horizon
func ZenithDistance(altitude float64) float64 {
	return 90 - altitude
}

// AltitudeFromZenithDistance is the inverse of ZenithDistance
func AltitudeFromZenithDistance(zenithDistance float64) float64 {
	return 90 - zenithDistance
}

// clampAltitude keeps rounding noise from pushing an altitude past the poles
func clampAltitude(deg float64) float64 {
	return math.Max(-90, math.Min(90, deg))
}
