// Package geo provides spherical-earth coordinate math for the exploration
// engine: great-circle distance, bearings, forward projection, and conversion
// into the session's local planar frame.
package geo

import "math"

// EarthRadiusMeters is the mean earth radius used by the spherical model.
const EarthRadiusMeters = 6371000.0

// Coordinate is a geographic point in degrees (WGS84-style).
// Coordinates are values: new positions are new Coordinates.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LocalVector is a point in the session's planar frame anchored at the
// origin. +X is east, -Z is north, Y is unused (ground plane).
type LocalVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceMeters returns the great-circle distance between a and b using the
// haversine formula.
func DistanceMeters(a, b Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// BearingDegrees returns the initial bearing from one point toward another
// in [0, 360), 0 = true north, clockwise. Returns 0 when from == to.
func BearingDegrees(from, to Coordinate) float64 {
	if from == to {
		return 0
	}

	lat1 := toRad(from.Lat)
	lat2 := toRad(to.Lat)
	dLon := toRad(to.Lon - from.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeDegrees(toDeg(math.Atan2(y, x)))
}

// DestinationPoint projects start forward by distanceMeters along
// bearingDegrees on the spherical model.
func DestinationPoint(start Coordinate, distanceMeters, bearingDegrees float64) Coordinate {
	ad := distanceMeters / EarthRadiusMeters
	brg := toRad(bearingDegrees)
	lat1 := toRad(start.Lat)
	lon1 := toRad(start.Lon)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ad) + math.Cos(lat1)*math.Sin(ad)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(ad)*math.Cos(lat1),
		math.Cos(ad)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Coordinate{Lat: toDeg(lat2), Lon: NormalizeLongitude(toDeg(lon2))}
}

// GeoToLocal converts target into the planar frame anchored at origin.
// Bearing 0 (north) maps to -Z, bearing 90 (east) to +X. Rendering relies on
// this convention; do not change it.
func GeoToLocal(origin, target Coordinate) LocalVector {
	dist := DistanceMeters(origin, target)
	brg := toRad(BearingDegrees(origin, target))
	return LocalVector{
		X: dist * math.Sin(brg),
		Z: -dist * math.Cos(brg),
	}
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// NormalizeLongitude wraps a longitude into [-180, 180).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// AngleDiffDegrees returns the absolute smallest difference between two
// angles in degrees, in [0, 180].
func AngleDiffDegrees(a, b float64) float64 {
	d := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }
