// Package geoutil holds small WGS84 geometry helpers shared by the
// routing, snapping, and differential-analysis packages: great-circle
// distance and destination-point projection, ported in spirit from the
// teacher's pkg/geo/distance.go (same haversine formula, same
// destination-point construction, adapted to take/return degrees
// throughout instead of mixing radians at call sites).
package geoutil

import "math"

const earthRadiusM = 6371007.0

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// HaversineMeters returns the great-circle distance between two WGS84
// points in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := degToRad(lat1), degToRad(lat2)
	dPhi := degToRad(lat2 - lat1)
	dLambda := degToRad(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusM * c
}

// DestinationPoint projects a point a given distance (meters) along a
// bearing (degrees clockwise from north).
func DestinationPoint(lat, lon, bearingDeg, distMeters float64) (float64, float64) {
	phi1 := degToRad(lat)
	lambda1 := degToRad(lon)
	theta := degToRad(bearingDeg)
	delta := distMeters / earthRadiusM

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2),
	)
	return radToDeg(phi2), radToDeg(lambda2)
}
