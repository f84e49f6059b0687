// Package gamification holds the progression rules of Spirit City: the
// haversine proximity gate, QR payload verification, the joined->completed
// participation transitions, pet XP/level/streak arithmetic and achievement
// evaluation. Everything here is pure; controllers apply the results inside
// database transactions.
package gamification

import "math"

// earthRadiusMeters is the mean Earth radius used by the spherical approximation.
const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula. Events are always within one metro area, so the
// spherical-earth error is negligible for the proximity gate.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
