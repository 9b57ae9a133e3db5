package snapguess

import "math"

const (
	earthRadiusKm = 6371

	// maxScore is awarded for a perfect guess; the score decays linearly
	// and bottoms out at zero once the guess is maxDistanceKm away.
	maxScore      = 5000
	maxDistanceKm = 5000
)

// Distance returns the great-circle distance between two points in
// kilometers, computed with the Haversine formula.
func Distance(a, b Location) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// LocationScore converts a guess distance to points. Linear decay:
// 5000 points at 0 km, zero at 5000 km or beyond. Callers must not
// assume any other curve.
func LocationScore(distanceKm float64) int {
	if distanceKm >= maxDistanceKm {
		return 0
	}
	return int(math.Round(math.Max(0, maxScore-distanceKm)))
}

// OwnerBonus is a defined no-op. Owner guessing was removed from the
// game; the column survives in the schema so old rows stay readable.
func OwnerBonus(guessedOwnerID, actualOwnerID string) int {
	return 0
}
