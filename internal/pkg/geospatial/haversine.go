package geospatial

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by DistanceKm.
	EarthRadiusKm = 6371.0

	// DefaultRadiusKm is the search radius applied when a query omits one.
	DefaultRadiusKm = 5.0
)

// DistanceKm returns the great-circle distance in kilometers between two points
// given in decimal degrees.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push a just outside [0, 1] near antipodes.
	a = math.Max(0, math.Min(1, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// BoundingBox returns a box that contains every point closer than radiusKm to
// (lat, lon). It is a superset: callers must still filter with DistanceKm.
// When the circle reaches a pole or crosses the antimeridian the longitude
// range widens to the full [-180, 180].
func BoundingBox(lat, lon, radiusKm float64) (minLat, minLon, maxLat, maxLon float64) {
	angular := radiusKm / EarthRadiusKm
	latDelta := toDeg(angular)

	minLat = lat - latDelta
	maxLat = lat + latDelta
	if minLat <= -90 || maxLat >= 90 || angular >= math.Pi/2 {
		return math.Max(minLat, -90), -180, math.Min(maxLat, 90), 180
	}

	lonDelta := toDeg(math.Asin(math.Sin(angular) / math.Cos(toRad(lat))))
	minLon = lon - lonDelta
	maxLon = lon + lonDelta
	if minLon < -180 || maxLon > 180 {
		return minLat, -180, maxLat, 180
	}
	return minLat, minLon, maxLat, maxLon
}

// KmToMeters converts kilometers to meters.
func KmToMeters(km float64) float64 { return km * 1000 }

// MetersToKm converts meters to kilometers.
func MetersToKm(m float64) float64 { return m / 1000 }

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
