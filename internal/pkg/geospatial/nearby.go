package geospatial

// Within returns the candidates strictly closer than radiusKm to (lat, lon),
// in their original order. loc extracts a candidate's coordinate.
// A non-positive radius yields an empty result. The returned slice is never nil.
func Within[T any](lat, lon, radiusKm float64, candidates []T, loc func(T) (lat, lon float64)) []T {
	out := make([]T, 0, len(candidates))
	if radiusKm <= 0 {
		return out
	}
	for _, c := range candidates {
		cLat, cLon := loc(c)
		if DistanceKm(lat, lon, cLat, cLon) < radiusKm {
			out = append(out, c)
		}
	}
	return out
}
