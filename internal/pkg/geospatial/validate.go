package geospatial

// IsValidLatitude reports whether v is a latitude in [-90, 90]. NaN is invalid.
func IsValidLatitude(v float64) bool {
	return v >= -90 && v <= 90
}

// IsValidLongitude reports whether v is a longitude in [-180, 180]. NaN is invalid.
func IsValidLongitude(v float64) bool {
	return v >= -180 && v <= 180
}

// IsValidLocation reports whether both components are in range.
func IsValidLocation(lat, lon float64) bool {
	return IsValidLatitude(lat) && IsValidLongitude(lon)
}

// IsValidLocationPtr is IsValidLocation for optional inputs; a nil component
// is invalid.
func IsValidLocationPtr(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	return IsValidLocation(*lat, *lon)
}
