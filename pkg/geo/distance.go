package geo

import (
	"github.com/golang/geo/s2"
)

const (
	earthRadiusM = 6371007.0
)

// HaversineDistance returns the great-circle distance between two
// lat/lon degree coordinates, in meters.
func HaversineDistance(latOne, lonOne, latTwo, lonTwo float64) float64 {
	return s2.LatLngFromDegrees(latOne, lonOne).
		Distance(s2.LatLngFromDegrees(latTwo, lonTwo)).Radians() * earthRadiusM
}
