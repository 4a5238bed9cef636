package domain

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371008.8

// Coordinate is a WGS84 longitude/latitude pair.
type Coordinate struct {
	Longitude float64
	Latitude  float64
}

// NewCoordinate rejects values outside the WGS84 ranges.
func NewCoordinate(longitude, latitude float64) (Coordinate, error) {
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return Coordinate{}, fmt.Errorf("%w: longitude out of range", ErrInvalidQueryParameters)
	}
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return Coordinate{}, fmt.Errorf("%w: latitude out of range", ErrInvalidQueryParameters)
	}
	return Coordinate{Longitude: longitude, Latitude: latitude}, nil
}

// DistanceMeters is the great-circle distance between two points.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
