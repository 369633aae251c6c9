package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinate (latitude, longitude) in WGS 84.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate validates latitude/longitude ranges and rejects non-finite values.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Coordinate{}, fmt.Errorf("new coordinate: lat/lng must be finite (lat=%v lng=%v)", lat, lng)
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("new coordinate: latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("new coordinate: longitude %v out of range [-180, 180]", lng)
	}
	return Coordinate{Lat: lat, Lng: lng}, nil
}
