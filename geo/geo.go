// Package geo provides the two geographic primitives the client needs:
// geohash encoding for proximity grouping and great-circle distance for the
// nearest-first feed sort.
package geo

import (
	"github.com/golang/geo/s2"
	"github.com/mmcloughlin/geohash"
)

// earthRadiusKm matches the radius used across the backend's geo code.
const earthRadiusKm = 6371.0

// hashPrecision is the number of geohash characters stored per report.
// 10 characters resolve to about a meter, and identical coordinates always
// produce the identical string.
const hashPrecision = 10

// Hash encodes a coordinate pair as a geohash string. Deterministic: the
// same pair always yields the same string, and nearby pairs share prefixes.
func Hash(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, hashPrecision)
}

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * earthRadiusKm
}
