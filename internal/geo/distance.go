package geo

import "github.com/golang/geo/s2"

// EarthRadiusMiles is the mean Earth radius used for all distance math.
const EarthRadiusMiles = 3959.0

// Sphere measures great-circle distances on a sphere of the given radius.
type Sphere struct {
	RadiusMiles float64
}

// Earth returns the default sphere.
func Earth() Sphere {
	return Sphere{RadiusMiles: EarthRadiusMiles}
}

// Distance returns the great-circle distance between a and b in miles.
func (s Sphere) Distance(a, b LonLat) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * s.RadiusMiles
}
