package geo

import "math"

// LonLat is a geographic position in degrees.
type LonLat struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// Pixel is a planar position on the map canvas, origin at the top-left corner.
type Pixel struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Projection is a spherical Mercator projection fixed to one map image.
// The center maps to the middle of a width x height canvas.
type Projection struct {
	center  LonLat
	scale   float64
	width   int
	height  int
	tx, ty  float64
	centerY float64 // mercator y of center latitude, radians
}

// NewMercator creates a projection centered at center with the given scale
// (pixels per radian) for a canvas of width x height pixels.
func NewMercator(center LonLat, scale float64, width, height int) *Projection {
	return &Projection{
		center:  center,
		scale:   scale,
		width:   width,
		height:  height,
		tx:      float64(width) / 2,
		ty:      float64(height) / 2,
		centerY: mercatorY(center.Lat * degToRad),
	}
}

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Project converts a geographic position to canvas pixels.
func (p *Projection) Project(ll LonLat) Pixel {
	lambda := (ll.Lon - p.center.Lon) * degToRad
	y := mercatorY(ll.Lat*degToRad) - p.centerY

	return Pixel{
		X: p.tx + p.scale*lambda,
		Y: p.ty - p.scale*y,
	}
}

// Invert converts canvas pixels back to a geographic position.
// It is the exact inverse of Project away from the poles.
func (p *Projection) Invert(px Pixel) LonLat {
	lambda := (px.X - p.tx) / p.scale
	y := p.centerY - (px.Y-p.ty)/p.scale

	// Inverse Mercator projection
	latRad := 2.0*math.Atan(math.Exp(y)) - math.Pi*0.5

	return LonLat{
		Lon: p.center.Lon + lambda*radToDeg,
		Lat: latRad * radToDeg,
	}
}

// Center returns the reference point of the projection.
func (p *Projection) Center() LonLat { return p.center }

// Size returns the canvas size in pixels.
func (p *Projection) Size() (width, height int) { return p.width, p.height }

// PixelsPerMile derives the canvas scale from the great-circle distance
// between the top-right and bottom-left canvas corners.
func (p *Projection) PixelsPerMile(s Sphere) float64 {
	w, h := float64(p.width), float64(p.height)

	miles := s.Distance(p.Invert(Pixel{X: w, Y: 0}), p.Invert(Pixel{X: 0, Y: h}))
	if miles == 0 {
		return 0
	}

	return math.Hypot(w, h) / miles
}

func mercatorY(latRad float64) float64 {
	return math.Log(math.Tan(math.Pi/4 + latRad/2))
}
