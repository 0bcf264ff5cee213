// Package geometry holds the unprojected lat/lon primitives shared by the
// fusion engine: municipality boundaries, centroids, and great-circle
// distance. All coordinates are decimal degrees; no other projection is
// supported.
package geometry

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/umahmood/haversine"
)

// ErrMalformedGeometry marks a boundary or point feature without usable
// coordinates. Offending features are skipped, never fatal to a collection.
var ErrMalformedGeometry = eris.New("geometry: malformed geometry")

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both coordinates are finite and within range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Boundary is one municipality's shape: one or more closed rings, possibly
// disjoint (a multi-polygon). Code is the raw source code, not yet
// normalized.
type Boundary struct {
	Code  string
	Name  string
	Rings [][]Point
}

// Centroid returns a single representative point for the boundary: the
// arithmetic mean of all ring vertices' longitudes and latitudes. This is a
// vertex-average centroid, not an area-weighted one; swapping in an
// area-correct formula changes every downstream distance and interpolation
// value.
func (b Boundary) Centroid() (Point, error) {
	var sumLat, sumLon float64
	var n int
	for _, ring := range b.Rings {
		for _, p := range ring {
			sumLat += p.Lat
			sumLon += p.Lon
			n++
		}
	}
	if n == 0 {
		return Point{}, eris.Wrapf(ErrMalformedGeometry, "boundary %q has no vertices", b.Code)
	}
	return Point{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}, nil
}

// FromGeom converts a decoded GeoJSON geometry into a Boundary. GeoJSON
// coordinates are (lon, lat) ordered. Non-areal geometries and out-of-range
// vertices are malformed.
func FromGeom(code, name string, g geom.T) (Boundary, error) {
	b := Boundary{Code: code, Name: name}
	switch t := g.(type) {
	case *geom.Polygon:
		b.Rings = appendRings(b.Rings, t)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			b.Rings = appendRings(b.Rings, t.Polygon(i))
		}
	default:
		return Boundary{}, eris.Wrapf(ErrMalformedGeometry, "boundary %q: unsupported geometry %T", code, g)
	}
	for _, ring := range b.Rings {
		for _, p := range ring {
			if !p.Valid() {
				return Boundary{}, eris.Wrapf(ErrMalformedGeometry, "boundary %q: vertex (%v, %v) out of range", code, p.Lat, p.Lon)
			}
		}
	}
	return b, nil
}

func appendRings(rings [][]Point, p *geom.Polygon) [][]Point {
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).Coords()
		ring := make([]Point, 0, len(coords))
		for _, c := range coords {
			ring = append(ring, Point{Lat: c.Y(), Lon: c.X()})
		}
		rings = append(rings, ring)
	}
	return rings
}

// DistanceKm returns the great-circle distance between two points in
// kilometers, using the haversine formula on a mean Earth radius of 6371 km.
func DistanceKm(a, b Point) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lon},
		haversine.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	return km
}
