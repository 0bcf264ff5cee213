package source

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/dazca/municat/internal/geometry"
)

// Property names used by the boundary and station feature collections.
const (
	propCode      = "municipality_code"
	propName      = "municipality_name"
	propStationID = "station_id"
)

// decodeFeatures splits a feature collection and decodes each feature on
// its own, so one feature with wrong-typed coordinates is dropped instead
// of aborting the whole collection. Only an unparseable envelope is an
// error.
func decodeFeatures(data []byte, what string) ([]*geojson.Feature, int, error) {
	var envelope struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, 0, eris.Wrapf(err, "geojson: decode %s collection", what)
	}

	features := make([]*geojson.Feature, 0, len(envelope.Features))
	var skipped int
	for _, raw := range envelope.Features {
		var f geojson.Feature
		if err := json.Unmarshal(raw, &f); err != nil {
			skipped++
			continue
		}
		features = append(features, &f)
	}
	return features, skipped, nil
}

// ParseBoundaries decodes a GeoJSON feature collection of municipal
// boundaries. Features lacking an areal geometry, a code property, or
// decodable coordinates are skipped and logged, never fatal to the
// collection.
func ParseBoundaries(data []byte) ([]geometry.Boundary, error) {
	features, skipped, err := decodeFeatures(data, "boundary")
	if err != nil {
		return nil, err
	}

	boundaries := make([]geometry.Boundary, 0, len(features))
	for _, f := range features {
		code := stringProp(f.Properties, propCode)
		if code == "" || f.Geometry == nil {
			skipped++
			continue
		}
		b, err := geometry.FromGeom(code, stringProp(f.Properties, propName), f.Geometry)
		if err != nil {
			skipped++
			continue
		}
		boundaries = append(boundaries, b)
	}
	if skipped > 0 {
		zap.L().Warn("skipped malformed boundary features", zap.Int("skipped", skipped))
	}
	return boundaries, nil
}

// ParsePoints decodes a GeoJSON feature collection of point features,
// dropping anything without finite in-range coordinates.
func ParsePoints(data []byte) ([]geometry.Point, error) {
	features, skipped, err := decodeFeatures(data, "point")
	if err != nil {
		return nil, err
	}

	points := make([]geometry.Point, 0, len(features))
	for _, f := range features {
		p, ok := pointCoords(f)
		if !ok {
			skipped++
			continue
		}
		points = append(points, p)
	}
	if skipped > 0 {
		zap.L().Warn("skipped malformed point features", zap.Int("skipped", skipped))
	}
	return points, nil
}

// ParseStations decodes station point features keyed by their station id
// property.
func ParseStations(data []byte) (map[string]geometry.Point, error) {
	features, skipped, err := decodeFeatures(data, "station")
	if err != nil {
		return nil, err
	}

	stations := make(map[string]geometry.Point, len(features))
	for _, f := range features {
		id := stringProp(f.Properties, propStationID)
		p, ok := pointCoords(f)
		if id == "" || !ok {
			skipped++
			continue
		}
		stations[id] = p
	}
	if skipped > 0 {
		zap.L().Warn("skipped malformed station features", zap.Int("skipped", skipped))
	}
	return stations, nil
}

func pointCoords(f *geojson.Feature) (geometry.Point, bool) {
	if f == nil || f.Geometry == nil {
		return geometry.Point{}, false
	}
	coords := f.Geometry.FlatCoords()
	if len(coords) < 2 {
		return geometry.Point{}, false
	}
	p := geometry.Point{Lat: coords[1], Lon: coords[0]}
	return p, p.Valid()
}

// stringProp reads a feature property as a string. The portals are not
// consistent about whether codes are JSON strings or numbers.
func stringProp(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return ""
	}
}
