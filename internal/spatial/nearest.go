// Package spatial implements the two numeric kernels of the fusion engine:
// nearest-facility distance and inverse-distance-weighted interpolation.
// Both are plain linear scans; at hundreds of municipalities against a few
// thousand points there is nothing to gain from an index.
package spatial

import "github.com/dazca/municat/internal/geometry"

// NearestDistanceKm returns, for each reference point, the great-circle
// distance in kilometers to the closest facility. An empty facility set
// yields an empty map: a missing key means "no known facility", never an
// extreme distance value.
func NearestDistanceKm(refs map[string]geometry.Point, facilities []geometry.Point) map[string]float64 {
	out := make(map[string]float64, len(refs))
	if len(facilities) == 0 {
		return out
	}
	for code, ref := range refs {
		best := geometry.DistanceKm(ref, facilities[0])
		for _, f := range facilities[1:] {
			if d := geometry.DistanceKm(ref, f); d < best {
				best = d
			}
		}
		out[code] = best
	}
	return out
}
