package spatial

import (
	"math"
	"sort"

	"github.com/dazca/municat/internal/geometry"
)

// Sample is one station reading: a position plus named measurements. A
// sample is not tied to any municipality and need not carry every
// measurement name.
type Sample struct {
	Point  geometry.Point
	Values map[string]float64
}

type neighbor struct {
	sample Sample
	km     float64
}

// Interpolate estimates measurement values at each reference point by
// inverse-distance weighting over the k nearest samples with weight
// 1/distance^power.
//
// A sample coinciding exactly with a reference point short-circuits: its
// values are returned as-is and the other neighbors are ignored. Fewer than
// k samples means all samples are used; zero samples means the reference is
// omitted from the result entirely. A measurement carried by only some of
// the selected neighbors is averaged over just those neighbors, with its own
// weight normalization.
func Interpolate(refs map[string]geometry.Point, samples []Sample, k int, power float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(refs))
	if len(samples) == 0 || k <= 0 {
		return out
	}
	for code, ref := range refs {
		if est := estimate(nearestSamples(ref, samples, k), power); len(est) > 0 {
			out[code] = est
		}
	}
	return out
}

func nearestSamples(ref geometry.Point, samples []Sample, k int) []neighbor {
	ns := make([]neighbor, len(samples))
	for i, s := range samples {
		ns[i] = neighbor{sample: s, km: geometry.DistanceKm(ref, s.Point)}
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i].km < ns[j].km })
	if len(ns) > k {
		ns = ns[:k]
	}
	return ns
}

func estimate(neighbors []neighbor, power float64) map[string]float64 {
	if len(neighbors) == 0 {
		return nil
	}

	// A coincident sample is authoritative; weighting would divide by zero.
	if neighbors[0].km == 0 {
		vals := make(map[string]float64, len(neighbors[0].sample.Values))
		for name, v := range neighbors[0].sample.Values {
			vals[name] = v
		}
		return vals
	}

	weightSum := make(map[string]float64)
	weighted := make(map[string]float64)
	for _, n := range neighbors {
		w := 1 / math.Pow(n.km, power)
		for name, v := range n.sample.Values {
			weightSum[name] += w
			weighted[name] += w * v
		}
	}

	out := make(map[string]float64, len(weighted))
	for name, wv := range weighted {
		out[name] = wv / weightSum[name]
	}
	return out
}
