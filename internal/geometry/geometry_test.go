package geometry

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestCentroid(t *testing.T) {
	t.Run("single vertex equals that point", func(t *testing.T) {
		b := Boundary{Code: "17001", Rings: [][]Point{{{Lat: 41.98, Lon: 2.82}}}}
		c, err := b.Centroid()
		require.NoError(t, err)
		assert.Equal(t, Point{Lat: 41.98, Lon: 2.82}, c)
	})

	t.Run("vertex average over all rings", func(t *testing.T) {
		b := Boundary{Code: "17001", Rings: [][]Point{
			{{Lat: 41, Lon: 2}, {Lat: 43, Lon: 2}},
			{{Lat: 41, Lon: 4}, {Lat: 43, Lon: 4}},
		}}
		c, err := b.Centroid()
		require.NoError(t, err)
		assert.InDelta(t, 42, c.Lat, 1e-9)
		assert.InDelta(t, 3, c.Lon, 1e-9)
	})

	t.Run("invariant under vertex reordering", func(t *testing.T) {
		ring := []Point{{Lat: 41, Lon: 2}, {Lat: 42, Lon: 3}, {Lat: 41.5, Lon: 2.5}, {Lat: 41.2, Lon: 2.9}}
		shuffled := []Point{ring[2], ring[0], ring[3], ring[1]}

		c1, err := Boundary{Rings: [][]Point{ring}}.Centroid()
		require.NoError(t, err)
		c2, err := Boundary{Rings: [][]Point{shuffled}}.Centroid()
		require.NoError(t, err)

		assert.InDelta(t, c1.Lat, c2.Lat, 1e-12)
		assert.InDelta(t, c1.Lon, c2.Lon, 1e-12)
	})

	t.Run("zero vertices is malformed", func(t *testing.T) {
		_, err := Boundary{Code: "17001"}.Centroid()
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrMalformedGeometry))
	})
}

func TestDistanceKm(t *testing.T) {
	bcn := Point{Lat: 41.3874, Lon: 2.1686}
	gir := Point{Lat: 41.9794, Lon: 2.8214}

	t.Run("identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceKm(bcn, bcn))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, DistanceKm(bcn, gir), DistanceKm(gir, bcn), 1e-9)
	})

	t.Run("plausible magnitude", func(t *testing.T) {
		// Barcelona to Girona is roughly 85 km great-circle.
		d := DistanceKm(bcn, gir)
		assert.Greater(t, d, 75.0)
		assert.Less(t, d, 95.0)
	})
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: 41.5, Lon: 1.5}.Valid())
	assert.True(t, Point{Lat: -90, Lon: 180}.Valid())
	assert.False(t, Point{Lat: 91, Lon: 0}.Valid())
	assert.False(t, Point{Lat: 0, Lon: -181}.Valid())
}

func TestFromGeom(t *testing.T) {
	t.Run("polygon", func(t *testing.T) {
		poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
			{{2, 41}, {3, 41}, {3, 42}, {2, 42}, {2, 41}},
		})
		b, err := FromGeom("170010", "Girona", poly)
		require.NoError(t, err)
		assert.Equal(t, "170010", b.Code)
		require.Len(t, b.Rings, 1)
		// GeoJSON order is (lon, lat).
		assert.Equal(t, Point{Lat: 41, Lon: 2}, b.Rings[0][0])
	})

	t.Run("multipolygon flattens to one boundary", func(t *testing.T) {
		mp := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
			{{{2, 41}, {3, 41}, {2.5, 42}, {2, 41}}},
			{{{4, 41}, {5, 41}, {4.5, 42}, {4, 41}}},
		})
		b, err := FromGeom("08019", "", mp)
		require.NoError(t, err)
		assert.Len(t, b.Rings, 2)
	})

	t.Run("non-areal geometry is malformed", func(t *testing.T) {
		pt := geom.NewPointFlat(geom.XY, []float64{2, 41})
		_, err := FromGeom("17001", "", pt)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrMalformedGeometry))
	})

	t.Run("out-of-range vertex is malformed", func(t *testing.T) {
		// lat 95 would silently drag the centroid north if accepted.
		poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
			{{2, 41}, {3, 41}, {3, 95}, {2, 41}},
		})
		_, err := FromGeom("17001", "", poly)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrMalformedGeometry))
	})
}
