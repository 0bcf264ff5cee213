package fusion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dazca/municat/internal/geometry"
	"github.com/dazca/municat/internal/ine"
	"github.com/dazca/municat/internal/metrics"
	"github.com/dazca/municat/internal/source"
	"github.com/dazca/municat/internal/spatial"
)

// DataSource is the injected capability the engine loads from. A method
// returning (nil, nil) means that one resource is unavailable and its
// category fuses as empty; a non-nil error aborts the whole cycle.
type DataSource interface {
	Boundaries(ctx context.Context) ([]geometry.Boundary, error)
	Votes(ctx context.Context) ([]source.VoteRecord, error)
	Crime(ctx context.Context) ([]source.CrimeRecord, error)
	Rents(ctx context.Context) ([]source.RentRecord, error)
	Employment(ctx context.Context) ([]source.EmploymentRecord, error)
	AirQuality(ctx context.Context) ([]source.AirQualityRecord, error)
	Internet(ctx context.Context) ([]source.InternetRecord, error)
	Terrain(ctx context.Context) ([]source.TerrainRecord, error)
	Forest(ctx context.Context) ([]source.ForestRecord, error)
	FacilityPoints(ctx context.Context, cat source.Category) ([]geometry.Point, error)
	ClimateReadings(ctx context.Context) ([]source.ClimateReading, error)
	ClimateStations(ctx context.Context) (map[string]geometry.Point, error)
}

// Options tunes the interpolation step.
type Options struct {
	K     int     // nearest samples per reference point
	Power float64 // inverse-distance exponent
}

// Engine runs load cycles against a DataSource.
type Engine struct {
	src  DataSource
	opts Options
}

// NewEngine creates an engine. Zero options default to k=3, power=2.
func NewEngine(src DataSource, opts Options) *Engine {
	if opts.K <= 0 {
		opts.K = 3
	}
	if opts.Power <= 0 {
		opts.Power = 2
	}
	return &Engine{src: src, opts: opts}
}

// raw holds everything the fan-out fetched. Each field is written by exactly
// one goroutine, and only read after the group join.
type raw struct {
	boundaries []geometry.Boundary
	votes      []source.VoteRecord
	crime      []source.CrimeRecord
	rents      []source.RentRecord
	employment []source.EmploymentRecord
	airQuality []source.AirQualityRecord
	internet   []source.InternetRecord
	terrain    []source.TerrainRecord
	forest     []source.ForestRecord
	facilities map[source.Category][]geometry.Point
	readings   []source.ClimateReading
	stations   map[string]geometry.Point
}

// Run performs one load cycle: issue all resource fetches concurrently,
// wait for all of them, then fuse synchronously. Cancellation is checked
// once immediately before the result is returned, so a torn-down consumer
// never observes a partially published cycle.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	log := zap.L().With(zap.String("component", "fusion"))
	start := time.Now()

	data, err := e.fanOut(ctx)
	if err != nil {
		metrics.LoadCyclesTotal.WithLabelValues("error").Inc()
		return nil, eris.Wrapf(ErrLoadFailure, "%v", err)
	}

	result := e.fuse(data, log)

	// The single pre-publication cancellation check: completed but
	// unconsumed work is discarded whole.
	if err := ctx.Err(); err != nil {
		metrics.LoadCyclesTotal.WithLabelValues("error").Inc()
		return nil, eris.Wrap(err, "fusion: cancelled before publish")
	}

	metrics.LoadCyclesTotal.WithLabelValues("ok").Inc()
	metrics.FuseDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.MunicipalitiesFused.Set(float64(len(result.Table)))

	log.Info("load cycle complete",
		zap.String("cycle_id", result.CycleID.String()),
		zap.Int("municipalities", len(result.Table)),
		zap.Int("centroids", len(result.Centroids)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (e *Engine) fanOut(ctx context.Context) (*raw, error) {
	data := &raw{
		facilities: make(map[source.Category][]geometry.Point, len(source.Categories())),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := e.src.Boundaries(gctx)
		if err != nil {
			return eris.Wrap(err, "boundaries")
		}
		data.boundaries = b
		return nil
	})
	g.Go(func() error {
		v, err := e.src.Votes(gctx)
		if err != nil {
			return eris.Wrap(err, "votes")
		}
		data.votes = v
		return nil
	})
	g.Go(func() error {
		c, err := e.src.Crime(gctx)
		if err != nil {
			return eris.Wrap(err, "crime")
		}
		data.crime = c
		return nil
	})
	g.Go(func() error {
		r, err := e.src.Rents(gctx)
		if err != nil {
			return eris.Wrap(err, "rents")
		}
		data.rents = r
		return nil
	})
	g.Go(func() error {
		em, err := e.src.Employment(gctx)
		if err != nil {
			return eris.Wrap(err, "employment")
		}
		data.employment = em
		return nil
	})
	g.Go(func() error {
		a, err := e.src.AirQuality(gctx)
		if err != nil {
			return eris.Wrap(err, "air quality")
		}
		data.airQuality = a
		return nil
	})
	g.Go(func() error {
		i, err := e.src.Internet(gctx)
		if err != nil {
			return eris.Wrap(err, "internet")
		}
		data.internet = i
		return nil
	})
	g.Go(func() error {
		tr, err := e.src.Terrain(gctx)
		if err != nil {
			return eris.Wrap(err, "terrain")
		}
		data.terrain = tr
		return nil
	})
	g.Go(func() error {
		f, err := e.src.Forest(gctx)
		if err != nil {
			return eris.Wrap(err, "forest")
		}
		data.forest = f
		return nil
	})

	cats := source.Categories()
	facilityResults := make([][]geometry.Point, len(cats))
	for i, cat := range cats {
		i, cat := i, cat
		g.Go(func() error {
			pts, err := e.src.FacilityPoints(gctx, cat)
			if err != nil {
				return eris.Wrapf(err, "%s facilities", cat)
			}
			facilityResults[i] = pts
			return nil
		})
	}

	g.Go(func() error {
		r, err := e.src.ClimateReadings(gctx)
		if err != nil {
			return eris.Wrap(err, "climate readings")
		}
		data.readings = r
		return nil
	})
	g.Go(func() error {
		s, err := e.src.ClimateStations(gctx)
		if err != nil {
			return eris.Wrap(err, "climate stations")
		}
		data.stations = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, cat := range cats {
		data.facilities[cat] = facilityResults[i]
	}
	return data, nil
}

// fuse runs the synchronous fusion algorithms over the fetched data. It
// allocates every derived map fresh; nothing here touches shared state.
func (e *Engine) fuse(data *raw, log *zap.Logger) *Result {
	centroids := make(map[string]geometry.Point, len(data.boundaries))
	names := make(map[string]string, len(data.boundaries))
	for _, b := range data.boundaries {
		c, err := b.Centroid()
		if err != nil {
			log.Warn("skipping malformed boundary", zap.String("code", b.Code), zap.Error(err))
			continue
		}
		code := ine.NormalizeCode(b.Code)
		centroids[code] = c
		if b.Name != "" {
			names[code] = b.Name
		}
	}

	distances := make(map[source.Category]map[string]float64, len(data.facilities))
	for cat, pts := range data.facilities {
		distances[cat] = spatial.NearestDistanceKm(centroids, pts)
	}

	climate := spatial.Interpolate(centroids, joinStations(data.readings, data.stations), e.opts.K, e.opts.Power)

	votes := ine.IndexByCode(data.votes, func(r source.VoteRecord) string { return r.Code })
	crime := ine.IndexByCode(data.crime, func(r source.CrimeRecord) string { return r.Code })
	rents := ine.IndexByCode(data.rents, func(r source.RentRecord) string { return r.Code })
	employment := ine.IndexByCode(data.employment, func(r source.EmploymentRecord) string { return r.Code })
	airQuality := ine.IndexByCode(data.airQuality, func(r source.AirQualityRecord) string { return r.Code })
	internet := ine.IndexByCode(data.internet, func(r source.InternetRecord) string { return r.Code })
	terrain := ine.IndexByCode(data.terrain, func(r source.TerrainRecord) string { return r.Code })
	forest := ine.IndexByCode(data.forest, func(r source.ForestRecord) string { return r.Code })

	// The table covers the union of municipalities seen anywhere.
	codes := make(map[string]struct{}, len(centroids))
	for code := range centroids {
		codes[code] = struct{}{}
	}
	for code := range votes {
		codes[code] = struct{}{}
	}
	for code := range crime {
		codes[code] = struct{}{}
	}
	for code := range rents {
		codes[code] = struct{}{}
	}
	for code := range employment {
		codes[code] = struct{}{}
	}
	for code := range airQuality {
		codes[code] = struct{}{}
	}
	for code := range internet {
		codes[code] = struct{}{}
	}
	for code := range terrain {
		codes[code] = struct{}{}
	}
	for code := range forest {
		codes[code] = struct{}{}
	}

	table := make(map[string]FeatureRecord, len(codes))
	for code := range codes {
		rec := FeatureRecord{
			Code:       code,
			Name:       names[code],
			FacilityKm: make(map[source.Category]float64, len(distances)),
			Climate:    make(map[string]float64),
		}
		if r, ok := votes[code]; ok {
			rec.Votes = &r
		}
		if r, ok := crime[code]; ok {
			rec.Crime = &r
		}
		if r, ok := rents[code]; ok {
			rec.Rent = &r
		}
		if r, ok := employment[code]; ok {
			rec.Employment = &r
		}
		if r, ok := airQuality[code]; ok {
			rec.AirQuality = &r
		}
		if r, ok := internet[code]; ok {
			rec.Internet = &r
		}
		if r, ok := terrain[code]; ok {
			rec.Terrain = &r
		}
		if r, ok := forest[code]; ok {
			rec.Forest = &r
		}
		for cat, dm := range distances {
			if d, ok := dm[code]; ok {
				rec.FacilityKm[cat] = d
			}
		}
		if vals, ok := climate[code]; ok {
			rec.Climate = vals
		}
		table[code] = rec
	}

	return &Result{
		CycleID:    uuid.New(),
		LoadedAt:   time.Now().UTC(),
		Table:      table,
		Centroids:  centroids,
		Facilities: data.facilities,
	}
}

// joinStations pairs readings with station positions to produce the IDW
// sample set. Readings without a known position, or without any reported
// measurement, contribute nothing.
func joinStations(readings []source.ClimateReading, positions map[string]geometry.Point) []spatial.Sample {
	samples := make([]spatial.Sample, 0, len(readings))
	for _, r := range readings {
		pos, ok := positions[r.StationID]
		if !ok || !pos.Valid() {
			continue
		}
		values := make(map[string]float64, 2)
		if r.AvgTempC != nil {
			values[source.MeasurementAvgTemp] = *r.AvgTempC
		}
		if r.AvgPrecipMM != nil {
			values[source.MeasurementAvgPrecip] = *r.AvgPrecipMM
		}
		if len(values) == 0 {
			continue
		}
		samples = append(samples, spatial.Sample{Point: pos, Values: values})
	}
	return samples
}
