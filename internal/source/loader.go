package source

import (
	"bytes"
	"context"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dazca/municat/internal/fetcher"
	"github.com/dazca/municat/internal/geometry"
	"github.com/dazca/municat/internal/metrics"
)

// ErrUnavailable marks a resource that failed to fetch or parse. The loader
// absorbs it: callers see a nil result, never an error, and the category is
// fused as empty downstream.
var ErrUnavailable = eris.New("source: resource unavailable")

// HTTPSource fetches every catalog resource over HTTP. Per-resource failures
// of any kind (transport, non-success status, undecodable payload) degrade
// to "unavailable" rather than propagating; only a missing catalog entry is
// an error, since that is a deployment bug rather than an upstream outage.
type HTTPSource struct {
	catalog *Catalog
	fetcher fetcher.Fetcher
	onFetch func(name string)
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithProgress registers a callback invoked after each resource fetch
// completes, successful or not.
func WithProgress(fn func(name string)) Option {
	return func(s *HTTPSource) { s.onFetch = fn }
}

// NewHTTPSource creates a loader over the given catalog and fetcher.
func NewHTTPSource(catalog *Catalog, f fetcher.Fetcher, opts ...Option) *HTTPSource {
	s := &HTTPSource{catalog: catalog, fetcher: f}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// download returns the raw payload of a named resource, or nil when the
// resource is unavailable.
func (s *HTTPSource) download(ctx context.Context, name string) ([]byte, error) {
	res, ok := s.catalog.Get(name)
	if !ok {
		return nil, eris.Errorf("source: %q not in catalog", name)
	}
	if s.onFetch != nil {
		defer s.onFetch(name)
	}

	body, err := s.fetcher.Download(ctx, res.URL)
	if err != nil {
		zap.L().Warn("resource unavailable",
			zap.String("source", name),
			zap.String("url", res.URL),
			zap.Error(err),
		)
		metrics.FetchTotal.WithLabelValues(name, "unavailable").Inc()
		return nil, nil
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		zap.L().Warn("resource read failed", zap.String("source", name), zap.Error(err))
		metrics.FetchTotal.WithLabelValues(name, "unavailable").Inc()
		return nil, nil
	}
	metrics.FetchTotal.WithLabelValues(name, "ok").Inc()
	return data, nil
}

// fetchRecords downloads and decodes a flat JSON record array. Undecodable
// payloads are absorbed like fetch failures.
func fetchRecords[T any](ctx context.Context, s *HTTPSource, name string) ([]T, error) {
	data, err := s.download(ctx, name)
	if err != nil || data == nil {
		return nil, err
	}
	out, err := fetcher.DecodeJSON[[]T](bytes.NewReader(data))
	if err != nil {
		zap.L().Warn("resource payload undecodable", zap.String("source", name), zap.Error(err))
		metrics.FetchTotal.WithLabelValues(name, "malformed").Inc()
		return nil, nil
	}
	return out, nil
}

// Boundaries fetches and parses the municipal boundary collection.
func (s *HTTPSource) Boundaries(ctx context.Context) ([]geometry.Boundary, error) {
	data, err := s.download(ctx, ResourceBoundaries)
	if err != nil || data == nil {
		return nil, err
	}
	boundaries, err := ParseBoundaries(data)
	if err != nil {
		zap.L().Warn("boundary payload undecodable", zap.Error(err))
		metrics.FetchTotal.WithLabelValues(ResourceBoundaries, "malformed").Inc()
		return nil, nil
	}
	return boundaries, nil
}

// Votes fetches the per-municipality election summary records.
func (s *HTTPSource) Votes(ctx context.Context) ([]VoteRecord, error) {
	return fetchRecords[VoteRecord](ctx, s, ResourceVotes)
}

// Crime fetches the per-municipality offense rate records.
func (s *HTTPSource) Crime(ctx context.Context) ([]CrimeRecord, error) {
	return fetchRecords[CrimeRecord](ctx, s, ResourceCrime)
}

// Rents fetches the per-municipality rental price records.
func (s *HTTPSource) Rents(ctx context.Context) ([]RentRecord, error) {
	return fetchRecords[RentRecord](ctx, s, ResourceRents)
}

// Employment fetches the per-municipality unemployment records.
func (s *HTTPSource) Employment(ctx context.Context) ([]EmploymentRecord, error) {
	return fetchRecords[EmploymentRecord](ctx, s, ResourceEmployment)
}

// AirQuality fetches the per-municipality pollutant records.
func (s *HTTPSource) AirQuality(ctx context.Context) ([]AirQualityRecord, error) {
	return fetchRecords[AirQualityRecord](ctx, s, ResourceAirQuality)
}

// Internet fetches the per-municipality broadband coverage records.
func (s *HTTPSource) Internet(ctx context.Context) ([]InternetRecord, error) {
	return fetchRecords[InternetRecord](ctx, s, ResourceInternet)
}

// Terrain fetches the per-municipality terrain records.
func (s *HTTPSource) Terrain(ctx context.Context) ([]TerrainRecord, error) {
	return fetchRecords[TerrainRecord](ctx, s, ResourceTerrain)
}

// Forest fetches the per-municipality forest cover records.
func (s *HTTPSource) Forest(ctx context.Context) ([]ForestRecord, error) {
	return fetchRecords[ForestRecord](ctx, s, ResourceForest)
}

// FacilityPoints fetches the point set for one facility category.
func (s *HTTPSource) FacilityPoints(ctx context.Context, cat Category) ([]geometry.Point, error) {
	name := facilityResource(cat)
	data, err := s.download(ctx, name)
	if err != nil || data == nil {
		return nil, err
	}
	points, err := ParsePoints(data)
	if err != nil {
		zap.L().Warn("facility payload undecodable", zap.String("source", name), zap.Error(err))
		metrics.FetchTotal.WithLabelValues(name, "malformed").Inc()
		return nil, nil
	}
	return points, nil
}

// ClimateReadings fetches the station reading records.
func (s *HTTPSource) ClimateReadings(ctx context.Context) ([]ClimateReading, error) {
	return fetchRecords[ClimateReading](ctx, s, ResourceClimateReadings)
}

// ClimateStations fetches the station positions keyed by station id.
func (s *HTTPSource) ClimateStations(ctx context.Context) (map[string]geometry.Point, error) {
	data, err := s.download(ctx, ResourceClimateStations)
	if err != nil || data == nil {
		return nil, err
	}
	stations, err := ParseStations(data)
	if err != nil {
		zap.L().Warn("station payload undecodable", zap.Error(err))
		metrics.FetchTotal.WithLabelValues(ResourceClimateStations, "malformed").Inc()
		return nil, nil
	}
	return stations, nil
}

// Probe reports whether a named resource currently answers.
func (s *HTTPSource) Probe(ctx context.Context, name string) error {
	res, ok := s.catalog.Get(name)
	if !ok {
		return eris.Errorf("source: %q not in catalog", name)
	}
	if err := s.fetcher.Probe(ctx, res.URL); err != nil {
		return eris.Wrapf(ErrUnavailable, "%s: %v", name, err)
	}
	return nil
}
