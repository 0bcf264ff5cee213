// Package source declares the upstream open-data resources the engine
// consumes: their catalog, their record shapes, and an HTTP loader that
// absorbs per-resource failures into "unavailable" semantics.
package source

// Category names a facility point set. Membership is flat and
// order-independent; only the per-municipality nearest distance is derived
// from it.
type Category string

const (
	CategoryTransit   Category = "transit"
	CategoryHealth    Category = "health"
	CategorySchools   Category = "schools"
	CategoryAmenities Category = "amenities"
)

// Categories returns all facility categories in a stable order.
func Categories() []Category {
	return []Category{CategoryTransit, CategoryHealth, CategorySchools, CategoryAmenities}
}

// Measurement names produced by the climate join.
const (
	MeasurementAvgTemp   = "avg_temp_c"
	MeasurementAvgPrecip = "avg_precip_mm"
)

// The per-category records below mirror the flat JSON rows the portals
// publish. Every numeric field is optional: a nil pointer is "not reported",
// which is distinct from an observed zero.

// VoteRecord holds a municipality's election results summary.
type VoteRecord struct {
	Code       string   `json:"municipality_code"`
	TurnoutPct *float64 `json:"turnout_pct,omitempty"`
	Winner     *string  `json:"winning_party,omitempty"`
}

// CrimeRecord holds a municipality's criminal-offense rate.
type CrimeRecord struct {
	Code          string   `json:"municipality_code"`
	OffensesPer1k *float64 `json:"offenses_per_1k,omitempty"`
}

// RentRecord holds a municipality's average monthly rental price.
type RentRecord struct {
	Code       string   `json:"municipality_code"`
	MonthlyEUR *float64 `json:"avg_monthly_eur,omitempty"`
}

// EmploymentRecord holds a municipality's registered unemployment rate.
type EmploymentRecord struct {
	Code            string   `json:"municipality_code"`
	UnemploymentPct *float64 `json:"unemployment_pct,omitempty"`
}

// AirQualityRecord holds a municipality's annual mean pollutant levels.
type AirQualityRecord struct {
	Code string   `json:"municipality_code"`
	NO2  *float64 `json:"no2_ugm3,omitempty"`
	PM10 *float64 `json:"pm10_ugm3,omitempty"`
}

// InternetRecord holds a municipality's broadband coverage.
type InternetRecord struct {
	Code             string   `json:"municipality_code"`
	FiberCoveragePct *float64 `json:"fiber_coverage_pct,omitempty"`
}

// TerrainRecord holds a municipality's terrain summary.
type TerrainRecord struct {
	Code       string   `json:"municipality_code"`
	ElevationM *float64 `json:"elevation_m,omitempty"`
	SlopePct   *float64 `json:"slope_pct,omitempty"`
}

// ForestRecord holds a municipality's forest cover share.
type ForestRecord struct {
	Code           string   `json:"municipality_code"`
	ForestCoverPct *float64 `json:"forest_cover_pct,omitempty"`
}

// ClimateReading is one station's averaged sensor reading. Stations are not
// tied to municipalities; positions arrive separately keyed by station id.
type ClimateReading struct {
	StationID   string   `json:"station_id"`
	AvgTempC    *float64 `json:"avg_temp_c,omitempty"`
	AvgPrecipMM *float64 `json:"avg_precip_mm,omitempty"`
}
