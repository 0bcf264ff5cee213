// Package fusion drives one load cycle: a concurrent fan-out over every
// upstream resource, then the purely synchronous geospatial fusion that
// joins everything into one per-municipality feature table.
package fusion

import (
	"time"

	"github.com/google/uuid"

	"github.com/dazca/municat/internal/geometry"
	"github.com/dazca/municat/internal/source"
)

// FeatureRecord is the fused view of one municipality. Sub-record pointers
// are nil when that source had no row for the municipality; the FacilityKm
// and Climate maps are always allocated, with per-key absence meaning
// "unknown" rather than an observed extreme.
type FeatureRecord struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`

	Votes      *source.VoteRecord       `json:"votes,omitempty"`
	Crime      *source.CrimeRecord      `json:"crime,omitempty"`
	Rent       *source.RentRecord       `json:"rent,omitempty"`
	Employment *source.EmploymentRecord `json:"employment,omitempty"`
	AirQuality *source.AirQualityRecord `json:"air_quality,omitempty"`
	Internet   *source.InternetRecord   `json:"internet,omitempty"`
	Terrain    *source.TerrainRecord    `json:"terrain,omitempty"`
	Forest     *source.ForestRecord     `json:"forest,omitempty"`

	FacilityKm map[source.Category]float64 `json:"facility_km"`
	Climate    map[string]float64          `json:"climate"`
}

// Result is one completed load cycle. All maps are keyed by the canonical
// 5-character municipality code, built fresh each cycle and never mutated
// after publication.
type Result struct {
	CycleID  uuid.UUID `json:"cycle_id"`
	LoadedAt time.Time `json:"loaded_at"`

	Table      map[string]FeatureRecord             `json:"table"`
	Centroids  map[string]geometry.Point            `json:"centroids"`
	Facilities map[source.Category][]geometry.Point `json:"facilities"`
}
