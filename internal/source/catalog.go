package source

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Resource names for the fifteen upstream fetches a load cycle issues.
const (
	ResourceBoundaries      = "boundaries"
	ResourceVotes           = "votes"
	ResourceCrime           = "crime"
	ResourceRents           = "rents"
	ResourceEmployment      = "employment"
	ResourceAirQuality      = "air_quality"
	ResourceInternet        = "internet"
	ResourceTerrain         = "terrain"
	ResourceForest          = "forest"
	ResourceTransit         = "transit"
	ResourceHealth          = "health"
	ResourceSchools         = "schools"
	ResourceAmenities       = "amenities"
	ResourceClimateReadings = "climate_readings"
	ResourceClimateStations = "climate_stations"
)

// Kind classifies how a resource's payload is parsed.
type Kind string

const (
	KindBoundaries Kind = "boundaries" // GeoJSON multi-polygon features
	KindRecords    Kind = "records"    // flat JSON record array
	KindPoints     Kind = "points"     // GeoJSON point features
	KindReadings   Kind = "readings"   // flat station reading array
	KindStations   Kind = "stations"   // GeoJSON points keyed by station id
)

// Resource is one upstream dataset: a name, the URL it is fetched from, and
// how its payload is parsed.
type Resource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Kind Kind   `yaml:"kind"`
}

// Catalog is the full set of upstream resources for one deployment.
type Catalog struct {
	Resources []Resource `yaml:"resources"`
}

// Get returns the resource with the given name.
func (c *Catalog) Get(name string) (Resource, bool) {
	for _, r := range c.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", path)
	}
	if len(c.Resources) == 0 {
		return nil, eris.Errorf("catalog: %s declares no resources", path)
	}
	return &c, nil
}

// DefaultCatalog returns the built-in catalog of Catalan open-data
// resources. A config file can swap any URL (fixtures do exactly that).
func DefaultCatalog() *Catalog {
	const portal = "https://analisi.transparenciacatalunya.cat/resource"
	return &Catalog{Resources: []Resource{
		{Name: ResourceBoundaries, Kind: KindBoundaries, URL: "https://sig.gencat.cat/ide/municipis.geojson"},
		{Name: ResourceVotes, Kind: KindRecords, URL: portal + "/votes-municipals.json"},
		{Name: ResourceCrime, Kind: KindRecords, URL: portal + "/fets-penals.json"},
		{Name: ResourceRents, Kind: KindRecords, URL: portal + "/lloguers-mitjans.json"},
		{Name: ResourceEmployment, Kind: KindRecords, URL: portal + "/atur-registrat.json"},
		{Name: ResourceAirQuality, Kind: KindRecords, URL: portal + "/qualitat-aire.json"},
		{Name: ResourceInternet, Kind: KindRecords, URL: portal + "/cobertura-banda-ampla.json"},
		{Name: ResourceTerrain, Kind: KindRecords, URL: portal + "/altimetria-municipal.json"},
		{Name: ResourceForest, Kind: KindRecords, URL: portal + "/superficie-forestal.json"},
		{Name: ResourceTransit, Kind: KindPoints, URL: portal + "/parades-transport.geojson"},
		{Name: ResourceHealth, Kind: KindPoints, URL: portal + "/centres-salut.geojson"},
		{Name: ResourceSchools, Kind: KindPoints, URL: portal + "/centres-educatius.geojson"},
		{Name: ResourceAmenities, Kind: KindPoints, URL: portal + "/equipaments.geojson"},
		{Name: ResourceClimateReadings, Kind: KindReadings, URL: portal + "/estacions-lectures.json"},
		{Name: ResourceClimateStations, Kind: KindStations, URL: portal + "/estacions-posicions.geojson"},
	}}
}

// facilityResource maps a facility category to its catalog resource name.
func facilityResource(cat Category) string {
	switch cat {
	case CategoryTransit:
		return ResourceTransit
	case CategoryHealth:
		return ResourceHealth
	case CategorySchools:
		return ResourceSchools
	case CategoryAmenities:
		return ResourceAmenities
	default:
		return string(cat)
	}
}
