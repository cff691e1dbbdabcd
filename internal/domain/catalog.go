package domain

import "errors"

// ErrRegionNotFound is returned by strict region lookups. Lenient paths
// (profiles, districts) never return it.
var ErrRegionNotFound = errors.New("region not found")

// Region is a top-level administrative area served by the catalog.
type Region struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Population int     `json:"population"`
	AreaKm2    float64 `json:"area_km2"`
}

// District is the unit of prediction: a named location inside a region.
// Coordinates hold [lat, lng] in WGS-84 degrees.
type District struct {
	Name        string
	Coordinates [2]float64
}

// RegionProfile captures how strongly a region responds to scenario drivers.
type RegionProfile struct {
	RegionID               string
	BaseDemandFactor       float64
	RainfallSensitivity    float64
	TemperatureSensitivity float64
	Description            string
}

var regions = []Region{
	{ID: "district_1", Name: "Northern Plains", Population: 250000, AreaKm2: 1200.5},
	{ID: "district_2", Name: "Coastal Valley", Population: 180000, AreaKm2: 890.3},
	{ID: "district_3", Name: "Mountain Ridge", Population: 120000, AreaKm2: 1500.8},
	{ID: "district_4", Name: "Central Plateau", Population: 300000, AreaKm2: 980.2},
	{ID: "district_5", Name: "Eastern Hills", Population: 95000, AreaKm2: 1100.7},
}

var profiles = map[string]RegionProfile{
	"district_1": {
		RegionID:               "district_1",
		BaseDemandFactor:       1.2,
		RainfallSensitivity:    0.8,
		TemperatureSensitivity: 1.1,
		Description:            "Agricultural region with high irrigation needs",
	},
	"district_2": {
		RegionID:               "district_2",
		BaseDemandFactor:       0.9,
		RainfallSensitivity:    0.6,
		TemperatureSensitivity: 0.8,
		Description:            "Coastal region with moderate water stress",
	},
	"district_3": {
		RegionID:               "district_3",
		BaseDemandFactor:       0.7,
		RainfallSensitivity:    1.2,
		TemperatureSensitivity: 0.6,
		Description:            "Mountainous region with good water sources",
	},
	"district_4": {
		RegionID:               "district_4",
		BaseDemandFactor:       1.4,
		RainfallSensitivity:    0.5,
		TemperatureSensitivity: 1.3,
		Description:            "Urban region with high population density",
	},
	"district_5": {
		RegionID:               "district_5",
		BaseDemandFactor:       0.8,
		RainfallSensitivity:    1.0,
		TemperatureSensitivity: 0.9,
		Description:            "Rural hilly region with seasonal variations",
	},
}

// neutralProfile serves unknown region ids: average demand, slightly muted
// rainfall response, so generic scenarios stay plausible.
var neutralProfile = RegionProfile{
	BaseDemandFactor:       1.0,
	RainfallSensitivity:    0.8,
	TemperatureSensitivity: 1.0,
	Description:            "General region with typical water usage patterns",
}

var districts = map[string][]District{
	"district_1": {
		{Name: "North Plains A", Coordinates: [2]float64{28.5, 77.5}},
		{Name: "North Plains B", Coordinates: [2]float64{28.3, 77.7}},
	},
	"district_2": {
		{Name: "Coastal Valley A", Coordinates: [2]float64{27.5, 76.5}},
		{Name: "Coastal Valley B", Coordinates: [2]float64{27.3, 76.7}},
	},
	"district_3": {
		{Name: "Mountain Ridge A", Coordinates: [2]float64{29.5, 78.5}},
		{Name: "Mountain Ridge B", Coordinates: [2]float64{29.3, 78.7}},
	},
	"district_4": {
		{Name: "Central Plateau A", Coordinates: [2]float64{27.5, 77.5}},
		{Name: "Central Plateau B", Coordinates: [2]float64{27.3, 77.7}},
	},
	"district_5": {
		{Name: "Eastern Hills A", Coordinates: [2]float64{28.5, 79.5}},
		{Name: "Eastern Hills B", Coordinates: [2]float64{28.3, 79.7}},
	},
}

var defaultDistricts = []District{
	{Name: "Default District", Coordinates: [2]float64{28.0, 77.0}},
}

// Regions returns the catalog's region list in stable id order.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// RegionByID looks up a region by id.
func RegionByID(id string) (Region, bool) {
	for _, r := range regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// Profile returns the sensitivity profile for a region id. Unknown ids get
// the neutral profile with the requested id filled in.
func Profile(regionID string) RegionProfile {
	if p, ok := profiles[regionID]; ok {
		return p
	}
	p := neutralProfile
	p.RegionID = regionID
	return p
}

// Districts returns the ordered district list for a region id. Unknown ids
// yield a single default district so estimation never fails on catalog gaps.
func Districts(regionID string) []District {
	ds, ok := districts[regionID]
	if !ok {
		ds = defaultDistricts
	}
	out := make([]District, len(ds))
	copy(out, ds)
	return out
}
