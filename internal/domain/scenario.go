package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Stress labels assigned to district predictions. The middle band covers what
// reports variously call stable or moderate stress; every scoring path in
// this service uses the same three labels.
const (
	StressDeficit = "Deficit"
	StressStable  = "Stable"
	StressSurplus = "Surplus"
)

// Bounds accepted by [ScenarioParams.Validate].
const (
	MinTargetYear = 2024
	MaxTargetYear = 2030

	MinRainfallChange = -50.0
	MaxRainfallChange = 50.0

	MinPopulationChange = 0.0
	MaxPopulationChange = 100.0

	MinTemperatureChange = -5.0
	MaxTemperatureChange = 10.0
)

// ErrInvalidParams wraps every scenario validation failure so callers can map
// the whole class to one response path with errors.Is.
var ErrInvalidParams = errors.New("invalid scenario parameters")

// ScenarioParams describes one hypothetical future to estimate. RegionIDs is
// order-sensitive: predictions and cache keys follow the order given, and two
// requests naming the same regions in different orders are distinct scenarios.
type ScenarioParams struct {
	TargetYear              int      `json:"year"`
	RainfallChangePercent   float64  `json:"rainfall_change_percent"`
	PopulationChangePercent float64  `json:"population_change_percent"`
	TemperatureChange       float64  `json:"temperature_change"`
	RegionIDs               []string `json:"region_ids"`
}

// Validate checks every parameter range. The estimation pipeline assumes
// validated input, so each entry point must call this before predicting.
func (p ScenarioParams) Validate() error {
	if len(p.RegionIDs) == 0 {
		return fmt.Errorf("%w: region_ids must not be empty", ErrInvalidParams)
	}
	for _, id := range p.RegionIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: region_ids must not contain blank entries", ErrInvalidParams)
		}
	}
	if p.TargetYear < MinTargetYear || p.TargetYear > MaxTargetYear {
		return fmt.Errorf("%w: year %d outside [%d, %d]",
			ErrInvalidParams, p.TargetYear, MinTargetYear, MaxTargetYear)
	}
	if p.RainfallChangePercent < MinRainfallChange || p.RainfallChangePercent > MaxRainfallChange {
		return fmt.Errorf("%w: rainfall_change_percent %g outside [%g, %g]",
			ErrInvalidParams, p.RainfallChangePercent, MinRainfallChange, MaxRainfallChange)
	}
	if p.PopulationChangePercent < MinPopulationChange || p.PopulationChangePercent > MaxPopulationChange {
		return fmt.Errorf("%w: population_change_percent %g outside [%g, %g]",
			ErrInvalidParams, p.PopulationChangePercent, MinPopulationChange, MaxPopulationChange)
	}
	if p.TemperatureChange < MinTemperatureChange || p.TemperatureChange > MaxTemperatureChange {
		return fmt.Errorf("%w: temperature_change %g outside [%g, %g]",
			ErrInvalidParams, p.TemperatureChange, MinTemperatureChange, MaxTemperatureChange)
	}
	return nil
}

// CacheKey builds the memoization key for this scenario. The key covers every
// field and preserves region order, so equal parameter sets always collide
// and any single change misses.
func (p ScenarioParams) CacheKey() string {
	return fmt.Sprintf("%s_%d_%g_%g_%g",
		strings.Join(p.RegionIDs, "_"),
		p.TargetYear,
		p.RainfallChangePercent,
		p.PopulationChangePercent,
		p.TemperatureChange,
	)
}

// DistrictPrediction is one district's estimated outcome under a scenario.
// Demand and supply are rounded to one decimal; StressLevel was classified
// from the unrounded values.
type DistrictPrediction struct {
	DistrictName    string     `json:"district_name"`
	PredictedDemand float64    `json:"predicted_demand"`
	PredictedSupply float64    `json:"predicted_supply"`
	StressLevel     string     `json:"stress_level"`
	Coordinates     [2]float64 `json:"coordinates"`
}

// Summary aggregates a scenario's district predictions.
type Summary struct {
	TotalDistricts     int     `json:"total_districts"`
	HighRiskCount      int     `json:"high_risk_count"`
	AverageStressScore float64 `json:"average_stress_score"`
}

// ScenarioResult is the complete output for one scenario. Predictions are
// region-major, district-minor in request order. Memoized results are shared
// between callers and must be treated as read-only.
type ScenarioResult struct {
	Predictions []DistrictPrediction `json:"predictions"`
	Summary     Summary              `json:"summary"`
	AIEnhanced  bool                 `json:"ai_enhanced"`
}

// PredictionRecord pairs a computed result with the scenario that produced it,
// for persistence and event publishing.
type PredictionRecord struct {
	ScenarioID string
	Params     ScenarioParams
	Result     *ScenarioResult
}
