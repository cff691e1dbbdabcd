package domain

import (
	"math"
	"math/rand"
)

// Floors applied before the stress ratio so it stays finite and magnitudes
// stay plausible for charting.
const (
	minPredictedDemand = 20.0
	minPredictedSupply = 15.0
)

// Classification thresholds. A ratio must exceed the bound to move up a
// band, so exactly 1.2 is Stable and exactly 0.85 is Surplus.
const (
	deficitThreshold = 1.2
	stableThreshold  = 0.85
)

// EstimateDistrict produces one district's demand and supply estimate under a
// scenario. The district's ordinal position within its region sets a
// synthetic baseline share; rng supplies the uniform jitter that
// differentiates districts. No shared state is touched, so concurrent calls
// with distinct rngs are safe.
func EstimateDistrict(rng *rand.Rand, profile RegionProfile, district District, index int, p ScenarioParams, factors FactorSet) DistrictPrediction {
	share := (40 + 25*float64(index)) * (1 + p.PopulationChangePercent/100)

	demand := share * 0.16 * profile.BaseDemandFactor
	demand *= 1 + p.TemperatureChange*profile.TemperatureSensitivity*0.06
	demand *= factors.DemandMultiplier

	supply := share * 0.14
	supply *= 1 + (p.RainfallChangePercent/100)*profile.RainfallSensitivity*1.5
	supply *= 1 - p.TemperatureChange*0.03
	supply *= factors.SupplyMultiplier

	// Demand jitter draws before supply jitter; reordering changes output
	// for a fixed seed.
	v := factors.DistrictVariation
	demand *= uniform(rng, 1-v, 1+v)
	supply *= uniform(rng, 1-v, 1+v)

	demand = math.Max(demand, minPredictedDemand)
	supply = math.Max(supply, minPredictedSupply)

	ratio := demand / supply
	if factors.StressReductionBonus > 0 {
		ratio *= 1 - factors.StressReductionBonus
	}

	return DistrictPrediction{
		DistrictName:    district.Name,
		PredictedDemand: round1(demand),
		PredictedSupply: round1(supply),
		StressLevel:     ClassifyStress(ratio),
		Coordinates:     district.Coordinates,
	}
}

// ClassifyStress maps a bonus-adjusted demand/supply ratio to a stress label.
func ClassifyStress(ratio float64) string {
	switch {
	case ratio > deficitThreshold:
		return StressDeficit
	case ratio > stableThreshold:
		return StressStable
	default:
		return StressSurplus
	}
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// round1 rounds to one decimal for presentation.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimals for summary statistics.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
