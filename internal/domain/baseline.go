package domain

import (
	"fmt"
	"math"
	"math/rand"
)

// Normal-year weather assumed by the baseline estimate: 1000mm annual
// rainfall at 25°C, mid-year seasonality.
const (
	normalRainfallMM   = 1000.0
	normalTemperatureC = 25.0
	baselineMonth      = 6
)

// BaselineEstimate computes the current-year outlook for a region's districts
// from its present population under normal-year weather. Unlike scenario
// estimation it applies no factor set; it answers "where does this region
// stand today". Output is deterministic per (region, year) so the baseline
// view stays stable across requests within a year.
func BaselineEstimate(region Region) ([]DistrictPrediction, Summary) {
	year := clock.Now().Year()
	rng := rand.New(rand.NewSource(staticSeed(fmt.Sprintf("baseline|%s|%d", region.ID, year))))
	popThousands := float64(region.Population) / 1000

	ds := Districts(region.ID)
	predictions := make([]DistrictPrediction, 0, len(ds))
	for _, d := range ds {
		demand := baselineDemand(rng, popThousands, normalTemperatureC, baselineMonth, year)
		supply := baselineSupply(rng, popThousands, normalRainfallMM, normalTemperatureC, year)
		predictions = append(predictions, DistrictPrediction{
			DistrictName:    d.Name,
			PredictedDemand: round2(demand),
			PredictedSupply: round2(supply),
			StressLevel:     ClassifyStress(demand / supply),
			Coordinates:     d.Coordinates,
		})
	}
	return predictions, Summarize(predictions, ScenarioParams{})
}

// baselineDemand estimates annual demand from per-capita usage with
// temperature, seasonal, and year-on-year growth adjustments. Floors at 10.
func baselineDemand(rng *rand.Rand, popThousands, temperature float64, month, year int) float64 {
	base := popThousands * 0.18 * 365
	tempEffect := 1 + math.Max(0, (temperature-25)*0.15)
	seasonal := 1 + 0.3*math.Abs(6-float64(month))/6
	growth := 1 + 0.03*float64(year-2020)
	demand := base * tempEffect * seasonal * growth * uniform(rng, 0.85, 1.15)
	return math.Max(demand, 10)
}

// baselineSupply estimates annual deliverable supply, dominated by rainfall
// relative to the 1000mm normal with evaporation loss and infrastructure
// growth adjustments. Floors at 15.
func baselineSupply(rng *rand.Rand, popThousands, rainfall, temperature float64, year int) float64 {
	infrastructure := popThousands * 0.12
	rainFactor := math.Max(0.3, rainfall/normalRainfallMM)
	tempLoss := 1 - math.Max(0, (temperature-25)*0.08)
	infraGrowth := 1 + 0.015*float64(year-2020)
	seasonal := 0.7 + 0.6*rainfall/normalRainfallMM
	supply := infrastructure * rainFactor * tempLoss * infraGrowth * seasonal * uniform(rng, 0.8, 1.2)
	return math.Max(supply, 15)
}
