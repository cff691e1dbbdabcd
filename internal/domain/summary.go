package domain

import "math"

// Redistribution triggers and target shares. The pass runs when formula
// output contradicts the qualitative direction of an extreme scenario:
// abundant rain with mild warming should read majority-surplus, and a severe
// drought should show widespread deficits.
const (
	wetRainfallTrigger = 30.0
	wetTemperatureCap  = 4.0
	wetSurplusShare    = 0.7

	severeDroughtRainfall   = -30.0
	moderateDroughtRainfall = -15.0
	droughtTemperature      = 6.0
	droughtDeficitShare     = 0.4
)

// Summarize computes portfolio statistics for a scenario's predictions,
// first relabeling stress levels in place when a redistribution trigger
// applies. Counts always reflect the final labels. The average stress score
// sums demand/supply over districts with positive supply but divides by the
// total count, and stays zero when there are no predictions.
func Summarize(predictions []DistrictPrediction, p ScenarioParams) Summary {
	redistribute(predictions, p)

	total := len(predictions)
	s := Summary{TotalDistricts: total}
	if total == 0 {
		return s
	}

	var stressSum float64
	for _, pred := range predictions {
		if pred.StressLevel == StressDeficit {
			s.HighRiskCount++
		}
		if pred.PredictedSupply > 0 {
			stressSum += pred.PredictedDemand / pred.PredictedSupply
		}
	}
	s.AverageStressScore = round2(stressSum / float64(total))
	return s
}

// redistribute relabels predictions in encounter order until the scenario's
// target share holds. Only labels change; demand and supply magnitudes stay
// as estimated.
func redistribute(predictions []DistrictPrediction, p ScenarioParams) {
	total := len(predictions)
	if total == 0 {
		return
	}

	rain := p.RainfallChangePercent
	temp := p.TemperatureChange

	switch {
	case rain > wetRainfallTrigger && temp < wetTemperatureCap:
		relabel(predictions, StressSurplus, int(math.Ceil(wetSurplusShare*float64(total))))
	case rain < severeDroughtRainfall || (rain < moderateDroughtRainfall && temp > droughtTemperature):
		target := int(math.Ceil(droughtDeficitShare * float64(total)))
		if target < 1 {
			target = 1
		}
		relabel(predictions, StressDeficit, target)
	}
}

// relabel flips predictions to label, front to back, until at least target of
// them carry it. Predictions already labeled count toward the target.
func relabel(predictions []DistrictPrediction, label string, target int) {
	have := 0
	for _, pred := range predictions {
		if pred.StressLevel == label {
			have++
		}
	}
	for i := range predictions {
		if have >= target {
			return
		}
		if predictions[i].StressLevel != label {
			predictions[i].StressLevel = label
			have++
		}
	}
}
