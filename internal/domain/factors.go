package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Factor bounds shared by the rule engine and the advisory parser. Parsed
// advisory values are clamped into these ranges, so a FactorSet is always
// safe to apply no matter where it came from.
const (
	MinDemandMultiplier = 0.7
	MaxDemandMultiplier = 1.8

	MinSupplyMultiplier = 0.4
	MaxSupplyMultiplier = 2.5

	MinStressReductionBonus = 0.0
	MaxStressReductionBonus = 0.3

	MinDistrictVariation = 0.1
	MaxDistrictVariation = 0.3
)

// FactorSet holds the bounded multipliers applied during estimation. All
// fields are within their declared ranges.
type FactorSet struct {
	DemandMultiplier     float64
	SupplyMultiplier     float64
	StressReductionBonus float64
	DistrictVariation    float64
}

// DeriveFactors computes the deterministic rule-based factors for a scenario.
// Population growth and warming push demand up; rainfall dominates supply
// with a moderate warming penalty. High rainfall earns a stress reduction
// bonus, and extreme rainfall in either direction widens the district spread.
func DeriveFactors(p ScenarioParams) FactorSet {
	demand := 1 + p.PopulationChangePercent*0.01 + p.TemperatureChange*0.08
	supply := 1 + p.RainfallChangePercent*0.025 - p.TemperatureChange*0.05

	var bonus float64
	switch {
	case p.RainfallChangePercent > 30:
		bonus = 0.2
	case p.RainfallChangePercent > 15:
		bonus = 0.1
	}

	variation := 0.15 + math.Abs(p.RainfallChangePercent)*0.002

	return FactorSet{
		DemandMultiplier:     clamp(demand, MinDemandMultiplier, MaxDemandMultiplier),
		SupplyMultiplier:     clamp(supply, MinSupplyMultiplier, MaxSupplyMultiplier),
		StressReductionBonus: clamp(bonus, MinStressReductionBonus, MaxStressReductionBonus),
		DistrictVariation:    clamp(variation, MinDistrictVariation, MaxDistrictVariation),
	}
}

// advisoryValueRe extracts the first numeric token after a label, tolerating
// brackets, units, and surrounding prose ("[1.2]", "1.2 (approx)").
var advisoryValueRe = regexp.MustCompile(`[\d.]+`)

// ParseAdvisoryFactors extracts labeled factor values from advisory free
// text. Lines are matched as "label: value"; labels are lowercased with
// spaces collapsed to underscores, values are the first numeric token after
// the colon. Parsed values are clamped to [0.1, 3.0] and then to the field's
// own range. Fields the text does not provide, or provides unparseably, keep
// their value from fallback, so a garbled response degrades per field rather
// than per call.
func ParseAdvisoryFactors(text string, fallback FactorSet) FactorSet {
	out := fallback
	for _, line := range strings.Split(text, "\n") {
		label, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
		token := advisoryValueRe.FindString(rest)
		if token == "" {
			continue
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		v = clamp(v, 0.1, 3.0)
		switch key {
		case "demand_multiplier":
			out.DemandMultiplier = clamp(v, MinDemandMultiplier, MaxDemandMultiplier)
		case "supply_multiplier":
			out.SupplyMultiplier = clamp(v, MinSupplyMultiplier, MaxSupplyMultiplier)
		case "stress_reduction_bonus":
			out.StressReductionBonus = clamp(v, MinStressReductionBonus, MaxStressReductionBonus)
		case "district_variation":
			out.DistrictVariation = clamp(v, MinDistrictVariation, MaxDistrictVariation)
		}
	}
	return out
}

// AdvisoryPrompt renders the scenario brief sent to the advisory channel.
// The requested output labels are exactly what ParseAdvisoryFactors reads.
func AdvisoryPrompt(profile RegionProfile, p ScenarioParams) string {
	return fmt.Sprintf(`As a water resource expert, analyze this scenario for %s:

SCENARIO:
- Year: %d
- Rainfall change: %+g%%
- Population growth: %+g%%
- Temperature change: %+g°C

ANALYSIS RULES:
- Rainfall above +30%% should significantly improve supply and reduce stress
- Warming raises demand but not catastrophically
- Population growth raises demand roughly proportionally
- Consider the regional characteristics; not every scenario is a crisis

Respond with numbers only, one per line:
demand_multiplier: value in [%g, %g]
supply_multiplier: value in [%g, %g]
stress_reduction_bonus: value in [%g, %g]
district_variation: value in [%g, %g]`,
		profile.Description,
		p.TargetYear,
		p.RainfallChangePercent,
		p.PopulationChangePercent,
		p.TemperatureChange,
		MinDemandMultiplier, MaxDemandMultiplier,
		MinSupplyMultiplier, MaxSupplyMultiplier,
		MinStressReductionBonus, MaxStressReductionBonus,
		MinDistrictVariation, MaxDistrictVariation,
	)
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
