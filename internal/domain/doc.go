// Package domain models water demand/supply scenario prediction.
//
// # Region Catalog
//
// Five administrative regions are built in (district_1 through district_5),
// each with a population, an area, two named districts with WGS-84
// coordinates, and a sensitivity profile describing how strongly the region
// responds to scenario drivers:
//
//	base_demand_factor       scales baseline demand (urban 1.4 … mountain 0.7)
//	rainfall_sensitivity     how much rainfall change moves supply
//	temperature_sensitivity  how much warming moves demand
//
// Lookups are lenient: unknown region ids resolve to a neutral profile and a
// single default district so a stale or misspelled id degrades to a generic
// estimate instead of failing the scenario.
//
// # Scenario Pipeline
//
// A scenario names a target year, three change drivers (rainfall %,
// population %, temperature °C), and an ordered region list. Prediction runs
// in three stages:
//
//	resolve    per region: a bounded FactorSet, from deterministic rules or
//	           (when an Advisor is wired) parsed from free-form advisory text
//	estimate   per district: demand and supply from the district's synthetic
//	           population share, the region profile, the factors, and a
//	           uniform jitter drawn from the caller's random source
//	summarize  per scenario: counts, average stress, and a redistribution
//	           pass that corrects labels contradicting the scenario direction
//
// Output order is region-major, district-minor, following the order the
// request named regions.
//
// # Stress Classification
//
// Every scoring path maps the bonus-adjusted demand/supply ratio through the
// same thresholds:
//
//	ratio > 1.20  Deficit
//	ratio > 0.85  Stable
//	otherwise     Surplus
//
// Demand floors at 20 and supply at 15 before the ratio is taken, so the
// ratio is always finite. Classification uses the unrounded floored values;
// the stored predictions are rounded to one decimal, and the summary's
// average stress is computed from those stored values.
//
// # Redistribution
//
// Formula output can contradict the qualitative direction of an extreme
// scenario (abundant rain reading as deficit, severe drought reading as
// surplus). Summarize relabels stress levels in encounter order until the
// scenario's target share is met: wet-and-cool scenarios end with at least
// 70% of districts in Surplus, droughts with at least 40% in Deficit. Only
// labels change; demand and supply magnitudes stay as estimated.
//
// # Synthetic History
//
// HistoricalSeries fabricates plausible yearly usage for charting when no
// database sits behind the API. Each region has a trend profile
// (increasing_stress, stable, improving) shaping demand and supply growth,
// and the weather columns are generated consistent with the outcome: surplus
// years look wet and cool, shortfall years dry and hot. Series are seeded per
// (region, length) pair so repeated requests chart identically.
package domain
