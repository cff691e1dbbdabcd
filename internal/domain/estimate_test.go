package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noJitter disables the per-district spread so estimates become closed-form.
func noJitter(f FactorSet) FactorSet {
	f.DistrictVariation = 0
	return f
}

func TestEstimateDistrict(t *testing.T) {
	profile := RegionProfile{
		RegionID:               "district_x",
		BaseDemandFactor:       1.0,
		RainfallSensitivity:    1.0,
		TemperatureSensitivity: 1.0,
	}
	district := District{Name: "Test District", Coordinates: [2]float64{28.1, 77.2}}

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		p := validParams()
		factors := DeriveFactors(p)

		a := EstimateDistrict(rand.New(rand.NewSource(42)), profile, district, 0, p, factors)
		b := EstimateDistrict(rand.New(rand.NewSource(42)), profile, district, 0, p, factors)

		assert.Equal(t, a, b)
	})

	t.Run("floors apply to tiny shares", func(t *testing.T) {
		// Index 0 share is 40: raw demand 6.4 and supply 5.6 both sit
		// under the floors.
		p := ScenarioParams{TargetYear: 2025, RegionIDs: []string{"district_x"}}
		got := EstimateDistrict(rand.New(rand.NewSource(1)), profile, district, 0, p, noJitter(DeriveFactors(p)))

		assert.Equal(t, 20.0, got.PredictedDemand)
		assert.Equal(t, 15.0, got.PredictedSupply)
		// 20/15 exceeds the deficit threshold.
		assert.Equal(t, StressDeficit, got.StressLevel)
	})

	t.Run("closed form above the floors", func(t *testing.T) {
		// Index 4 share is 140: demand 140*0.16=22.4, supply 140*0.14=19.6,
		// ratio 1.1428 lands in the stable band.
		p := ScenarioParams{TargetYear: 2025, RegionIDs: []string{"district_x"}}
		got := EstimateDistrict(rand.New(rand.NewSource(1)), profile, district, 4, p, noJitter(DeriveFactors(p)))

		assert.InDelta(t, 22.4, got.PredictedDemand, 1e-9)
		assert.InDelta(t, 19.6, got.PredictedSupply, 1e-9)
		assert.Equal(t, StressStable, got.StressLevel)
		assert.Equal(t, district.Name, got.DistrictName)
		assert.Equal(t, district.Coordinates, got.Coordinates)
	})

	t.Run("stress reduction bonus can flip the label", func(t *testing.T) {
		p := ScenarioParams{TargetYear: 2025, RegionIDs: []string{"district_x"}}
		factors := noJitter(DeriveFactors(p))
		factors.StressReductionBonus = 0.3

		// Ratio 1.1428 * 0.7 = 0.8 falls through to surplus.
		got := EstimateDistrict(rand.New(rand.NewSource(1)), profile, district, 4, p, factors)
		assert.Equal(t, StressSurplus, got.StressLevel)
	})

	t.Run("later districts carry larger shares", func(t *testing.T) {
		p := ScenarioParams{TargetYear: 2025, RegionIDs: []string{"district_x"}}
		factors := noJitter(DeriveFactors(p))

		first := EstimateDistrict(rand.New(rand.NewSource(1)), profile, district, 4, p, factors)
		second := EstimateDistrict(rand.New(rand.NewSource(1)), profile, district, 5, p, factors)

		assert.Greater(t, second.PredictedDemand, first.PredictedDemand)
		assert.Greater(t, second.PredictedSupply, first.PredictedSupply)
	})

	t.Run("outputs always respect the floors", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		p := ScenarioParams{
			TargetYear:              2030,
			RainfallChangePercent:   -50,
			PopulationChangePercent: 0,
			TemperatureChange:       10,
			RegionIDs:               []string{"district_x"},
		}
		factors := DeriveFactors(p)
		for i := 0; i < 50; i++ {
			got := EstimateDistrict(rng, profile, district, i%2, p, factors)
			require.GreaterOrEqual(t, got.PredictedDemand, 20.0)
			require.GreaterOrEqual(t, got.PredictedSupply, 15.0)
		}
	})
}

func TestClassifyStress(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		expected string
	}{
		{"clear deficit", 2.0, StressDeficit},
		{"just above deficit threshold", 1.201, StressDeficit},
		{"exactly 1.2 is stable", 1.2, StressStable},
		{"mid stable band", 1.0, StressStable},
		{"just above stable threshold", 0.851, StressStable},
		{"exactly 0.85 is surplus", 0.85, StressSurplus},
		{"clear surplus", 0.5, StressSurplus},
		{"zero ratio", 0, StressSurplus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyStress(tt.ratio))
		})
	}
}
