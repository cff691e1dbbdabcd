package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() ScenarioParams {
	return ScenarioParams{
		TargetYear:              2027,
		RainfallChangePercent:   -10,
		PopulationChangePercent: 15,
		TemperatureChange:       2,
		RegionIDs:               []string{"district_1", "district_2"},
	}
}

func TestScenarioParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScenarioParams)
		valid  bool
	}{
		{"valid", func(p *ScenarioParams) {}, true},
		{"year lower bound", func(p *ScenarioParams) { p.TargetYear = 2024 }, true},
		{"year upper bound", func(p *ScenarioParams) { p.TargetYear = 2030 }, true},
		{"year too early", func(p *ScenarioParams) { p.TargetYear = 2023 }, false},
		{"year too late", func(p *ScenarioParams) { p.TargetYear = 2031 }, false},
		{"rainfall lower bound", func(p *ScenarioParams) { p.RainfallChangePercent = -50 }, true},
		{"rainfall upper bound", func(p *ScenarioParams) { p.RainfallChangePercent = 50 }, true},
		{"rainfall too low", func(p *ScenarioParams) { p.RainfallChangePercent = -50.1 }, false},
		{"rainfall too high", func(p *ScenarioParams) { p.RainfallChangePercent = 50.1 }, false},
		{"population lower bound", func(p *ScenarioParams) { p.PopulationChangePercent = 0 }, true},
		{"population upper bound", func(p *ScenarioParams) { p.PopulationChangePercent = 100 }, true},
		{"population negative", func(p *ScenarioParams) { p.PopulationChangePercent = -0.1 }, false},
		{"population too high", func(p *ScenarioParams) { p.PopulationChangePercent = 100.1 }, false},
		{"temperature lower bound", func(p *ScenarioParams) { p.TemperatureChange = -5 }, true},
		{"temperature upper bound", func(p *ScenarioParams) { p.TemperatureChange = 10 }, true},
		{"temperature too low", func(p *ScenarioParams) { p.TemperatureChange = -5.1 }, false},
		{"temperature too high", func(p *ScenarioParams) { p.TemperatureChange = 10.1 }, false},
		{"empty region list", func(p *ScenarioParams) { p.RegionIDs = nil }, false},
		{"blank region entry", func(p *ScenarioParams) { p.RegionIDs = []string{"district_1", "  "} }, false},
		{"unknown region id passes validation", func(p *ScenarioParams) { p.RegionIDs = []string{"district_99"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParams)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	t.Run("equal params collide", func(t *testing.T) {
		assert.Equal(t, validParams().CacheKey(), validParams().CacheKey())
	})

	t.Run("region order matters", func(t *testing.T) {
		a := validParams()
		b := validParams()
		b.RegionIDs = []string{"district_2", "district_1"}
		assert.NotEqual(t, a.CacheKey(), b.CacheKey())
	})

	t.Run("every field participates", func(t *testing.T) {
		base := validParams().CacheKey()
		mutations := []func(*ScenarioParams){
			func(p *ScenarioParams) { p.TargetYear = 2028 },
			func(p *ScenarioParams) { p.RainfallChangePercent = -11 },
			func(p *ScenarioParams) { p.PopulationChangePercent = 16 },
			func(p *ScenarioParams) { p.TemperatureChange = 2.5 },
			func(p *ScenarioParams) { p.RegionIDs = []string{"district_1"} },
		}
		for _, mutate := range mutations {
			p := validParams()
			mutate(&p)
			assert.NotEqual(t, base, p.CacheKey())
		}
	})
}
