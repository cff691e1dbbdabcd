package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquaforesee/water-scenario-service/internal/domain"
)

func TestSerializeRecord(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rec := domain.PredictionRecord{
		ScenarioID: "scn-123",
		Params: domain.ScenarioParams{
			TargetYear:              2028,
			RainfallChangePercent:   -20,
			PopulationChangePercent: 15,
			TemperatureChange:       3,
			RegionIDs:               []string{"district_1", "district_4"},
		},
		Result: &domain.ScenarioResult{
			Predictions: []domain.DistrictPrediction{
				{DistrictName: "North Plains A", PredictedDemand: 55.2, PredictedSupply: 38.1, StressLevel: domain.StressDeficit},
			},
			Summary:    domain.Summary{TotalDistricts: 4, HighRiskCount: 2, AverageStressScore: 1.31},
			AIEnhanced: true,
		},
	}

	msg, err := serializeRecord(rec, at)
	require.NoError(t, err)

	assert.Equal(t, []byte("scn-123"), msg.Key)

	assert.JSONEq(t, `{
		"scenario_id": "scn-123",
		"params": {
			"year": 2028,
			"rainfall_change_percent": -20,
			"population_change_percent": 15,
			"temperature_change": 3,
			"region_ids": ["district_1", "district_4"]
		},
		"summary": {
			"total_districts": 4,
			"high_risk_count": 2,
			"average_stress_score": 1.31
		},
		"ai_enhanced": true,
		"computed_at": "2026-03-14T09:30:00Z"
	}`, string(msg.Value))

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "ai_enhanced", msg.Headers[0].Key)
	assert.Equal(t, []byte("true"), msg.Headers[0].Value)
	assert.Equal(t, "computed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-03-14T09:30:00Z"), msg.Headers[1].Value)
}

func TestSerializeRecord_OmitsDistrictDetail(t *testing.T) {
	rec := domain.PredictionRecord{
		ScenarioID: "scn-456",
		Params: domain.ScenarioParams{
			TargetYear: 2026,
			RegionIDs:  []string{"district_2"},
		},
		Result: &domain.ScenarioResult{
			Predictions: []domain.DistrictPrediction{
				{DistrictName: "Coastal Valley A"},
				{DistrictName: "Coastal Valley B"},
			},
			Summary: domain.Summary{TotalDistricts: 2},
		},
	}

	msg, err := serializeRecord(rec, time.Now().UTC())
	require.NoError(t, err)

	assert.NotContains(t, string(msg.Value), "Coastal Valley A")
	assert.Contains(t, string(msg.Value), `"total_districts":2`)
}
