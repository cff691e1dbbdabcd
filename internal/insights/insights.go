// Package insights turns computed scenario summaries into short narrative
// findings for the API's key-insights endpoint.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/aquaforesee/water-scenario-service/internal/domain"
)

// maxInsights caps the bullet count regardless of how many triggers fire.
const maxInsights = 4

// Provider generates key insights for a computed scenario. With an advisor
// configured the advisory text is preferred; the deterministic generator is
// both the fallback and the advisor-less path.
type Provider struct {
	advisor domain.Advisor
	logger  *slog.Logger
}

// NewProvider creates a Provider. A nil advisor keeps insights fully
// deterministic.
func NewProvider(advisor domain.Advisor, logger *slog.Logger) *Provider {
	return &Provider{advisor: advisor, logger: logger}
}

// KeyInsights returns insight text for the scenario and whether it came from
// the advisory channel.
func (p *Provider) KeyInsights(ctx context.Context, params domain.ScenarioParams, summary domain.Summary) (string, bool) {
	if p.advisor == nil {
		return RuleBasedInsights(params, summary), false
	}

	text, err := p.advisor.Generate(ctx, insightsPrompt(params, summary))
	if err != nil {
		p.logger.Warn("advisory insights failed, using rule-based text", "error", err)
		return RuleBasedInsights(params, summary), false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return RuleBasedInsights(params, summary), false
	}
	return text, true
}

func insightsPrompt(p domain.ScenarioParams, s domain.Summary) string {
	return fmt.Sprintf(`You are a water resource analyst. Summarize the key findings of this scenario in at most %d short bullet points, each starting with "•".

Scenario for %d:
- rainfall change: %+g%%
- population change: %+g%%
- temperature change: %+g C

Computed outcome:
- districts analyzed: %d
- districts at high risk: %d
- average stress score: %.2f

Respond with the bullet points only, no preamble.`,
		maxInsights,
		p.TargetYear,
		p.RainfallChangePercent,
		p.PopulationChangePercent,
		p.TemperatureChange,
		s.TotalDistricts,
		s.HighRiskCount,
		s.AverageStressScore,
	)
}

// RuleBasedInsights builds deterministic insight bullets from the scenario
// drivers and the summary. At most one stress bullet fires, then each driver
// past its trigger adds one more, capped at maxInsights.
func RuleBasedInsights(p domain.ScenarioParams, s domain.Summary) string {
	var insights []string

	switch {
	case float64(s.HighRiskCount) > float64(s.TotalDistricts)*0.5:
		insights = append(insights, fmt.Sprintf(
			"• CRITICAL: %d out of %d districts face water deficits, indicating a regional water crisis requiring immediate intervention.",
			s.HighRiskCount, s.TotalDistricts))
	case s.HighRiskCount == 0:
		insights = append(insights, fmt.Sprintf(
			"• POSITIVE: All %d districts maintain adequate water supply, suggesting effective resource management under current conditions.",
			s.TotalDistricts))
	default:
		insights = append(insights, fmt.Sprintf(
			"• MODERATE RISK: %d districts show water stress, requiring targeted interventions while maintaining regional stability.",
			s.HighRiskCount))
	}

	if p.RainfallChangePercent > 30 {
		insights = append(insights, fmt.Sprintf(
			"• RAINFALL IMPACT: The %g%% increase in rainfall significantly improves water availability, demonstrating the critical importance of precipitation patterns.",
			p.RainfallChangePercent))
	} else if p.RainfallChangePercent < -20 {
		insights = append(insights, fmt.Sprintf(
			"• DROUGHT CONCERN: The %g%% rainfall reduction creates substantial supply challenges, highlighting vulnerability to climate variability.",
			math.Abs(p.RainfallChangePercent)))
	}

	if p.TemperatureChange > 5 {
		insights = append(insights, fmt.Sprintf(
			"• TEMPERATURE STRESS: The %g°C temperature increase substantially raises water demand through increased evaporation and cooling needs.",
			p.TemperatureChange))
	}

	if p.PopulationChangePercent > 50 {
		insights = append(insights, fmt.Sprintf(
			"• GROWTH PRESSURE: %g%% population growth significantly strains water infrastructure, requiring capacity expansion and efficiency improvements.",
			p.PopulationChangePercent))
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return strings.Join(insights, "\n")
}
