package domain

import (
	"context"
	"log/slog"
)

// Advisor produces free-form expert text for a prompt. Implementations wrap
// external generative services and may fail or time out; callers absorb every
// error and continue on the deterministic rule path.
type Advisor interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ResolveFactors produces the factor set for one region under a scenario.
// The deterministic rules always run first; when advisor is non-nil its text
// is parsed over the rule-derived values so a partial response only overrides
// the fields it names. A nil advisor, a failed call, or a cancelled context
// falls back to the rule factors without retry (graceful degradation).
// The second return reports whether advisory guidance was applied.
func ResolveFactors(ctx context.Context, advisor Advisor, logger *slog.Logger, profile RegionProfile, p ScenarioParams) (FactorSet, bool) {
	factors := DeriveFactors(p)
	if advisor == nil {
		return factors, false
	}

	text, err := advisor.Generate(ctx, AdvisoryPrompt(profile, p))
	if err != nil {
		logger.Warn("advisory call failed, using rule factors",
			"region_id", profile.RegionID,
			"error", err,
		)
		return factors, false
	}
	return ParseAdvisoryFactors(text, factors), true
}
