package rules

import (
	"context"
	"fmt"
	"slices"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

// LocationEvaluator flags transactions whose resolved country is on a
// high-risk list or outside an allowed list. Geo resolution itself belongs
// to an upstream collaborator; this evaluator only produces evidence.
type LocationEvaluator struct{}

// NewLocationEvaluator creates a location evaluator.
func NewLocationEvaluator() *LocationEvaluator {
	return &LocationEvaluator{}
}

// Type implements Evaluator.
func (e *LocationEvaluator) Type() risk.RuleType { return risk.RuleTypeLocation }

// Evaluate checks country-list membership. A transaction without a resolved
// country never triggers.
func (e *LocationEvaluator) Evaluate(ctx context.Context, rule risk.RuleConfig, txCtx *risk.TransactionContext) (*risk.RuleResult, error) {
	highRisk := paramStringSlice(rule.Parameters, "high_risk_countries")
	allowed := paramStringSlice(rule.Parameters, "allowed_countries")
	if len(highRisk) == 0 && len(allowed) == 0 {
		return nil, fmt.Errorf("location rule %s: high_risk_countries or allowed_countries is required", rule.ID)
	}
	points := paramInt(rule.Parameters, "points", 0)

	country, ok := txCtx.StringField("country")
	if !ok {
		return risk.NewRuleResult(rule, false, 0, "country not resolved"), nil
	}

	if slices.Contains(highRisk, country) {
		result := risk.NewRuleResult(rule, true, points,
			fmt.Sprintf("transaction from high-risk country %s", country))
		result.AddMetadata("country", country)
		return result, nil
	}

	if len(allowed) > 0 && !slices.Contains(allowed, country) {
		result := risk.NewRuleResult(rule, true, points,
			fmt.Sprintf("transaction from non-allowed country %s", country))
		result.AddMetadata("country", country)
		return result, nil
	}

	return risk.NewRuleResult(rule, false, 0, "location check passed"), nil
}
