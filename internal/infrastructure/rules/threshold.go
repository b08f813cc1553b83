package rules

import (
	"context"
	"fmt"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

// ThresholdEvaluator compares a numeric transaction field against a
// configured bound. A missing field never errors and never triggers.
type ThresholdEvaluator struct{}

// NewThresholdEvaluator creates a threshold evaluator.
func NewThresholdEvaluator() *ThresholdEvaluator {
	return &ThresholdEvaluator{}
}

// Type implements Evaluator.
func (e *ThresholdEvaluator) Type() risk.RuleType { return risk.RuleTypeThreshold }

// Evaluate compares ctx[field] against the threshold using the configured
// operator.
func (e *ThresholdEvaluator) Evaluate(ctx context.Context, rule risk.RuleConfig, txCtx *risk.TransactionContext) (*risk.RuleResult, error) {
	field := paramString(rule.Parameters, "field")
	if field == "" {
		return nil, fmt.Errorf("threshold rule %s: field is required", rule.ID)
	}
	operator := paramString(rule.Parameters, "operator")
	threshold, ok := paramFloat(rule.Parameters, "threshold")
	if !ok {
		return nil, fmt.Errorf("threshold rule %s: threshold is required", rule.ID)
	}
	points := paramInt(rule.Parameters, "points", 0)

	value, ok := txCtx.NumericField(field)
	if !ok {
		return risk.NewRuleResult(rule, false, 0, fmt.Sprintf("field %s absent", field)), nil
	}

	matched, err := compare(value, operator, threshold)
	if err != nil {
		return nil, fmt.Errorf("threshold rule %s: %w", rule.ID, err)
	}

	if matched {
		result := risk.NewRuleResult(rule, true, points,
			fmt.Sprintf("%s = %g %s %g", field, value, operator, threshold))
		result.AddMetadata("field", field)
		result.AddMetadata("value", value)
		result.AddMetadata("threshold", threshold)
		return result, nil
	}

	return risk.NewRuleResult(rule, false, 0, "threshold not met"), nil
}

func compare(value float64, operator string, threshold float64) (bool, error) {
	switch operator {
	case ">=":
		return value >= threshold, nil
	case ">":
		return value > threshold, nil
	case "<=":
		return value <= threshold, nil
	case "<":
		return value < threshold, nil
	case "==":
		return value == threshold, nil
	default:
		return false, fmt.Errorf("unknown operator %q", operator)
	}
}
