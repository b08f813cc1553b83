package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

// VelocityEvaluator counts events per identity inside a fixed window and
// triggers once the post-increment count exceeds the configured maximum.
type VelocityEvaluator struct {
	counter Counter
}

// NewVelocityEvaluator creates a velocity evaluator backed by the given
// counter store.
func NewVelocityEvaluator(counter Counter) *VelocityEvaluator {
	return &VelocityEvaluator{counter: counter}
}

// Type implements Evaluator.
func (e *VelocityEvaluator) Type() risk.RuleType { return risk.RuleTypeVelocity }

// Evaluate increments the counter for the configured scope field and
// triggers when count > max_count. The increment that opens a window sets
// its TTL; concurrent increments never reset it.
func (e *VelocityEvaluator) Evaluate(ctx context.Context, rule risk.RuleConfig, txCtx *risk.TransactionContext) (*risk.RuleResult, error) {
	scopeField := paramString(rule.Parameters, "scope_field")
	if scopeField == "" {
		return nil, fmt.Errorf("velocity rule %s: scope_field is required", rule.ID)
	}
	windowSeconds := paramInt(rule.Parameters, "window_seconds", 60)
	maxCount := paramInt(rule.Parameters, "max_count", 10)
	points := paramInt(rule.Parameters, "points", 0)

	value, ok := txCtx.StringField(scopeField)
	if !ok {
		return risk.NewRuleResult(rule, false, 0, fmt.Sprintf("scope field %s absent", scopeField)), nil
	}

	count, err := e.counter.Increment(ctx, scopeField, value, time.Duration(windowSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("velocity rule %s: %w", rule.ID, err)
	}

	if count > int64(maxCount) {
		result := risk.NewRuleResult(rule, true, points,
			fmt.Sprintf("%d events for %s within %ds (limit %d)", count, scopeField, windowSeconds, maxCount))
		result.AddMetadata("count", count)
		result.AddMetadata("limit", maxCount)
		result.AddMetadata("window_seconds", windowSeconds)
		return result, nil
	}

	return risk.NewRuleResult(rule, false, 0, "within velocity limit"), nil
}
