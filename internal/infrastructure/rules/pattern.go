package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

const patternRepeatedAmount = "repeated_amount"

// PatternEvaluator detects configured behavioral patterns. The repeated
// exact-amount pattern counts (user, amount) repeats through the same
// windowed counter store the velocity evaluator uses.
type PatternEvaluator struct {
	counter Counter
}

// NewPatternEvaluator creates a pattern evaluator backed by the given
// counter store.
func NewPatternEvaluator(counter Counter) *PatternEvaluator {
	return &PatternEvaluator{counter: counter}
}

// Type implements Evaluator.
func (e *PatternEvaluator) Type() risk.RuleType { return risk.RuleTypePattern }

// Evaluate dispatches on the configured pattern name.
func (e *PatternEvaluator) Evaluate(ctx context.Context, rule risk.RuleConfig, txCtx *risk.TransactionContext) (*risk.RuleResult, error) {
	pattern := paramString(rule.Parameters, "pattern")
	switch pattern {
	case patternRepeatedAmount:
		return e.repeatedAmount(ctx, rule, txCtx)
	default:
		return nil, fmt.Errorf("pattern rule %s: unknown pattern %q", rule.ID, pattern)
	}
}

func (e *PatternEvaluator) repeatedAmount(ctx context.Context, rule risk.RuleConfig, txCtx *risk.TransactionContext) (*risk.RuleResult, error) {
	windowSeconds := paramInt(rule.Parameters, "window_seconds", 600)
	maxRepeats := paramInt(rule.Parameters, "max_repeats", 3)
	points := paramInt(rule.Parameters, "points", 0)

	value := fmt.Sprintf("%s:%d", txCtx.UserID, txCtx.Amount)
	count, err := e.counter.Increment(ctx, "pattern:amount", value, time.Duration(windowSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("pattern rule %s: %w", rule.ID, err)
	}

	if count > int64(maxRepeats) {
		result := risk.NewRuleResult(rule, true, points,
			fmt.Sprintf("amount %d repeated %d times within %ds (limit %d)", txCtx.Amount, count, windowSeconds, maxRepeats))
		result.AddMetadata("repeats", count)
		result.AddMetadata("limit", maxRepeats)
		return result, nil
	}

	return risk.NewRuleResult(rule, false, 0, "no amount repetition pattern"), nil
}
