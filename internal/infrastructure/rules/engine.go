// Package rules implements the pluggable rule evaluators and their
// dispatcher.
package rules

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

// Counter is the atomic windowed counter the velocity and pattern
// evaluators increment. Backed by Redis in production.
type Counter interface {
	Increment(ctx context.Context, scope, value string, window time.Duration) (int64, error)
}

// RuleProvider supplies the rule set for an evaluation. Rules are data
// owned by a configuration store outside this engine.
type RuleProvider interface {
	ActiveRules(ctx context.Context) ([]risk.RuleConfig, error)
}

// Evaluator runs one rule type against a transaction context.
type Evaluator interface {
	Type() risk.RuleType
	Evaluate(ctx context.Context, rule risk.RuleConfig, txCtx *risk.TransactionContext) (*risk.RuleResult, error)
}

// Engine dispatches rules to registered evaluators by explicit rule type.
// New rule types register an evaluator; the dispatcher does not change.
type Engine struct {
	provider   RuleProvider
	evaluators map[risk.RuleType]Evaluator
	logger     *zap.Logger
}

// NewEngine creates a rule engine with the four built-in evaluators
// registered.
func NewEngine(provider RuleProvider, counter Counter, logger *zap.Logger) *Engine {
	e := &Engine{
		provider:   provider,
		evaluators: make(map[risk.RuleType]Evaluator),
		logger:     logger,
	}
	e.Register(NewVelocityEvaluator(counter))
	e.Register(NewThresholdEvaluator())
	e.Register(NewLocationEvaluator())
	e.Register(NewPatternEvaluator(counter))
	return e
}

// Register adds an evaluator, replacing any previous one for its type.
func (e *Engine) Register(ev Evaluator) {
	e.evaluators[ev.Type()] = ev
}

// Evaluate runs every enabled rule against the transaction. A rule with an
// unknown type or malformed parameters is skipped and logged, never fatal.
// Evaluator errors (counter store down) fail open; degraded reports whether
// any verdict was lost that way.
func (e *Engine) Evaluate(ctx context.Context, txCtx *risk.TransactionContext) ([]risk.RuleResult, bool) {
	ruleSet, err := e.provider.ActiveRules(ctx)
	if err != nil {
		e.logger.Warn("failed to load rules, evaluating without them", zap.Error(err))
		return nil, true
	}

	results := make([]risk.RuleResult, 0, len(ruleSet))
	degraded := false

	for _, rule := range ruleSet {
		if !rule.Enabled {
			continue
		}

		ev, ok := e.evaluators[rule.Type]
		if !ok {
			e.logger.Warn("skipping rule with unknown type",
				zap.String("rule_id", rule.ID),
				zap.String("type", string(rule.Type)))
			continue
		}

		result, err := ev.Evaluate(ctx, rule, txCtx)
		if err != nil {
			degraded = true
			e.logger.Warn("rule evaluation failed, failing open",
				zap.String("rule_id", rule.ID),
				zap.Error(err))
			continue
		}
		results = append(results, *result)
	}

	return results, degraded
}
