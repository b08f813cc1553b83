package rules

import (
	"context"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

// StaticProvider serves the rule set loaded at startup. Rules are copied on
// read so callers cannot mutate the shared slice.
type StaticProvider struct {
	rules []risk.RuleConfig
}

// NewStaticProvider creates a provider over a fixed rule set.
func NewStaticProvider(rules []risk.RuleConfig) *StaticProvider {
	return &StaticProvider{rules: rules}
}

// ActiveRules implements RuleProvider.
func (p *StaticProvider) ActiveRules(ctx context.Context) ([]risk.RuleConfig, error) {
	out := make([]risk.RuleConfig, len(p.rules))
	copy(out, p.rules)
	return out, nil
}
