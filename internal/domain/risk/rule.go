package risk

// RuleType selects which evaluator a rule is dispatched to. New rule types
// register a new evaluator; the dispatcher itself does not change.
type RuleType string

const (
	RuleTypeVelocity  RuleType = "velocity"
	RuleTypeThreshold RuleType = "threshold"
	RuleTypeLocation  RuleType = "location"
	RuleTypePattern   RuleType = "pattern"
)

// RuleConfig is one rule as loaded from the configuration store. Parameters
// is an opaque key-value map interpreted by the evaluator for the rule's type.
type RuleConfig struct {
	ID         string         `json:"id" mapstructure:"id"`
	Name       string         `json:"name" mapstructure:"name"`
	Type       RuleType       `json:"type" mapstructure:"type"`
	Enabled    bool           `json:"enabled" mapstructure:"enabled"`
	Parameters map[string]any `json:"parameters" mapstructure:"parameters"`
}

// RuleResult is the verdict of one evaluator run.
type RuleResult struct {
	RuleID    string         `json:"rule_id"`
	RuleName  string         `json:"rule_name"`
	Kind      FactorKind     `json:"kind"`
	Triggered bool           `json:"triggered"`
	Score     int            `json:"score"` // points this rule contributes when triggered
	Reason    string         `json:"reason"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// factorKindFor classifies a rule type's evidence. Pattern rules count
// repeats through the same windowed counters as velocity rules, so their
// evidence classifies as velocity.
func factorKindFor(t RuleType) FactorKind {
	switch t {
	case RuleTypeLocation:
		return FactorIP
	case RuleTypeThreshold:
		return FactorAmount
	default:
		return FactorVelocity
	}
}

// NewRuleResult builds a verdict for a rule.
func NewRuleResult(rule RuleConfig, triggered bool, score int, reason string) *RuleResult {
	return &RuleResult{
		RuleID:    rule.ID,
		RuleName:  rule.Name,
		Kind:      factorKindFor(rule.Type),
		Triggered: triggered,
		Score:     score,
		Reason:    reason,
	}
}

// AddMetadata attaches a piece of evidence to the result.
func (r *RuleResult) AddMetadata(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}
