package risk

// PolicyConfig holds the decision thresholds. Scores strictly above
// HighThreshold reject; strictly above MediumThreshold require step-up.
type PolicyConfig struct {
	MediumThreshold int `mapstructure:"medium_threshold"`
	HighThreshold   int `mapstructure:"high_threshold"`
}

// DecisionPolicy maps a composite score and blacklist verdict to a terminal
// decision. It is a pure function of its inputs: identical (score, hit)
// pairs always produce the identical decision.
type DecisionPolicy struct {
	cfg PolicyConfig
}

// NewDecisionPolicy creates a policy with the given thresholds.
func NewDecisionPolicy(cfg PolicyConfig) *DecisionPolicy {
	return &DecisionPolicy{cfg: cfg}
}

// Decide returns the terminal decision. A blacklist hit is an absolute veto
// regardless of score.
func (p *DecisionPolicy) Decide(riskScore int, blacklistHit bool) Decision {
	if blacklistHit {
		return DecisionReject
	}
	switch {
	case riskScore > p.cfg.HighThreshold:
		return DecisionReject
	case riskScore > p.cfg.MediumThreshold:
		return DecisionAdditionalAuth
	default:
		return DecisionApprove
	}
}

// LevelFor derives the observability label from the same thresholds the
// decision uses.
func (p *DecisionPolicy) LevelFor(riskScore int) RiskLevel {
	switch {
	case riskScore > p.cfg.HighThreshold:
		return RiskLevelHigh
	case riskScore > p.cfg.MediumThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
