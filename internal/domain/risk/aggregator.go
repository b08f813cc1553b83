package risk

import (
	"fmt"
	"sort"
)

// AmountTier contributes a fixed point value once a transaction amount
// reaches its threshold. Only the highest matching tier counts.
type AmountTier struct {
	Threshold int64 `json:"threshold" mapstructure:"threshold"` // minor units
	Points    int   `json:"points" mapstructure:"points"`
}

// AggregatorConfig carries the operationally tuned point values. None of
// these are compiled constants; they arrive from the configuration store so
// tuning does not require a rebuild.
type AggregatorConfig struct {
	AmountTiers       []AmountTier     `mapstructure:"amount_tiers"`
	DefaultRulePoints int              `mapstructure:"default_rule_points"`
	MLMaxPoints       int              `mapstructure:"ml_max_points"`
	CTIPoints         map[CTILevel]int `mapstructure:"cti_points"`
	BlacklistPoints   int              `mapstructure:"blacklist_points"`
}

// AggregateInput joins every signal collected for one transaction.
type AggregateInput struct {
	RuleResults  []RuleResult
	ML           *MLScore          // nil when the adapter degraded
	Threat       *ThreatAssessment // nil when the adapter degraded
	BlacklistHit *BlacklistEntry   // nil when not blacklisted
	Amount       int64
}

// Aggregator folds heterogeneous risk signals into one composite score.
// Contributions are summed, not maxed, so several weak signals can compound
// into a block decision; the sum is clamped to [0, 100].
type Aggregator struct {
	cfg AggregatorConfig
}

// NewAggregator creates an aggregator with the given point configuration.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	tiers := make([]AmountTier, len(cfg.AmountTiers))
	copy(tiers, cfg.AmountTiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Threshold < tiers[j].Threshold })
	cfg.AmountTiers = tiers
	return &Aggregator{cfg: cfg}
}

// Aggregate produces the composite risk score and the ordered factor list
// backing it.
func (a *Aggregator) Aggregate(in AggregateInput) (int, []RiskFactor) {
	factors := make([]RiskFactor, 0, len(in.RuleResults)+4)

	if f, ok := a.amountFactor(in.Amount); ok {
		factors = append(factors, f)
	}

	for _, r := range in.RuleResults {
		if !r.Triggered {
			continue
		}
		points := r.Score
		if points <= 0 {
			points = a.cfg.DefaultRulePoints
		}
		kind := r.Kind
		if kind == "" {
			kind = FactorVelocity
		}
		factors = append(factors, RiskFactor{
			Name:   r.RuleName,
			Kind:   kind,
			Score:  points,
			Detail: r.Reason,
		})
	}

	if in.ML != nil && in.ML.Score > 0 {
		points := in.ML.Score * a.cfg.MLMaxPoints / 100
		if points > 0 {
			factors = append(factors, RiskFactor{
				Name:   "ml_anomaly",
				Kind:   FactorML,
				Score:  points,
				Detail: fmt.Sprintf("model anomaly score %d (confidence %.2f)", in.ML.Score, in.ML.Confidence),
			})
		}
	}

	if in.Threat != nil && in.Threat.Level != CTINone {
		if points := a.cfg.CTIPoints[in.Threat.Level]; points > 0 {
			factors = append(factors, RiskFactor{
				Name:   "threat_intel",
				Kind:   FactorCTI,
				Score:  points,
				Detail: fmt.Sprintf("ip reputation %s (%s)", in.Threat.Level, in.Threat.Category),
			})
		}
	}

	if in.BlacklistHit != nil {
		factors = append(factors, RiskFactor{
			Name:   "blacklist_hit",
			Kind:   FactorBlacklist,
			Score:  a.cfg.BlacklistPoints,
			Detail: fmt.Sprintf("%s %q blacklisted: %s", in.BlacklistHit.Type, in.BlacklistHit.Value, in.BlacklistHit.Reason),
		})
	}

	total := 0
	for _, f := range factors {
		total += f.Score
	}
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total, factors
}

// amountFactor returns the highest tier the amount reaches, if any. Tiers
// are held sorted ascending by threshold.
func (a *Aggregator) amountFactor(amount int64) (RiskFactor, bool) {
	var matched *AmountTier
	for i := range a.cfg.AmountTiers {
		if amount >= a.cfg.AmountTiers[i].Threshold {
			matched = &a.cfg.AmountTiers[i]
		}
	}
	if matched == nil {
		return RiskFactor{}, false
	}
	return RiskFactor{
		Name:   "amount_tier",
		Kind:   FactorAmount,
		Score:  matched.Points,
		Detail: fmt.Sprintf("amount %d reaches tier threshold %d", amount, matched.Threshold),
	}, true
}
