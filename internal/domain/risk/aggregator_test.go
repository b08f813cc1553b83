package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		AmountTiers: []AmountTier{
			{Threshold: 100_000, Points: 10},
			{Threshold: 1_000_000, Points: 25},
			{Threshold: 5_000_000, Points: 50},
		},
		DefaultRulePoints: 20,
		MLMaxPoints:       30,
		CTIPoints: map[CTILevel]int{
			CTILow:    10,
			CTIMedium: 25,
			CTIHigh:   40,
		},
		BlacklistPoints: 100,
	}
}

func TestAggregate_AmountTiers(t *testing.T) {
	agg := NewAggregator(testAggregatorConfig())

	tests := []struct {
		name   string
		amount int64
		want   int
	}{
		{"below lowest tier", 99_999, 0},
		{"exactly lowest tier", 100_000, 10},
		{"middle tier", 1_500_000, 25},
		{"highest tier", 6_000_000, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, factors := agg.Aggregate(AggregateInput{Amount: tt.amount})
			assert.Equal(t, tt.want, score)
			if tt.want > 0 {
				require.Len(t, factors, 1)
				assert.Equal(t, FactorAmount, factors[0].Kind)
			} else {
				assert.Empty(t, factors)
			}
		})
	}
}

func TestAggregate_UnsortedTiersStillPickHighest(t *testing.T) {
	cfg := testAggregatorConfig()
	cfg.AmountTiers = []AmountTier{
		{Threshold: 5_000_000, Points: 50},
		{Threshold: 100_000, Points: 10},
		{Threshold: 1_000_000, Points: 25},
	}
	agg := NewAggregator(cfg)

	score, _ := agg.Aggregate(AggregateInput{Amount: 2_000_000})
	assert.Equal(t, 25, score)
}

func TestAggregate_SignalsCompound(t *testing.T) {
	agg := NewAggregator(testAggregatorConfig())

	score, factors := agg.Aggregate(AggregateInput{
		Amount: 150_000, // 10
		RuleResults: []RuleResult{
			{RuleID: "velocity_ip", RuleName: "ip_velocity", Triggered: true, Score: 25},
			{RuleID: "quiet", RuleName: "quiet", Triggered: false, Score: 99},
		},
		ML:     &MLScore{Score: 50, Confidence: 0.8}, // 50 * 30 / 100 = 15
		Threat: &ThreatAssessment{Level: CTIMedium},  // 25
	})

	assert.Equal(t, 10+25+15+25, score)
	assert.Len(t, factors, 4)
}

func TestAggregate_RuleFactorsCarryTheirRuleTypeKind(t *testing.T) {
	agg := NewAggregator(testAggregatorConfig())

	_, factors := agg.Aggregate(AggregateInput{
		RuleResults: []RuleResult{
			*NewRuleResult(RuleConfig{ID: "v", Name: "ip_velocity", Type: RuleTypeVelocity}, true, 25, ""),
			*NewRuleResult(RuleConfig{ID: "l", Name: "high_risk_country", Type: RuleTypeLocation}, true, 30, ""),
			*NewRuleResult(RuleConfig{ID: "t", Name: "amount_threshold", Type: RuleTypeThreshold}, true, 10, ""),
			*NewRuleResult(RuleConfig{ID: "p", Name: "repeated_exact_amount", Type: RuleTypePattern}, true, 15, ""),
		},
	})

	require.Len(t, factors, 4)
	kinds := map[string]FactorKind{}
	for _, f := range factors {
		kinds[f.Name] = f.Kind
	}
	assert.Equal(t, FactorVelocity, kinds["ip_velocity"])
	assert.Equal(t, FactorIP, kinds["high_risk_country"])
	assert.Equal(t, FactorAmount, kinds["amount_threshold"])
	assert.Equal(t, FactorVelocity, kinds["repeated_exact_amount"])
}

func TestAggregate_UntriggeredRulesContributeNothing(t *testing.T) {
	agg := NewAggregator(testAggregatorConfig())

	score, factors := agg.Aggregate(AggregateInput{
		RuleResults: []RuleResult{
			{RuleID: "a", Triggered: false, Score: 40},
			{RuleID: "b", Triggered: false, Score: 40},
		},
	})
	assert.Zero(t, score)
	assert.Empty(t, factors)
}

func TestAggregate_RulePointsFallBackToDefault(t *testing.T) {
	agg := NewAggregator(testAggregatorConfig())

	score, factors := agg.Aggregate(AggregateInput{
		RuleResults: []RuleResult{
			{RuleID: "no_points", RuleName: "no_points", Triggered: true, Score: 0},
		},
	})
	assert.Equal(t, 20, score)
	require.Len(t, factors, 1)
	assert.Equal(t, 20, factors[0].Score)
}

func TestAggregate_ClampsAtHundred(t *testing.T) {
	agg := NewAggregator(testAggregatorConfig())

	score, _ := agg.Aggregate(AggregateInput{
		Amount:       6_000_000,
		ML:           &MLScore{Score: 100, Confidence: 1},
		Threat:       &ThreatAssessment{Level: CTIHigh},
		BlacklistHit: &BlacklistEntry{Type: BlacklistIP, Value: "10.0.0.1", Reason: "fraud"},
	})
	assert.Equal(t, 100, score)
}

func TestAggregate_MLScaledByMaxPoints(t *testing.T) {
	agg := NewAggregator(testAggregatorConfig())

	score, factors := agg.Aggregate(AggregateInput{
		ML: &MLScore{Score: 100, Confidence: 0.9},
	})
	assert.Equal(t, 30, score)
	require.Len(t, factors, 1)
	assert.Equal(t, FactorML, factors[0].Kind)
}

func TestAggregate_DegradedSignalsAreSkipped(t *testing.T) {
	agg := NewAggregator(testAggregatorConfig())

	// nil ML and threat stand in for degraded adapters.
	score, factors := agg.Aggregate(AggregateInput{Amount: 50_000})
	assert.Zero(t, score)
	assert.Empty(t, factors)
}
