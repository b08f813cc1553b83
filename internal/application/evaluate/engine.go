// Package evaluate orchestrates one risk evaluation: fan out to every
// signal source, aggregate, decide, and trigger step-up when the decision
// requires it.
package evaluate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/metrics"
)

// RuleEngine runs the configured rule set. degraded reports whether any
// rule verdict was lost to an evaluator failure.
type RuleEngine interface {
	Evaluate(ctx context.Context, txCtx *risk.TransactionContext) ([]risk.RuleResult, bool)
}

// MLScorer fetches the model anomaly score. Advisory: errors degrade, never
// block.
type MLScorer interface {
	Score(ctx context.Context, tx *risk.Transaction) (*risk.MLScore, error)
}

// ThreatIntel fetches the IP reputation verdict. Advisory, like MLScorer.
type ThreatIntel interface {
	Lookup(ctx context.Context, ipAddress string) (*risk.ThreatAssessment, error)
}

// Blacklist is the banned-value store. Check fails open internally, so a
// miss and an unreachable store look the same to the engine.
type Blacklist interface {
	Check(ctx context.Context, t risk.BlacklistType, value string) (bool, *risk.BlacklistEntry)
	Add(ctx context.Context, entry *risk.BlacklistEntry) error
}

// StepUpIssuer opens an OTP challenge for a transaction.
type StepUpIssuer interface {
	Issue(ctx context.Context, transactionID uuid.UUID, recipient string) (*stepup.Session, error)
}

// Config carries the engine's tunables.
type Config struct {
	Aggregator risk.AggregatorConfig
	Policy     risk.PolicyConfig

	// AutoEscalateThreshold: rejected evaluations scoring at or above this
	// write the transaction IP to the blacklist. 0 disables escalation.
	AutoEscalateThreshold int
}

// Engine evaluates transactions end to end.
type Engine struct {
	rules      RuleEngine
	ml         MLScorer
	cti        ThreatIntel
	blacklist  Blacklist
	stepUp     StepUpIssuer
	aggregator *risk.Aggregator
	policy     *risk.DecisionPolicy
	logger     *zap.Logger

	autoEscalateThreshold int
	now                   func() time.Time
}

// NewEngine wires the evaluation pipeline.
func NewEngine(rules RuleEngine, ml MLScorer, cti ThreatIntel, blacklist Blacklist, stepUp StepUpIssuer, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{
		rules:                 rules,
		ml:                    ml,
		cti:                   cti,
		blacklist:             blacklist,
		stepUp:                stepUp,
		aggregator:            risk.NewAggregator(cfg.Aggregator),
		policy:                risk.NewDecisionPolicy(cfg.Policy),
		logger:                logger,
		autoEscalateThreshold: cfg.AutoEscalateThreshold,
		now:                   time.Now,
	}
}

// Evaluate runs the full pipeline for one transaction. Signal collection is
// concurrent; a cancelled or expired context returns an error and no
// decision is emitted. Advisory signal failures degrade the evaluation
// instead.
func (e *Engine) Evaluate(ctx context.Context, tx *risk.Transaction) (*risk.EvaluationResult, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	start := e.now()
	txCtx := risk.ContextFor(tx)

	var (
		ruleResults   []risk.RuleResult
		rulesDegraded bool
		mlScore       *risk.MLScore
		mlErr         error
		threat        *risk.ThreatAssessment
		threatErr     error
		blacklisted   bool
		blacklistHit  *risk.BlacklistEntry
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		ruleResults, rulesDegraded = e.rules.Evaluate(ctx, txCtx)
	}()
	go func() {
		defer wg.Done()
		mlScore, mlErr = e.ml.Score(ctx, tx)
	}()
	go func() {
		defer wg.Done()
		threat, threatErr = e.cti.Lookup(ctx, tx.IPAddress)
	}()
	go func() {
		defer wg.Done()
		blacklisted, blacklistHit = e.blacklist.Check(ctx, risk.BlacklistIP, tx.IPAddress)
	}()
	wg.Wait()

	// All-or-nothing: a partial result under a dead context could approve a
	// transaction no complete evaluation would have approved.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	degraded := rulesDegraded
	if mlErr != nil {
		degraded = true
		mlScore = nil
		e.logger.Warn("ml score unavailable",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(mlErr))
	}
	if threatErr != nil {
		degraded = true
		threat = nil
		e.logger.Warn("threat intel unavailable",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(threatErr))
	}

	score, factors := e.aggregator.Aggregate(risk.AggregateInput{
		RuleResults:  ruleResults,
		ML:           mlScore,
		Threat:       threat,
		BlacklistHit: blacklistHit,
		Amount:       tx.Amount,
	})

	decision := e.policy.Decide(score, blacklisted)

	result := &risk.EvaluationResult{
		TransactionID: tx.ID,
		RiskScore:     score,
		RiskLevel:     e.policy.LevelFor(score),
		Decision:      decision,
		RiskFactors:   factors,
		Degraded:      degraded,
		EvaluatedAt:   start,
	}

	if decision == risk.DecisionAdditionalAuth {
		result.Otp = e.issueStepUp(ctx, tx)
	}

	if decision == risk.DecisionReject && !blacklisted {
		e.maybeEscalate(tx, score)
	}

	result.LatencyMs = e.now().Sub(start).Milliseconds()

	metrics.EvaluationsTotal.WithLabelValues(string(decision)).Inc()
	metrics.EvaluationSeconds.Observe(float64(result.LatencyMs) / 1000)
	if degraded {
		metrics.DegradedEvaluations.Inc()
	}

	e.logger.Info("transaction evaluated",
		zap.String("transaction_id", tx.ID.String()),
		zap.Int("risk_score", score),
		zap.String("decision", string(decision)),
		zap.Bool("degraded", degraded),
		zap.Int64("latency_ms", result.LatencyMs))

	return result, nil
}

// issueStepUp opens the OTP challenge for a step-up decision. An issuance
// failure is surfaced on the result instead of silently downgrading the
// decision.
func (e *Engine) issueStepUp(ctx context.Context, tx *risk.Transaction) *risk.OtpState {
	session, err := e.stepUp.Issue(ctx, tx.ID, tx.UserID.String())
	if err != nil {
		e.logger.Error("step-up issuance failed",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err))
		state := &risk.OtpState{Error: err.Error()}
		if session != nil {
			state.Status = string(session.Status)
			state.ExpiresAt = session.ExpiresAt
			state.AttemptsRemaining = session.AttemptsRemaining
		}
		return state
	}
	return &risk.OtpState{
		Status:            string(session.Status),
		ExpiresAt:         session.ExpiresAt,
		AttemptsRemaining: session.AttemptsRemaining,
	}
}

// maybeEscalate writes the transaction IP to the blacklist when a rejection
// scores at or above the escalation threshold. Runs off the request path;
// escalation failure never affects the already-made decision.
func (e *Engine) maybeEscalate(tx *risk.Transaction, score int) {
	if e.autoEscalateThreshold <= 0 || score < e.autoEscalateThreshold {
		return
	}

	entry := risk.NewBlacklistEntry(risk.BlacklistIP, tx.IPAddress, risk.ThreatTemporary,
		"auto-escalated by risk engine")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := e.blacklist.Add(ctx, entry); err != nil {
			e.logger.Warn("blacklist auto-escalation failed",
				zap.String("ip_address", tx.IPAddress),
				zap.Error(err))
			return
		}
		e.logger.Info("ip auto-escalated to blacklist",
			zap.String("ip_address", tx.IPAddress),
			zap.Int("risk_score", score))
	}()
}
