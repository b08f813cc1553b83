package risk

// FactorKind classifies the signal a RiskFactor came from.
type FactorKind string

const (
	FactorAmount    FactorKind = "amount"
	FactorVelocity  FactorKind = "velocity"
	FactorIP        FactorKind = "ip"
	FactorML        FactorKind = "ml"
	FactorCTI       FactorKind = "cti"
	FactorBlacklist FactorKind = "blacklist"
)

// RiskFactor is one scored piece of evidence attached to an evaluation
// result. Factors are produced once and never mutated.
type RiskFactor struct {
	Name   string     `json:"name"`
	Kind   FactorKind `json:"kind"`
	Score  int        `json:"score"` // bounded per-signal contribution
	Detail string     `json:"detail"`
}

// MLScore is the anomaly score returned by the model-serving boundary.
type MLScore struct {
	Score      int     `json:"score"`      // 0-100
	Confidence float64 `json:"confidence"` // 0-1
}

// CTILevel is the reputation verdict returned by the threat-intel boundary.
type CTILevel string

const (
	CTINone   CTILevel = "none"
	CTILow    CTILevel = "low"
	CTIMedium CTILevel = "medium"
	CTIHigh   CTILevel = "high"
)

// ThreatAssessment is the threat-intel lookup result for an IP.
type ThreatAssessment struct {
	Level    CTILevel `json:"threat_level"`
	Category string   `json:"category"`
}
