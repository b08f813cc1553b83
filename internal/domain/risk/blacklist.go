package risk

import "time"

// BlacklistType identifies what kind of value an entry bans.
type BlacklistType string

const (
	BlacklistIP          BlacklistType = "ip"
	BlacklistCardBIN     BlacklistType = "card_bin"
	BlacklistEmailDomain BlacklistType = "email_domain"
)

// ThreatLevel drives how long an entry stays on the blacklist.
type ThreatLevel string

const (
	ThreatTemporary       ThreatLevel = "temporary"
	ThreatFraud           ThreatLevel = "fraud"
	ThreatPermanent       ThreatLevel = "permanent"
	ThreatStolenCard      ThreatLevel = "stolen_card"
	ThreatSuspiciousEmail ThreatLevel = "suspicious_email"
)

// threatTTLs maps each threat level to its retention window. Permanent
// entries carry no TTL and are never auto-expired.
var threatTTLs = map[ThreatLevel]time.Duration{
	ThreatTemporary:       time.Hour,
	ThreatSuspiciousEmail: 24 * time.Hour,
	ThreatStolenCard:      30 * 24 * time.Hour,
	ThreatFraud:           90 * 24 * time.Hour,
}

// TTL returns the retention window for the level. permanent reports
// (0, false): no expiry.
func (l ThreatLevel) TTL() (time.Duration, bool) {
	if l == ThreatPermanent {
		return 0, false
	}
	ttl, ok := threatTTLs[l]
	if !ok {
		// Unknown levels fall back to the shortest window rather than
		// banning forever.
		return time.Hour, true
	}
	return ttl, true
}

// Valid reports whether the level is one of the known threat levels.
func (l ThreatLevel) Valid() bool {
	if l == ThreatPermanent {
		return true
	}
	_, ok := threatTTLs[l]
	return ok
}

// BlacklistEntry is one banned value. Entries are created by an operator or
// by the engine itself when a score crosses the escalation threshold, and are
// destroyed by TTL expiry or explicit removal.
type BlacklistEntry struct {
	Type        BlacklistType `json:"type"`
	Value       string        `json:"value"`
	ThreatLevel ThreatLevel   `json:"threat_level"`
	Reason      string        `json:"reason"`
	AddedAt     time.Time     `json:"added_at"`
}

// NewBlacklistEntry builds an entry stamped with the current time.
func NewBlacklistEntry(t BlacklistType, value string, level ThreatLevel, reason string) *BlacklistEntry {
	return &BlacklistEntry{
		Type:        t,
		Value:       value,
		ThreatLevel: level,
		Reason:      reason,
		AddedAt:     time.Now(),
	}
}
