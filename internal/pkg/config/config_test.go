package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 40, cfg.Risk.Policy.MediumThreshold)
	assert.Equal(t, 70, cfg.Risk.Policy.HighThreshold)
	assert.Equal(t, 40*time.Millisecond, cfg.Adapters.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 3, cfg.OTP.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.OTP.ResendCooldown)
	assert.NotEmpty(t, cfg.Rules)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
risk:
  policy:
    medium_threshold: 30
    high_threshold: 60
otp:
  max_attempts: 5
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Risk.Policy.MediumThreshold)
	assert.Equal(t, 60, cfg.Risk.Policy.HighThreshold)
	assert.Equal(t, 5, cfg.OTP.MaxAttempts)

	// Untouched sections keep their defaults.
	assert.Equal(t, 40*time.Millisecond, cfg.Adapters.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHOPFDS_SERVER_PORT", "7070")
	t.Setenv("SHOPFDS_RISK_AUTO_ESCALATE_THRESHOLD", "95")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 95, cfg.Risk.AutoEscalateThreshold)
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultRules_AreWellFormed(t *testing.T) {
	for _, rule := range defaultRules() {
		assert.NotEmpty(t, rule.ID)
		assert.True(t, rule.Enabled)
		switch rule.Type {
		case risk.RuleTypeVelocity:
			assert.Contains(t, rule.Parameters, "scope_field")
		case risk.RuleTypePattern:
			assert.Contains(t, rule.Parameters, "pattern")
		case risk.RuleTypeLocation:
			assert.Contains(t, rule.Parameters, "high_risk_countries")
		}
	}
}
