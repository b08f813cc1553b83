package config

import (
	"time"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/logger"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Redis    RedisConfig       `mapstructure:"redis"`
	Risk     RiskConfig        `mapstructure:"risk"`
	Rules    []risk.RuleConfig `mapstructure:"rules"`
	Adapters AdaptersConfig    `mapstructure:"adapters"`
	OTP      OTPConfig         `mapstructure:"otp"`
	Log      logger.Config     `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig holds the distributed cache/counter store configuration.
// More than one address enables cluster mode.
type RedisConfig struct {
	Addrs        []string      `mapstructure:"addrs"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RiskConfig carries the externally tunable scoring and decisioning values.
// None of these are compiled into the engine.
type RiskConfig struct {
	Aggregator risk.AggregatorConfig `mapstructure:"aggregator"`
	Policy     risk.PolicyConfig     `mapstructure:"policy"`

	// AutoEscalateThreshold: a rejected evaluation scoring at or above
	// this value writes the transaction IP to the blacklist. 0 disables.
	AutoEscalateThreshold int `mapstructure:"auto_escalate_threshold"`
}

// AdaptersConfig holds the external scoring boundary configuration.
type AdaptersConfig struct {
	MLEndpoint          string        `mapstructure:"ml_endpoint"`
	ThreatIntelEndpoint string        `mapstructure:"threat_intel_endpoint"`
	Timeout             time.Duration `mapstructure:"timeout"`

	BreakerThreshold    int           `mapstructure:"breaker_threshold"`
	BreakerOpenDuration time.Duration `mapstructure:"breaker_open_duration"`
}

// OTPConfig holds step-up authentication configuration.
type OTPConfig struct {
	TTL            time.Duration `mapstructure:"ttl"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	ResendCooldown time.Duration `mapstructure:"resend_cooldown"`

	// DeliveryURL is a shoutrrr service URL; empty selects the log-only
	// sender.
	DeliveryURL string `mapstructure:"delivery_url"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addrs:        []string{"localhost:6379"},
			DB:           0,
			PoolSize:     10,
			ReadTimeout:  50 * time.Millisecond,
			WriteTimeout: 50 * time.Millisecond,
		},
		Risk: RiskConfig{
			Aggregator: risk.AggregatorConfig{
				AmountTiers: []risk.AmountTier{
					{Threshold: 100_000, Points: 10},
					{Threshold: 1_000_000, Points: 25},
					{Threshold: 5_000_000, Points: 50},
				},
				DefaultRulePoints: 20,
				MLMaxPoints:       30,
				CTIPoints: map[risk.CTILevel]int{
					risk.CTILow:    10,
					risk.CTIMedium: 25,
					risk.CTIHigh:   40,
				},
				BlacklistPoints: 100,
			},
			Policy: risk.PolicyConfig{
				MediumThreshold: 40,
				HighThreshold:   70,
			},
			AutoEscalateThreshold: 90,
		},
		Rules: defaultRules(),
		Adapters: AdaptersConfig{
			MLEndpoint:          "http://localhost:9090/v1/score",
			ThreatIntelEndpoint: "http://localhost:9091/v1/reputation",
			Timeout:             40 * time.Millisecond,
			BreakerThreshold:    5,
			BreakerOpenDuration: 30 * time.Second,
		},
		OTP: OTPConfig{
			TTL:            5 * time.Minute,
			MaxAttempts:    3,
			ResendCooldown: 60 * time.Second,
		},
		Log: logger.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

func defaultRules() []risk.RuleConfig {
	return []risk.RuleConfig{
		{
			ID:      "velocity_ip",
			Name:    "ip_velocity",
			Type:    risk.RuleTypeVelocity,
			Enabled: true,
			Parameters: map[string]any{
				"scope_field":    "ip_address",
				"window_seconds": 60,
				"max_count":      10,
				"points":         25,
			},
		},
		{
			ID:      "velocity_user",
			Name:    "user_velocity",
			Type:    risk.RuleTypeVelocity,
			Enabled: true,
			Parameters: map[string]any{
				"scope_field":    "user_id",
				"window_seconds": 300,
				"max_count":      15,
				"points":         20,
			},
		},
		{
			ID:      "repeated_amount",
			Name:    "repeated_exact_amount",
			Type:    risk.RuleTypePattern,
			Enabled: true,
			Parameters: map[string]any{
				"pattern":        "repeated_amount",
				"window_seconds": 600,
				"max_repeats":    3,
				"points":         15,
			},
		},
		{
			ID:      "high_risk_country",
			Name:    "high_risk_country",
			Type:    risk.RuleTypeLocation,
			Enabled: true,
			Parameters: map[string]any{
				"high_risk_countries": []string{"KP", "IR", "SY"},
				"points":              30,
			},
		},
	}
}
