package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional file and SHOPFDS_-prefixed
// environment variables, layered over DefaultConfig.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// A missing file is fine; defaults and env vars apply.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("SHOPFDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("redis.addrs", cfg.Redis.Addrs)
	v.SetDefault("redis.db", cfg.Redis.DB)
	v.SetDefault("redis.pool_size", cfg.Redis.PoolSize)
	v.SetDefault("redis.read_timeout", cfg.Redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", cfg.Redis.WriteTimeout)

	v.SetDefault("risk.policy.medium_threshold", cfg.Risk.Policy.MediumThreshold)
	v.SetDefault("risk.policy.high_threshold", cfg.Risk.Policy.HighThreshold)
	v.SetDefault("risk.aggregator.default_rule_points", cfg.Risk.Aggregator.DefaultRulePoints)
	v.SetDefault("risk.aggregator.ml_max_points", cfg.Risk.Aggregator.MLMaxPoints)
	v.SetDefault("risk.aggregator.blacklist_points", cfg.Risk.Aggregator.BlacklistPoints)
	v.SetDefault("risk.auto_escalate_threshold", cfg.Risk.AutoEscalateThreshold)

	v.SetDefault("adapters.ml_endpoint", cfg.Adapters.MLEndpoint)
	v.SetDefault("adapters.threat_intel_endpoint", cfg.Adapters.ThreatIntelEndpoint)
	v.SetDefault("adapters.timeout", cfg.Adapters.Timeout)
	v.SetDefault("adapters.breaker_threshold", cfg.Adapters.BreakerThreshold)
	v.SetDefault("adapters.breaker_open_duration", cfg.Adapters.BreakerOpenDuration)

	v.SetDefault("otp.ttl", cfg.OTP.TTL)
	v.SetDefault("otp.max_attempts", cfg.OTP.MaxAttempts)
	v.SetDefault("otp.resend_cooldown", cfg.OTP.ResendCooldown)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}
