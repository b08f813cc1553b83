package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/application/evaluate"
	appstepup "github.com/jihosong-sjh/ShopFDS-sub000/internal/application/stepup"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/infrastructure/adapters"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/infrastructure/cache/redis"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/infrastructure/http/router"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/infrastructure/notify"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/infrastructure/rules"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/interfaces/http/handler"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/circuitbreaker"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/config"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	// The cache store is advisory everywhere it is used, so the service
	// starts even when Redis is down and degrades instead.
	cache := redis.Open(redis.Config{
		Addrs:        cfg.Redis.Addrs,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer cache.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable at startup, running degraded", zap.Error(err))
	}
	cancel()

	breaker := circuitbreaker.New(cfg.Adapters.BreakerThreshold, cfg.Adapters.BreakerOpenDuration)
	mlClient := adapters.NewMLClient(cfg.Adapters.MLEndpoint, cfg.Adapters.Timeout, breaker, log)
	ctiClient := adapters.NewThreatIntelClient(cfg.Adapters.ThreatIntelEndpoint, cfg.Adapters.Timeout, breaker, log)

	counter := redis.NewVelocityCounter(cache)
	blacklist := redis.NewBlacklistCache(cache, log)
	otpStore := redis.NewOtpStore(cache)

	ruleEngine := rules.NewEngine(rules.NewStaticProvider(cfg.Rules), counter, log)

	var sender notify.CodeSender
	if cfg.OTP.DeliveryURL != "" {
		sender, err = notify.NewShoutrrrSender(cfg.OTP.DeliveryURL)
		if err != nil {
			return fmt.Errorf("build code sender: %w", err)
		}
	} else {
		sender = notify.NewLogSender(log)
	}

	stepUp := appstepup.NewController(otpStore, sender, log,
		cfg.OTP.TTL, cfg.OTP.MaxAttempts, cfg.OTP.ResendCooldown)

	engine := evaluate.NewEngine(ruleEngine, mlClient, ctiClient, blacklist, stepUp, evaluate.Config{
		Aggregator:            cfg.Risk.Aggregator,
		Policy:                cfg.Risk.Policy,
		AutoEscalateThreshold: cfg.Risk.AutoEscalateThreshold,
	}, log)

	r := router.New(router.Handlers{
		Evaluate:  handler.NewEvaluateHandler(engine, log),
		StepUp:    handler.NewStepUpHandler(stepUp, log),
		Blacklist: handler.NewBlacklistHandler(blacklist, log),
		Health:    handler.NewHealthHandler(cache),
	}, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
