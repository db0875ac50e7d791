package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Victor-armando18/pricing-assistant/internal/config"
	"github.com/Victor-armando18/pricing-assistant/internal/infrastructure"
	"github.com/Victor-armando18/pricing-assistant/internal/interfaces"
	"github.com/Victor-armando18/pricing-assistant/internal/obs"
	"github.com/Victor-armando18/pricing-assistant/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	eng := interfaces.NewEngine()
	svc := usecase.NewPricingService(
		infrastructure.NewFileRuleLoader(cfg.RulesDir),
		eng,
		interfaces.NewRecalculator(eng),
		cfg.RulesVersion,
		usecase.WithLogger(logger),
	)

	if _, err := svc.Rules(context.Background(), cfg.RulesVersion); err != nil {
		logger.Fatal().Err(err).Str("rules_dir", cfg.RulesDir).Msg("load default rule pack")
	}

	e := newServer(svc, logger, cfg.CORSAllowedOrigins)

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr()).Str("rules_version", cfg.RulesVersion).Msg("server_starting")
		if err := e.Start(cfg.HTTPAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server_failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server_shutdown")
	}
}
