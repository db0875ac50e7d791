package engine

import (
	"github.com/rs/zerolog"

	"github.com/Victor-armando18/pricing-assistant/internal/infrastructure"
	"github.com/Victor-armando18/pricing-assistant/internal/interfaces"
	"github.com/Victor-armando18/pricing-assistant/internal/usecase"
)

// NewFileLoader reads <version>_rules.{yaml,yml,json} catalogs from dir.
func NewFileLoader(dir string) RulePackLoader {
	return infrastructure.NewFileRuleLoader(dir)
}

// NewEngineService wires the full pricing service around loader.
func NewEngineService(loader RulePackLoader, defaultVersion string, logger zerolog.Logger) Service {
	eng := interfaces.NewEngine()
	return usecase.NewPricingService(loader, eng, interfaces.NewRecalculator(eng), defaultVersion, usecase.WithLogger(logger))
}
