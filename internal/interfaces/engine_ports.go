package interfaces

import (
	"context"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
	"github.com/Victor-armando18/pricing-assistant/internal/usecase/runengine"
)

// RulePackLoader loads versioned rule catalogs (from disk, network, etc.).
type RulePackLoader interface {
	Load(ctx context.Context, version string) (*domain.RulePackDefinition, error)
}

// Recalculator re-prices a request after an RFC 6902 patch and reports the
// change between the two results. prepare runs on the patched request before
// it is priced.
type Recalculator interface {
	Run(ctx context.Context, previous domain.CalculationRequest, patch []byte, rules []domain.DiscountRule, prepare runengine.Preparer) (*domain.Recalculation, error)
}

// PricingFacade is the entry point exposed to transports.
type PricingFacade interface {
	Calculate(ctx context.Context, req domain.CalculationRequest) (domain.CalculationResult, error)
	Recalculate(ctx context.Context, previous domain.CalculationRequest, patch []byte) (*domain.Recalculation, error)
	SuggestOrder(ctx context.Context, version string, ids []string) ([]string, error)
	Rules(ctx context.Context, version string) (*domain.RulePackDefinition, error)
}
