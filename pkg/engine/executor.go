package engine

import (
	"context"

	"github.com/Victor-armando18/pricing-assistant/internal/interfaces"
)

// Calculate prices req against rules with no catalog lookup or request
// validation. Conditions are evaluated with JsonLogic.
func Calculate(ctx context.Context, req CalculationRequest, rules []DiscountRule) CalculationResult {
	return interfaces.NewEngine().Calculate(ctx, req, rules)
}
