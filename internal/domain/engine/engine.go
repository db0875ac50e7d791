package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// Engine runs the pricing pipeline: promotions, discount stacking, totals.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	stacker *Stacker
}

func New(conditions ConditionEvaluator) *Engine {
	return &Engine{stacker: NewStacker(conditions)}
}

// Calculate prices one snapshot. Structural problems come back as an
// unsuccessful result; it never returns a partial trace.
func (e *Engine) Calculate(ctx context.Context, req domain.CalculationRequest, rules []domain.DiscountRule) domain.CalculationResult {
	if err := validateLines(req.Lines); err != nil {
		return domain.Failure(err, nil)
	}

	promo := ApplyPromotions(req.Lines, rules, req.Now)

	stack, err := e.stacker.Apply(ctx, StackInput{
		Lines:           req.Lines,
		Promotions:      promo,
		SelectedRuleIDs: req.SelectedRuleIDs,
		Rules:           rules,
		Payment:         req.Payment,
		UsageOverrides:  req.UsageOverrides,
		Now:             req.Now,
	})
	if err != nil {
		warnings := append([]string(nil), promo.Warnings...)
		return domain.Failure(fmt.Errorf("%s: %w", Stacking, err), warnings)
	}

	return Aggregate(req.Lines, promo, stack)
}

func validateLines(lines []domain.CartLine) error {
	var total domain.Money
	for i, l := range lines {
		if l.ProductBarcode == "" {
			return fmt.Errorf("%w: line %d has no barcode", domain.ErrInvalidInput, i)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: line %s quantity must be positive", domain.ErrInvalidInput, l.ProductBarcode)
		}
		if l.UnitPrice < 0 {
			return fmt.Errorf("%w: line %s unit price cannot be negative", domain.ErrInvalidInput, l.ProductBarcode)
		}
		if l.UnitPrice > 0 && l.UnitPrice > math.MaxInt64/domain.Money(l.Quantity) {
			return fmt.Errorf("%w: line %s subtotal overflow", domain.ErrInvalidInput, l.ProductBarcode)
		}
		sub := l.Subtotal()
		if total > math.MaxInt64-sub {
			return fmt.Errorf("%w: cart subtotal overflow", domain.ErrInvalidInput)
		}
		total += sub
	}
	return nil
}
