package engine

import (
	"fmt"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// Aggregate folds the promotion and stacking outcomes into totals.
func Aggregate(lines []domain.CartLine, promo PromotionOutcome, stack StackOutcome) domain.CalculationResult {
	original := domain.TotalPrice(lines)
	promoTotal := promo.TotalDiscount()

	var stepTotal domain.Money
	for _, s := range stack.Steps {
		stepTotal += s.Amount
	}

	warnings := make([]string, 0, len(promo.Warnings)+len(stack.Warnings)+1)
	warnings = append(warnings, promo.Warnings...)
	warnings = append(warnings, stack.Warnings...)

	discount := promoTotal + stepTotal
	final := original - discount
	clamped := false
	if final < 0 {
		warnings = append(warnings, fmt.Sprintf("%s: final price %s is negative; clamped to 0", Totals, formatMoney(final)))
		final = 0
		clamped = true
	}

	rate := 0.0
	if original > 0 {
		rate = float64(discount) / float64(original)
	}

	steps := stack.Steps
	if steps == nil {
		steps = []domain.CalculationStep{}
	}
	promotions := promo.Lines
	if promotions == nil {
		promotions = []domain.LinePromotion{}
	}
	if len(warnings) == 0 {
		warnings = nil
	}

	return domain.CalculationResult{
		Success: true,
		Data: &domain.CalculationData{
			TotalOriginalPrice:     original,
			TotalPromotionDiscount: promoTotal,
			TotalFinalPrice:        final,
			TotalDiscount:          discount,
			TotalDiscountRate:      rate,
			DiscountSteps:          steps,
			Promotions:             promotions,
			CrossPairs:             promo.CrossPairs,
			UsageConsumed:          stack.UsageConsumed,
			FinalPriceClamped:      clamped,
		},
		Warnings: warnings,
	}
}
