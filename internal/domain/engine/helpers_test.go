package engine

import (
	"context"
	"time"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func rule(id string, cfg domain.DiscountConfig) domain.DiscountRule {
	return domain.DiscountRule{
		ID:        id,
		Name:      id + " name",
		Config:    domain.Config{DiscountConfig: cfg},
		ValidFrom: testNow.AddDate(0, -1, 0),
		ValidTo:   testNow.AddDate(0, 1, 0),
		IsActive:  true,
	}
}

func line(barcode string, price domain.Money, qty int, categories ...string) domain.CartLine {
	return domain.CartLine{
		ProductBarcode:    barcode,
		ProductName:       "product " + barcode,
		ProductCategories: categories,
		UnitPrice:         price,
		Quantity:          qty,
	}
}

func percentCoupon(pct float64) domain.CouponConfig {
	return domain.CouponConfig{ValueType: domain.ValuePercentage, Percentage: ptr(pct)}
}

func fixedEvent(amount domain.Money) domain.EventConfig {
	return domain.EventConfig{ValueType: domain.ValueFixedAmount, FixedAmount: ptr(amount)}
}

func calculate(lines []domain.CartLine, rules []domain.DiscountRule, selected ...string) domain.CalculationResult {
	return New(nil).Calculate(context.Background(), domain.CalculationRequest{
		Lines:           lines,
		SelectedRuleIDs: selected,
		Now:             testNow,
	}, rules)
}

type stubEvaluator struct {
	result bool
	err    error
	facts  map[string]any
}

func (s *stubEvaluator) Evaluate(_ context.Context, _ map[string]any, facts map[string]any) (bool, error) {
	s.facts = facts
	return s.result, s.err
}
