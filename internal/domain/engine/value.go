package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// valuation computes a rule's raw discount against the planned lines.
type valuation struct {
	plan    *allocationPlan
	weights []domain.Money
	base    domain.Money
	label   string
	amount  domain.Money
	formula string
}

func (v *valuation) useOriginal() {
	v.weights = v.plan.original
	v.base = sum(v.weights)
	v.label = "items"
}

func (v *valuation) useCurrent() {
	v.weights = v.plan.current
	v.base = sum(v.weights)
	v.label = "current amount"
}

func (v *valuation) percentage(pct float64) {
	v.amount = percentOf(v.base, pct)
	v.formula = fmt.Sprintf("%s of %s %s = %s", formatPercent(pct), v.label, formatMoney(v.base), formatMoney(v.amount))
}

func (v *valuation) fixed(kind string, value domain.Money) {
	v.amount = min(value, v.base)
	v.formula = fmt.Sprintf("%s %s against %s %s = %s", kind, formatMoney(value), v.label, formatMoney(v.base), formatMoney(v.amount))
}

func (v *valuation) value(vt domain.ValueType, pct *float64, fixed *domain.Money) error {
	switch vt {
	case domain.ValuePercentage:
		v.percentage(*pct)
	case domain.ValueFixedAmount:
		v.fixed("fixed", *fixed)
	default:
		return fmt.Errorf("%w: value type %q", domain.ErrInvalidConfigValue, vt)
	}
	return nil
}

func (v *valuation) VisitPromotion(domain.PromotionConfig) error {
	return fmt.Errorf("%w: promotions are not stackable", domain.ErrRuleExecutionFailed)
}

func (v *valuation) VisitCoupon(c domain.CouponConfig) error {
	v.useOriginal()
	return v.value(c.ValueType, c.Percentage, c.FixedAmount)
}

func (v *valuation) VisitTelecom(c domain.TelecomConfig) error {
	v.useOriginal()
	switch c.ValueType {
	case domain.ValuePercentage:
		v.percentage(*c.Percentage)
	case domain.ValueTiered:
		tiers := v.base / *c.TierUnit
		v.amount = tiers * *c.TierAmount
		v.formula = fmt.Sprintf("floor(%s / %s) x %s = %s", formatMoney(v.base), formatMoney(*c.TierUnit), formatMoney(*c.TierAmount), formatMoney(v.amount))
	default:
		return fmt.Errorf("%w: telecom value type %q", domain.ErrInvalidConfigValue, c.ValueType)
	}
	return nil
}

func (v *valuation) VisitPaymentEvent(c domain.PaymentEventConfig) error {
	if c.BaseAmountType == domain.BaseCurrentAmount {
		v.useCurrent()
	} else {
		v.useOriginal()
		v.label = "original amount"
	}
	return v.value(c.ValueType, c.Percentage, c.FixedAmount)
}

func (v *valuation) VisitVoucher(c domain.VoucherConfig) error {
	v.useOriginal()
	v.fixed("voucher", *c.Amount)
	return nil
}

func (v *valuation) VisitPaymentInstant(c domain.PaymentInstantConfig) error {
	v.useOriginal()
	v.percentage(*c.Percentage)
	return nil
}

func (v *valuation) VisitPaymentCompound(c domain.PaymentCompoundConfig) error {
	v.useCurrent()
	v.percentage(*c.Percentage)
	return nil
}

func (v *valuation) VisitEvent(c domain.EventConfig) error {
	v.useOriginal()
	return v.value(c.ValueType, c.Percentage, c.FixedAmount)
}

// percentOf rounds base*pct/100 half-up to a whole unit.
func percentOf(base domain.Money, pct float64) domain.Money {
	if base <= 0 || pct <= 0 {
		return 0
	}
	return decimal.NewFromInt(base).
		Mul(decimal.NewFromFloat(pct)).
		Div(hundred).
		Round(0).
		IntPart()
}

func sum(values []domain.Money) domain.Money {
	var total domain.Money
	for _, v := range values {
		total += v
	}
	return total
}

// prorate returns the part of v attributable to n of qty units.
func prorate(v domain.Money, n, qty int) domain.Money {
	if n == qty {
		return v
	}
	return decimal.NewFromInt(v).
		Mul(decimal.NewFromInt(int64(n))).
		Div(decimal.NewFromInt(int64(qty))).
		Truncate(0).
		IntPart()
}

// allocateByWeight splits amount proportionally to weights, handing the
// rounding remainder to the largest fractional parts first. Products are
// computed in decimal so amount*weight may exceed int64.
func allocateByWeight(amount domain.Money, weights []domain.Money) []domain.Money {
	allocations := make([]domain.Money, len(weights))
	if len(weights) == 0 || amount == 0 {
		return allocations
	}
	totalWeight := domain.Money(0)
	for _, w := range weights {
		if w > 0 {
			totalWeight += w
		}
	}
	if totalWeight == 0 {
		base := amount / domain.Money(len(weights))
		remainder := amount % domain.Money(len(weights))
		for i := range weights {
			allocations[i] = base
			if remainder > 0 {
				allocations[i]++
				remainder--
			}
		}
		return allocations
	}

	type remainderPair struct {
		idx       int
		remainder decimal.Decimal
	}
	total := decimal.NewFromInt(totalWeight)
	amt := decimal.NewFromInt(amount)
	pairs := make([]remainderPair, len(weights))
	distributed := domain.Money(0)
	for i, w := range weights {
		if w < 0 {
			w = 0
		}
		q, r := amt.Mul(decimal.NewFromInt(w)).QuoRem(total, 0)
		share := q.IntPart()
		allocations[i] = share
		distributed += share
		pairs[i] = remainderPair{idx: i, remainder: r}
	}

	remainder := amount - distributed
	if remainder <= 0 {
		return allocations
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].remainder.GreaterThan(pairs[j].remainder)
	})
	for _, p := range pairs {
		if remainder == 0 {
			break
		}
		allocations[p.idx]++
		remainder--
	}
	return allocations
}
