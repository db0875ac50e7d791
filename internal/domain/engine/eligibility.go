package engine

import (
	"strings"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// paymentGate returns a skip reason when the payment context does not
// qualify. Blocked exceptions always win; allowed exceptions lift a failed
// method or issuer requirement.
func paymentGate(rule *domain.DiscountRule, p *domain.PaymentContext) string {
	for _, ex := range rule.BlockedExceptions {
		if ex.Matches(p) {
			return "payment blocked by exception " + describePayment(p)
		}
	}
	reason := paymentRequirement(rule, p)
	if reason == "" {
		return ""
	}
	for _, ex := range rule.AllowedExceptions {
		if ex.Matches(p) {
			return ""
		}
	}
	return reason
}

func paymentRequirement(rule *domain.DiscountRule, p *domain.PaymentContext) string {
	if len(rule.RequiredPaymentMethods) > 0 {
		if p == nil || !containsFold(rule.RequiredPaymentMethods, p.Method) {
			return "payment method " + describePayment(p) + " not accepted"
		}
	}
	for _, req := range rule.PaymentMethodRequirements {
		if p == nil || !strings.EqualFold(req.Method, p.Method) {
			continue
		}
		if len(req.AllowedIssuers) > 0 && !containsFold(req.AllowedIssuers, p.CardIssuer) {
			return "card issuer " + describePayment(p) + " not accepted"
		}
		if len(req.AllowedCardTypes) > 0 && !containsFold(req.AllowedCardTypes, p.CardType) {
			return "card type " + describePayment(p) + " not accepted"
		}
	}
	if cfg, ok := rule.Config.DiscountConfig.(domain.PaymentEventConfig); ok && cfg.RequiresQR {
		if p == nil || !p.QR {
			return "requires QR payment"
		}
	}
	return ""
}

func describePayment(p *domain.PaymentContext) string {
	if p == nil {
		return "(none)"
	}
	parts := []string{p.Method}
	if p.CardIssuer != "" {
		parts = append(parts, p.CardIssuer)
	}
	if p.CardType != "" {
		parts = append(parts, p.CardType)
	}
	return strings.Join(parts, "/")
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
