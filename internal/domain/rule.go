package domain

import (
	"slices"
	"strings"
	"time"
)

// PaymentMethodRequirement restricts a payment method to card issuers and,
// optionally, card types.
type PaymentMethodRequirement struct {
	Method           string   `json:"method"`
	AllowedIssuers   []string `json:"allowedIssuers,omitempty"`
	AllowedCardTypes []string `json:"allowedCardTypes,omitempty"`
}

// PaymentException names a (method, issuer, type) tuple. Empty fields match
// anything.
type PaymentException struct {
	Method     string `json:"method"`
	CardIssuer string `json:"cardIssuer,omitempty"`
	CardType   string `json:"cardType,omitempty"`
}

// Matches reports whether the payment context falls under the exception.
func (e PaymentException) Matches(p *PaymentContext) bool {
	if p == nil {
		return false
	}
	return fieldMatches(e.Method, p.Method) &&
		fieldMatches(e.CardIssuer, p.CardIssuer) &&
		fieldMatches(e.CardType, p.CardType)
}

func fieldMatches(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

// DiscountRule is a catalog entry: a promotion or a stackable discount.
type DiscountRule struct {
	ID                          string                     `json:"id"`
	Name                        string                     `json:"name"`
	Config                      Config                     `json:"config"`
	ApplicableProducts          []string                   `json:"applicableProducts,omitempty"`
	ApplicableCategories        []string                   `json:"applicableCategories,omitempty"`
	ApplicableBrands            []string                   `json:"applicableBrands,omitempty"`
	RequiredPaymentMethods      []string                   `json:"requiredPaymentMethods,omitempty"`
	PaymentMethodRequirements   []PaymentMethodRequirement `json:"paymentMethodRequirements,omitempty"`
	AllowedExceptions           []PaymentException         `json:"allowedExceptions,omitempty"`
	BlockedExceptions           []PaymentException         `json:"blockedExceptions,omitempty"`
	CannotCombineWithCategories []Category                 `json:"cannotCombineWithCategories,omitempty"`
	CannotCombineWithIDs        []string                   `json:"cannotCombineWithIds,omitempty"`
	RequiresDiscountID          string                     `json:"requiresDiscountId,omitempty"`
	// MinPurchaseAmount is compared with the running cart subtotal, after
	// promotions and any earlier steps.
	MinPurchaseAmount           *Money                     `json:"minPurchaseAmount,omitempty"`
	// MinQuantity is compared with the unit count of the whole cart, not only
	// the lines the rule targets.
	MinQuantity                 *int                       `json:"minQuantity,omitempty"`
	MaxDiscountAmount           *Money                     `json:"maxDiscountAmount,omitempty"`
	MaxDiscountPerItem          *Money                     `json:"maxDiscountPerItem,omitempty"`
	DailyUsageLimit             *int                       `json:"dailyUsageLimit,omitempty"`
	TotalUsageLimit             *int                       `json:"totalUsageLimit,omitempty"`
	ValidFrom                   time.Time                  `json:"validFrom"`
	ValidTo                     time.Time                  `json:"validTo"`
	Priority                    int                        `json:"priority"`
	IsActive                    bool                       `json:"isActive"`
	Condition                   map[string]any             `json:"condition,omitempty"`
}

// Category is a shortcut for the config tag.
func (r DiscountRule) Category() Category {
	return r.Config.Category()
}

// ValidAt reports whether now falls inside the validity window. A zero bound
// leaves that side open.
func (r DiscountRule) ValidAt(now time.Time) bool {
	if !r.ValidFrom.IsZero() && now.Before(r.ValidFrom) {
		return false
	}
	if !r.ValidTo.IsZero() && now.After(r.ValidTo) {
		return false
	}
	return true
}

// ActiveAt combines the active flag with the validity window.
func (r DiscountRule) ActiveAt(now time.Time) bool {
	return r.IsActive && r.ValidAt(now)
}

// Scoped reports whether the rule targets a subset of products.
func (r DiscountRule) Scoped() bool {
	return len(r.ApplicableProducts) > 0 || len(r.ApplicableCategories) > 0 || len(r.ApplicableBrands) > 0
}

// AppliesTo matches a line by explicit barcode, else by any of its
// categories, else by brand. An unscoped rule applies to every line.
func (r DiscountRule) AppliesTo(line CartLine) bool {
	switch {
	case len(r.ApplicableProducts) > 0:
		return slices.Contains(r.ApplicableProducts, line.ProductBarcode)
	case len(r.ApplicableCategories) > 0:
		for _, c := range r.ApplicableCategories {
			if line.hasCategory(c) {
				return true
			}
		}
		return false
	case len(r.ApplicableBrands) > 0:
		for _, b := range r.ApplicableBrands {
			if line.ProductBrand != "" && strings.EqualFold(b, line.ProductBrand) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// ExcludesRule reports whether r refuses to stack with other.
func (r DiscountRule) ExcludesRule(other DiscountRule) bool {
	return slices.Contains(r.CannotCombineWithIDs, other.ID) ||
		slices.Contains(r.CannotCombineWithCategories, other.Category())
}

// RuleByID indexes rules by id; the first occurrence wins.
func RuleByID(rules []DiscountRule) map[string]*DiscountRule {
	idx := make(map[string]*DiscountRule, len(rules))
	for i := range rules {
		if _, ok := idx[rules[i].ID]; !ok {
			idx[rules[i].ID] = &rules[i]
		}
	}
	return idx
}
