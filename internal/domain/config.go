package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Category tags the variant carried by a rule config.
type Category string

const (
	CategoryPromotion       Category = "promotion"
	CategoryCoupon          Category = "coupon"
	CategoryTelecom         Category = "telecom"
	CategoryPaymentEvent    Category = "payment_event"
	CategoryVoucher         Category = "voucher"
	CategoryPaymentInstant  Category = "payment_instant"
	CategoryPaymentCompound Category = "payment_compound"
	CategoryEvent           Category = "event"
)

type ValueType string

const (
	ValuePercentage  ValueType = "percentage"
	ValueFixedAmount ValueType = "fixed_amount"
	ValueTiered      ValueType = "tiered"
)

type GiftSelectionType string

const (
	GiftSame  GiftSelectionType = "same"
	GiftCross GiftSelectionType = "cross"
	GiftCombo GiftSelectionType = "combo"
)

type BaseAmountType string

const (
	BaseOriginalAmount BaseAmountType = "original_amount"
	BaseCurrentAmount  BaseAmountType = "current_amount"
)

type ItemSelectionMethod string

const (
	SelectHighestPrice  ItemSelectionMethod = "highest_price"
	SelectMostExpensive ItemSelectionMethod = "most_expensive"
	SelectCheapest      ItemSelectionMethod = "cheapest"
	SelectFirstCome     ItemSelectionMethod = "first_come"
)

// DiscountConfig is the closed set of per-category rule settings. Every
// implementation lives in this package and routes itself through
// ConfigVisitor, so a new category fails to compile until each visitor
// handles it.
type DiscountConfig interface {
	Category() Category
	Validate() error
	Accept(v ConfigVisitor) error
	sealed()
}

// ConfigVisitor handles each config variant.
type ConfigVisitor interface {
	VisitPromotion(PromotionConfig) error
	VisitCoupon(CouponConfig) error
	VisitTelecom(TelecomConfig) error
	VisitPaymentEvent(PaymentEventConfig) error
	VisitVoucher(VoucherConfig) error
	VisitPaymentInstant(PaymentInstantConfig) error
	VisitPaymentCompound(PaymentCompoundConfig) error
	VisitEvent(EventConfig) error
}

type PromotionConfig struct {
	BuyQuantity       int               `json:"buyQuantity"`
	GetQuantity       int               `json:"getQuantity"`
	GiftSelectionType GiftSelectionType `json:"giftSelectionType"`
	GiftProducts      []string          `json:"giftProducts,omitempty"`
}

type CouponConfig struct {
	ValueType           ValueType           `json:"valueType"`
	Percentage          *float64            `json:"percentage,omitempty"`
	FixedAmount         *Money              `json:"fixedAmount,omitempty"`
	IsSubscription      bool                `json:"isSubscription,omitempty"`
	DailyUsageLimit     *int                `json:"dailyUsageLimit,omitempty"`
	ItemLimitPerDay     *int                `json:"itemLimitPerDay,omitempty"`
	TotalItemLimit      *int                `json:"totalItemLimit,omitempty"`
	ItemSelectionMethod ItemSelectionMethod `json:"itemSelectionMethod,omitempty"`
}

// ItemCapped reports whether the coupon discounts a limited number of units.
func (c CouponConfig) ItemCapped() bool {
	return c.ItemLimitPerDay != nil || c.TotalItemLimit != nil
}

type TelecomConfig struct {
	ValueType  ValueType `json:"valueType"`
	Percentage *float64  `json:"percentage,omitempty"`
	TierUnit   *Money    `json:"tierUnit,omitempty"`
	TierAmount *Money    `json:"tierAmount,omitempty"`
}

type PaymentEventConfig struct {
	ValueType      ValueType      `json:"valueType"`
	Percentage     *float64       `json:"percentage,omitempty"`
	FixedAmount    *Money         `json:"fixedAmount,omitempty"`
	BaseAmountType BaseAmountType `json:"baseAmountType"`
	RequiresQR     bool           `json:"requiresQR,omitempty"`
}

type VoucherConfig struct {
	Amount *Money `json:"amount"`
}

type PaymentInstantConfig struct {
	Percentage *float64 `json:"percentage"`
}

type PaymentCompoundConfig struct {
	Percentage *float64 `json:"percentage"`
}

type EventConfig struct {
	ValueType   ValueType `json:"valueType"`
	Percentage  *float64  `json:"percentage,omitempty"`
	FixedAmount *Money    `json:"fixedAmount,omitempty"`
}

func (PromotionConfig) Category() Category       { return CategoryPromotion }
func (CouponConfig) Category() Category          { return CategoryCoupon }
func (TelecomConfig) Category() Category         { return CategoryTelecom }
func (PaymentEventConfig) Category() Category    { return CategoryPaymentEvent }
func (VoucherConfig) Category() Category         { return CategoryVoucher }
func (PaymentInstantConfig) Category() Category  { return CategoryPaymentInstant }
func (PaymentCompoundConfig) Category() Category { return CategoryPaymentCompound }
func (EventConfig) Category() Category           { return CategoryEvent }

func (c PromotionConfig) Accept(v ConfigVisitor) error       { return v.VisitPromotion(c) }
func (c CouponConfig) Accept(v ConfigVisitor) error          { return v.VisitCoupon(c) }
func (c TelecomConfig) Accept(v ConfigVisitor) error         { return v.VisitTelecom(c) }
func (c PaymentEventConfig) Accept(v ConfigVisitor) error    { return v.VisitPaymentEvent(c) }
func (c VoucherConfig) Accept(v ConfigVisitor) error         { return v.VisitVoucher(c) }
func (c PaymentInstantConfig) Accept(v ConfigVisitor) error  { return v.VisitPaymentInstant(c) }
func (c PaymentCompoundConfig) Accept(v ConfigVisitor) error { return v.VisitPaymentCompound(c) }
func (c EventConfig) Accept(v ConfigVisitor) error           { return v.VisitEvent(c) }

func (PromotionConfig) sealed()       {}
func (CouponConfig) sealed()          {}
func (TelecomConfig) sealed()         {}
func (PaymentEventConfig) sealed()    {}
func (VoucherConfig) sealed()         {}
func (PaymentInstantConfig) sealed()  {}
func (PaymentCompoundConfig) sealed() {}
func (EventConfig) sealed()           {}

func (c PromotionConfig) Validate() error {
	if c.BuyQuantity <= 0 {
		return fmt.Errorf("%w: promotion buyQuantity must be positive", ErrInvalidConfigValue)
	}
	if c.GetQuantity <= 0 {
		return fmt.Errorf("%w: promotion getQuantity must be positive", ErrInvalidConfigValue)
	}
	switch c.GiftSelectionType {
	case GiftSame, GiftCross:
	case GiftCombo:
		if len(c.GiftProducts) == 0 {
			return fmt.Errorf("%w: combo promotion giftProducts", ErrMissingConfigField)
		}
	default:
		return fmt.Errorf("%w: giftSelectionType %q", ErrInvalidConfigValue, c.GiftSelectionType)
	}
	return nil
}

func (c CouponConfig) Validate() error {
	if err := validateValue(CategoryCoupon, c.ValueType, c.Percentage, c.FixedAmount); err != nil {
		return err
	}
	limits := []struct {
		name  string
		value *int
	}{
		{"dailyUsageLimit", c.DailyUsageLimit},
		{"itemLimitPerDay", c.ItemLimitPerDay},
		{"totalItemLimit", c.TotalItemLimit},
	}
	for _, l := range limits {
		if l.value != nil && *l.value < 0 {
			return fmt.Errorf("%w: coupon %s cannot be negative", ErrInvalidConfigValue, l.name)
		}
	}
	switch c.ItemSelectionMethod {
	case "", SelectHighestPrice, SelectMostExpensive, SelectCheapest, SelectFirstCome:
		return nil
	default:
		return fmt.Errorf("%w: itemSelectionMethod %q", ErrInvalidConfigValue, c.ItemSelectionMethod)
	}
}

func (c TelecomConfig) Validate() error {
	switch c.ValueType {
	case ValuePercentage:
		return validatePercentage(CategoryTelecom, c.Percentage)
	case ValueTiered:
		if c.TierUnit == nil || c.TierAmount == nil {
			return fmt.Errorf("%w: telecom tiered requires tierUnit and tierAmount", ErrMissingConfigField)
		}
		if *c.TierUnit <= 0 || *c.TierAmount < 0 {
			return fmt.Errorf("%w: telecom tier values", ErrInvalidConfigValue)
		}
		return nil
	default:
		return fmt.Errorf("%w: telecom valueType %q", ErrInvalidConfigValue, c.ValueType)
	}
}

func (c PaymentEventConfig) Validate() error {
	if err := validateValue(CategoryPaymentEvent, c.ValueType, c.Percentage, c.FixedAmount); err != nil {
		return err
	}
	switch c.BaseAmountType {
	case BaseOriginalAmount, BaseCurrentAmount:
		return nil
	case "":
		return fmt.Errorf("%w: payment_event baseAmountType", ErrMissingConfigField)
	default:
		return fmt.Errorf("%w: baseAmountType %q", ErrInvalidConfigValue, c.BaseAmountType)
	}
}

func (c VoucherConfig) Validate() error {
	if c.Amount == nil {
		return fmt.Errorf("%w: voucher amount", ErrMissingConfigField)
	}
	if *c.Amount < 0 {
		return fmt.Errorf("%w: voucher amount cannot be negative", ErrInvalidConfigValue)
	}
	return nil
}

func (c PaymentInstantConfig) Validate() error {
	return validatePercentage(CategoryPaymentInstant, c.Percentage)
}

func (c PaymentCompoundConfig) Validate() error {
	return validatePercentage(CategoryPaymentCompound, c.Percentage)
}

func (c EventConfig) Validate() error {
	return validateValue(CategoryEvent, c.ValueType, c.Percentage, c.FixedAmount)
}

func validateValue(cat Category, vt ValueType, pct *float64, fixed *Money) error {
	switch vt {
	case ValuePercentage:
		return validatePercentage(cat, pct)
	case ValueFixedAmount:
		if fixed == nil {
			return fmt.Errorf("%w: %s fixedAmount", ErrMissingConfigField, cat)
		}
		if *fixed < 0 {
			return fmt.Errorf("%w: %s fixedAmount cannot be negative", ErrInvalidConfigValue, cat)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s valueType %q", ErrInvalidConfigValue, cat, vt)
	}
}

func validatePercentage(cat Category, pct *float64) error {
	if pct == nil {
		return fmt.Errorf("%w: %s percentage", ErrMissingConfigField, cat)
	}
	if *pct < 0 || *pct > 100 {
		return fmt.Errorf("%w: %s percentage %v", ErrInvalidConfigValue, cat, *pct)
	}
	return nil
}

// unknownConfig keeps an unrecognised tag so the calculation, not the
// decoder, reports it.
type unknownConfig struct {
	tag Category
	raw json.RawMessage
}

func (u unknownConfig) Category() Category { return u.tag }
func (u unknownConfig) Validate() error {
	return fmt.Errorf("%w: %q", ErrUnknownCategory, u.tag)
}
func (u unknownConfig) Accept(ConfigVisitor) error { return u.Validate() }
func (unknownConfig) sealed()                      {}

// Config is the JSON envelope of a DiscountConfig: the variant fields plus a
// "category" discriminator.
type Config struct {
	DiscountConfig
}

// Category returns the tag of the wrapped config, or "" when absent.
func (c Config) Category() Category {
	if c.DiscountConfig == nil {
		return ""
	}
	return c.DiscountConfig.Category()
}

// Validate reports structural problems of the wrapped config.
func (c Config) Validate() error {
	if c.DiscountConfig == nil {
		return ErrMissingConfig
	}
	return c.DiscountConfig.Validate()
}

func (c Config) MarshalJSON() ([]byte, error) {
	if c.DiscountConfig == nil {
		return []byte("null"), nil
	}
	if u, ok := c.DiscountConfig.(unknownConfig); ok {
		if len(u.raw) > 0 {
			return u.raw, nil
		}
		return json.Marshal(map[string]Category{"category": u.tag})
	}
	raw, err := json.Marshal(c.DiscountConfig)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["category"] = c.DiscountConfig.Category()
	return json.Marshal(fields)
}

func (c *Config) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		c.DiscountConfig = nil
		return nil
	}
	var envelope struct {
		Category Category `json:"category"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	var (
		cfg DiscountConfig
		err error
	)
	switch envelope.Category {
	case CategoryPromotion:
		cfg, err = decodeAs[PromotionConfig](data)
	case CategoryCoupon:
		cfg, err = decodeAs[CouponConfig](data)
	case CategoryTelecom:
		cfg, err = decodeAs[TelecomConfig](data)
	case CategoryPaymentEvent:
		cfg, err = decodeAs[PaymentEventConfig](data)
	case CategoryVoucher:
		cfg, err = decodeAs[VoucherConfig](data)
	case CategoryPaymentInstant:
		cfg, err = decodeAs[PaymentInstantConfig](data)
	case CategoryPaymentCompound:
		cfg, err = decodeAs[PaymentCompoundConfig](data)
	case CategoryEvent:
		cfg, err = decodeAs[EventConfig](data)
	default:
		cfg = unknownConfig{tag: envelope.Category, raw: slices.Clone(json.RawMessage(data))}
	}
	if err != nil {
		return fmt.Errorf("decode %s config: %w", envelope.Category, err)
	}
	c.DiscountConfig = cfg
	return nil
}

func decodeAs[T DiscountConfig](data []byte) (DiscountConfig, error) {
	var cfg T
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
