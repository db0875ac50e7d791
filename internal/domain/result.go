package domain

import "encoding/json"

// AppliedItem is one line's share of a calculation step.
type AppliedItem struct {
	ProductName    string `json:"productName"`
	Price          Money  `json:"price"`
	Quantity       int    `json:"quantity"`
	DiscountAmount Money  `json:"discountAmount"`
}

// CalculationStep is the resolved effect of one selected rule.
type CalculationStep struct {
	DiscountID         string        `json:"discountId"`
	Name               string        `json:"name"`
	Category           Category      `json:"category"`
	Amount             Money         `json:"amount"`
	CalculationDetails string        `json:"calculationDetails"`
	AfterAmount        Money         `json:"afterAmount"`
	AppliedItems       []AppliedItem `json:"appliedItems,omitempty"`
}

// LinePromotion is the promotion outcome for one cart line.
type LinePromotion struct {
	ProductBarcode      string `json:"productBarcode"`
	ProductName         string `json:"productName,omitempty"`
	UnitPrice           Money  `json:"unitPrice"`
	Quantity            int    `json:"quantity"`
	OriginalPrice       Money  `json:"originalPrice"`
	RuleID              string `json:"ruleId,omitempty"`
	RuleName            string `json:"ruleName,omitempty"`
	FreeUnits           int    `json:"freeUnits"`
	PromotionDiscount   Money  `json:"promotionDiscount"`
	PriceAfterPromotion Money  `json:"priceAfterPromotion"`
}

// CrossPair records a combo promotion granting gifts on another line.
type CrossPair struct {
	RuleID       string `json:"ruleId"`
	BuyBarcode   string `json:"buyBarcode"`
	GiftBarcode  string `json:"giftBarcode"`
	FreeGifts    int    `json:"freeGifts"`
	GiftDiscount Money  `json:"giftDiscount"`
}

type CalculationData struct {
	TotalOriginalPrice     Money             `json:"totalOriginalPrice"`
	TotalPromotionDiscount Money             `json:"totalPromotionDiscount"`
	TotalFinalPrice        Money             `json:"totalFinalPrice"`
	TotalDiscount          Money             `json:"totalDiscount"`
	TotalDiscountRate      float64           `json:"totalDiscountRate"`
	DiscountSteps          []CalculationStep `json:"discountSteps"`
	Promotions             []LinePromotion   `json:"promotions"`
	CrossPairs             []CrossPair       `json:"crossPairs,omitempty"`
	UsageConsumed          map[string]int    `json:"usageConsumed,omitempty"`
	FinalPriceClamped      bool              `json:"finalPriceClamped,omitempty"`
}

// CalculationResult is the envelope returned for every calculation.
type CalculationResult struct {
	Success  bool             `json:"success"`
	Data     *CalculationData `json:"data,omitempty"`
	Error    string           `json:"error,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Failure builds an unsuccessful result.
func Failure(err error, warnings []string) CalculationResult {
	return CalculationResult{Success: false, Error: err.Error(), Warnings: warnings}
}

// Recalculation is the outcome of re-pricing a patched request.
type Recalculation struct {
	Request     CalculationRequest `json:"request"`
	Result      CalculationResult  `json:"result"`
	ServerDelta bool               `json:"serverDelta"`
	Delta       json.RawMessage    `json:"delta"`
}
