package yaml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

const pack = `
version: v1
rules:
  - id: P21
    name: Cola 2+1
    isActive: true
    validFrom: "2026-01-01T00:00:00Z"
    validTo: "2026-12-31T23:59:59Z"
    applicableProducts: ["880001"]
    config:
      category: promotion
      buyQuantity: 2
      getQuantity: 1
      giftSelectionType: same
  - id: CARD5
    name: Card 5%
    isActive: true
    priority: 1
    requiredPaymentMethods: [card]
    condition:
      ">=":
        - var: cart.subtotal
        - 10000
    config:
      category: payment_instant
      percentage: 5
`

func TestDecodeRulePack(t *testing.T) {
	def, err := DecodeRulePack([]byte(pack))
	require.NoError(t, err)

	assert.Equal(t, "v1", def.Version)
	require.Len(t, def.Rules, 2)

	promo := def.Rules[0]
	assert.Equal(t, domain.CategoryPromotion, promo.Category())
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), promo.ValidFrom.UTC())
	assert.Equal(t, domain.PromotionConfig{BuyQuantity: 2, GetQuantity: 1, GiftSelectionType: domain.GiftSame}, promo.Config.DiscountConfig)

	card := def.Rules[1]
	assert.Equal(t, 1, card.Priority)
	assert.Equal(t, []string{"card"}, card.RequiredPaymentMethods)
	assert.Contains(t, card.Condition, ">=")
	assert.NoError(t, card.Config.Validate())
}

func TestDecodeRulePack_Invalid(t *testing.T) {
	_, err := DecodeRulePack([]byte("rules: [unclosed"))
	assert.Error(t, err)
}
