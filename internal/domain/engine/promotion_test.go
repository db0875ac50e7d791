package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

func TestApplyPromotions_SameItem(t *testing.T) {
	promo := rule("P1", domain.PromotionConfig{BuyQuantity: 1, GetQuantity: 1, GiftSelectionType: domain.GiftSame})
	lines := []domain.CartLine{line("A", 1000, 3)}

	out := ApplyPromotions(lines, []domain.DiscountRule{promo}, testNow)

	require.Len(t, out.Lines, 1)
	got := out.Lines[0]
	assert.Equal(t, "P1", got.RuleID)
	assert.Equal(t, 1, got.FreeUnits)
	assert.Equal(t, domain.Money(1000), got.PromotionDiscount)
	assert.Equal(t, domain.Money(2000), got.PriceAfterPromotion)
	assert.Empty(t, out.Warnings)
}

func TestApplyPromotions_BestRuleWins(t *testing.T) {
	twoPlusOne := rule("P21", domain.PromotionConfig{BuyQuantity: 2, GetQuantity: 1, GiftSelectionType: domain.GiftSame})
	onePlusOne := rule("P11", domain.PromotionConfig{BuyQuantity: 1, GetQuantity: 1, GiftSelectionType: domain.GiftSame})

	t.Run("largest discount is selected", func(t *testing.T) {
		out := ApplyPromotions([]domain.CartLine{line("A", 1000, 4)}, []domain.DiscountRule{twoPlusOne, onePlusOne}, testNow)
		assert.Equal(t, "P11", out.Lines[0].RuleID)
		assert.Equal(t, domain.Money(2000), out.Lines[0].PromotionDiscount)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "matches 2 promotions")
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		out := ApplyPromotions([]domain.CartLine{line("A", 1000, 3)}, []domain.DiscountRule{twoPlusOne, onePlusOne}, testNow)
		assert.Equal(t, "P21", out.Lines[0].RuleID)
		assert.Equal(t, domain.Money(1000), out.Lines[0].PromotionDiscount)
		assert.Len(t, out.Warnings, 1)
	})
}

func TestApplyPromotions_Filters(t *testing.T) {
	expired := rule("OLD", domain.PromotionConfig{BuyQuantity: 1, GetQuantity: 1, GiftSelectionType: domain.GiftSame})
	expired.ValidTo = testNow.AddDate(0, 0, -1)
	inactive := rule("OFF", domain.PromotionConfig{BuyQuantity: 1, GetQuantity: 1, GiftSelectionType: domain.GiftSame})
	inactive.IsActive = false
	wrongCategory := rule("CAT", domain.PromotionConfig{BuyQuantity: 1, GetQuantity: 1, GiftSelectionType: domain.GiftSame})
	wrongCategory.ApplicableCategories = []string{"dairy"}
	broken := rule("BAD", domain.PromotionConfig{BuyQuantity: 0, GetQuantity: 1, GiftSelectionType: domain.GiftSame})
	coupon := rule("C", percentCoupon(10))

	out := ApplyPromotions([]domain.CartLine{line("A", 1000, 2, "snack")}, []domain.DiscountRule{expired, inactive, wrongCategory, broken, coupon}, testNow)

	assert.Empty(t, out.Lines[0].RuleID)
	assert.Zero(t, out.Lines[0].PromotionDiscount)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "promotion BAD skipped")
}

func TestApplyPromotions_MatchesAnyCategory(t *testing.T) {
	promo := rule("P", domain.PromotionConfig{BuyQuantity: 1, GetQuantity: 1, GiftSelectionType: domain.GiftCross})
	promo.ApplicableCategories = []string{"beverage"}

	out := ApplyPromotions([]domain.CartLine{line("A", 1500, 2, "snack", "beverage")}, []domain.DiscountRule{promo}, testNow)

	assert.Equal(t, domain.Money(1500), out.Lines[0].PromotionDiscount)
}

func TestApplyPromotions_Combo(t *testing.T) {
	combo := rule("COMBO", domain.PromotionConfig{BuyQuantity: 1, GetQuantity: 1, GiftSelectionType: domain.GiftCombo, GiftProducts: []string{"G"}})
	combo.ApplicableProducts = []string{"B", "G"}

	t.Run("gift line is discounted", func(t *testing.T) {
		lines := []domain.CartLine{line("B", 2000, 2), line("G", 500, 1)}
		out := ApplyPromotions(lines, []domain.DiscountRule{combo}, testNow)

		require.Len(t, out.CrossPairs, 1)
		pair := out.CrossPairs[0]
		assert.Equal(t, domain.CrossPair{RuleID: "COMBO", BuyBarcode: "B", GiftBarcode: "G", FreeGifts: 1, GiftDiscount: 500}, pair)
		assert.Zero(t, out.Lines[0].PromotionDiscount)
		assert.Equal(t, domain.Money(500), out.Lines[1].PromotionDiscount)
		assert.Equal(t, domain.Money(0), out.Lines[1].PriceAfterPromotion)
		assert.Equal(t, []string{"COMBO"}, out.AppliedRuleIDs())
	})

	t.Run("free gifts are bounded by gift quantity", func(t *testing.T) {
		lines := []domain.CartLine{line("B", 2000, 5), line("G", 500, 2)}
		out := ApplyPromotions(lines, []domain.DiscountRule{combo}, testNow)

		require.Len(t, out.CrossPairs, 1)
		assert.Equal(t, 2, out.CrossPairs[0].FreeGifts)
		assert.Equal(t, domain.Money(1000), out.Lines[1].PromotionDiscount)
	})

	t.Run("insufficient buy quantity warns", func(t *testing.T) {
		needsThree := rule("COMBO3", domain.PromotionConfig{BuyQuantity: 3, GetQuantity: 1, GiftSelectionType: domain.GiftCombo, GiftProducts: []string{"G"}})
		lines := []domain.CartLine{line("B", 2000, 2), line("G", 500, 1)}
		out := ApplyPromotions(lines, []domain.DiscountRule{needsThree}, testNow)

		assert.Empty(t, out.CrossPairs)
		assert.Equal(t, domain.Money(500), out.Lines[1].PriceAfterPromotion)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "does not reach buy quantity 3")
	})

	t.Run("repeat buy lines resolve a gift once", func(t *testing.T) {
		lines := []domain.CartLine{line("B", 2000, 1), line("B", 2000, 1), line("G", 500, 2)}
		out := ApplyPromotions(lines, []domain.DiscountRule{combo}, testNow)

		require.Len(t, out.CrossPairs, 1)
		assert.Equal(t, domain.Money(500), out.Lines[2].PromotionDiscount)
	})
}
