package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// PromotionOutcome is what the promotion pass hands to discount stacking.
type PromotionOutcome struct {
	Lines      []domain.LinePromotion
	CrossPairs []domain.CrossPair
	Warnings   []string
}

// TotalDiscount sums the promotion discount of every line.
func (o PromotionOutcome) TotalDiscount() domain.Money {
	var total domain.Money
	for _, l := range o.Lines {
		total += l.PromotionDiscount
	}
	return total
}

// AppliedRuleIDs lists the promotions that actually removed money, in cart
// order.
func (o PromotionOutcome) AppliedRuleIDs() []string {
	var ids []string
	for _, l := range o.Lines {
		if l.RuleID != "" && l.PromotionDiscount > 0 && !slices.Contains(ids, l.RuleID) {
			ids = append(ids, l.RuleID)
		}
	}
	for _, p := range o.CrossPairs {
		if !slices.Contains(ids, p.RuleID) {
			ids = append(ids, p.RuleID)
		}
	}
	return ids
}

type promotionCandidate struct {
	rule     *domain.DiscountRule
	cfg      domain.PromotionConfig
	free     int
	discount domain.Money
}

// ApplyPromotions resolves buy-N-get-M offers per line and then across combo
// buy/gift pairs. Unsatisfiable promotions become warnings, never errors.
func ApplyPromotions(lines []domain.CartLine, rules []domain.DiscountRule, now time.Time) PromotionOutcome {
	out := PromotionOutcome{Lines: make([]domain.LinePromotion, len(lines))}
	promos := activePromotions(rules, now, &out.Warnings)
	selected := make([]*promotionCandidate, len(lines))

	for i, line := range lines {
		res := domain.LinePromotion{
			ProductBarcode:      line.ProductBarcode,
			ProductName:         line.ProductName,
			UnitPrice:           line.UnitPrice,
			Quantity:            line.Quantity,
			OriginalPrice:       line.Subtotal(),
			PriceAfterPromotion: line.Subtotal(),
		}

		applicable := make([]promotionCandidate, 0, len(promos))
		for _, p := range promos {
			if !p.rule.AppliesTo(line) {
				continue
			}
			// gift lines of a combo never trigger that combo
			if p.cfg.GiftSelectionType == domain.GiftCombo && slices.Contains(p.cfg.GiftProducts, line.ProductBarcode) {
				continue
			}
			p.free, p.discount = lineDiscount(p.cfg, line)
			applicable = append(applicable, p)
		}

		if len(applicable) > 1 {
			ids := make([]string, len(applicable))
			for k, c := range applicable {
				ids[k] = c.rule.ID
			}
			out.Warnings = append(out.Warnings, fmt.Sprintf("product %s matches %d promotions %v; using the largest discount", line.ProductBarcode, len(applicable), ids))
		}

		if best := bestPromotion(applicable); best != nil {
			res.RuleID = best.rule.ID
			res.RuleName = best.rule.Name
			res.FreeUnits = best.free
			res.PromotionDiscount = best.discount
			res.PriceAfterPromotion = res.OriginalPrice - best.discount
			selected[i] = best
		}
		out.Lines[i] = res
	}

	applyCombos(lines, selected, &out)
	return out
}

func activePromotions(rules []domain.DiscountRule, now time.Time, warnings *[]string) []promotionCandidate {
	var promos []promotionCandidate
	for i := range rules {
		r := &rules[i]
		if r.Category() != domain.CategoryPromotion || !r.ActiveAt(now) {
			continue
		}
		cfg, ok := r.Config.DiscountConfig.(domain.PromotionConfig)
		if !ok {
			continue
		}
		if err := cfg.Validate(); err != nil {
			*warnings = append(*warnings, fmt.Sprintf("promotion %s skipped: %v", r.ID, err))
			continue
		}
		promos = append(promos, promotionCandidate{rule: r, cfg: cfg})
	}
	return promos
}

// lineDiscount computes the same-line gift value. Combo offers are worth
// nothing here; they pay out on the gift line.
func lineDiscount(cfg domain.PromotionConfig, line domain.CartLine) (int, domain.Money) {
	if cfg.GiftSelectionType == domain.GiftCombo {
		return 0, 0
	}
	setSize := cfg.BuyQuantity + cfg.GetQuantity
	sets := line.Quantity / setSize
	free := sets * cfg.GetQuantity
	return free, domain.Money(free) * line.UnitPrice
}

// bestPromotion picks the largest discount; the earliest catalog entry wins
// ties.
func bestPromotion(candidates []promotionCandidate) *promotionCandidate {
	var best *promotionCandidate
	for i := range candidates {
		if best == nil || candidates[i].discount > best.discount {
			best = &candidates[i]
		}
	}
	return best
}

func applyCombos(lines []domain.CartLine, selected []*promotionCandidate, out *PromotionOutcome) {
	index := make(map[string]int, len(lines))
	for i, l := range lines {
		if _, ok := index[l.ProductBarcode]; !ok {
			index[l.ProductBarcode] = i
		}
	}

	resolved := map[[2]string]bool{}
	for i, c := range selected {
		if c == nil || c.cfg.GiftSelectionType != domain.GiftCombo {
			continue
		}
		buy := lines[i]
		for _, gift := range c.cfg.GiftProducts {
			j, ok := index[gift]
			if !ok || j == i {
				continue
			}
			key := [2]string{c.rule.ID, gift}
			if resolved[key] {
				continue
			}
			resolved[key] = true

			sets := buy.Quantity / c.cfg.BuyQuantity
			free := min(sets*c.cfg.GetQuantity, lines[j].Quantity)
			discount := domain.Money(free) * lines[j].UnitPrice

			target := &out.Lines[j]
			if discount > target.PriceAfterPromotion {
				discount = target.PriceAfterPromotion
			}
			if discount <= 0 {
				if free == 0 {
					out.Warnings = append(out.Warnings, fmt.Sprintf("promotion %s: %s x%d does not reach buy quantity %d for gift %s", c.rule.ID, buy.ProductBarcode, buy.Quantity, c.cfg.BuyQuantity, gift))
				} else {
					out.Warnings = append(out.Warnings, fmt.Sprintf("promotion %s: gift %s is already fully discounted", c.rule.ID, gift))
				}
				continue
			}

			out.CrossPairs = append(out.CrossPairs, domain.CrossPair{
				RuleID:       c.rule.ID,
				BuyBarcode:   buy.ProductBarcode,
				GiftBarcode:  gift,
				FreeGifts:    free,
				GiftDiscount: discount,
			})
			if target.RuleID == "" {
				target.RuleID = c.rule.ID
				target.RuleName = c.rule.Name
			}
			target.FreeUnits += free
			target.PromotionDiscount += discount
			target.PriceAfterPromotion -= discount
		}
	}
}
