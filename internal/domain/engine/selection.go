package engine

import (
	"slices"
	"sort"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// selectUnits picks up to limit units among the targeted lines and returns
// the count taken from each line. Units of one line share a price, so lines
// are ordered instead of units. Ties keep cart order.
func selectUnits(lines []domain.CartLine, targets []int, method domain.ItemSelectionMethod, limit int) map[int]int {
	order := slices.Clone(targets)
	switch method {
	case domain.SelectHighestPrice, domain.SelectMostExpensive:
		sort.SliceStable(order, func(a, b int) bool { return lines[order[a]].UnitPrice > lines[order[b]].UnitPrice })
	case domain.SelectCheapest:
		sort.SliceStable(order, func(a, b int) bool { return lines[order[a]].UnitPrice < lines[order[b]].UnitPrice })
	}

	picked := make(map[int]int, len(order))
	for _, i := range order {
		if limit <= 0 {
			break
		}
		n := min(limit, lines[i].Quantity)
		picked[i] = n
		limit -= n
	}
	return picked
}
