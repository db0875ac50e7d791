package engine

import (
	"slices"
	"sort"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// SuggestOrder sorts rule ids by ascending catalog priority, keeping the
// input order for ties. Unknown ids go last. Calculate never reorders on
// its own; this is a default offered to the caller.
func SuggestOrder(rules []domain.DiscountRule, ids []string) []string {
	idx := domain.RuleByID(rules)
	out := slices.Clone(ids)
	sort.SliceStable(out, func(a, b int) bool {
		ra, okA := idx[out[a]]
		rb, okB := idx[out[b]]
		switch {
		case okA && okB:
			return ra.Priority < rb.Priority
		default:
			return okA && !okB
		}
	})
	return out
}
