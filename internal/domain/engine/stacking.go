package engine

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
	"github.com/Victor-armando18/pricing-assistant/internal/domain/model"
)

// StackInput is the promotion-adjusted snapshot fed to discount stacking.
type StackInput struct {
	Lines           []domain.CartLine
	Promotions      PromotionOutcome
	SelectedRuleIDs []string
	Rules           []domain.DiscountRule
	Payment         *domain.PaymentContext
	UsageOverrides  map[string]int
	Now             time.Time
}

// StackOutcome is the ordered trace produced by discount stacking.
type StackOutcome struct {
	Steps         []domain.CalculationStep
	Warnings      []string
	UsageConsumed map[string]int
}

// Stacker applies the selected discount rules in the caller's order.
type Stacker struct {
	conditions ConditionEvaluator
}

func NewStacker(conditions ConditionEvaluator) *Stacker {
	return &Stacker{conditions: conditions}
}

type stackState struct {
	lines     []domain.CartLine
	original  []domain.Money
	current   []domain.Money
	subtotal  domain.Money
	quantity  int
	payment   *domain.PaymentContext
	overrides map[string]int
	now       time.Time

	applied  []*domain.DiscountRule
	stepIDs  map[string]bool
	steps    []domain.CalculationStep
	warnings []string
	consumed map[string]int
}

func newStackState(in StackInput) *stackState {
	original := make([]domain.Money, len(in.Lines))
	var subtotal domain.Money
	for i, l := range in.Lines {
		original[i] = l.Subtotal()
		if i < len(in.Promotions.Lines) {
			original[i] = in.Promotions.Lines[i].PriceAfterPromotion
		}
		subtotal += original[i]
	}
	return &stackState{
		lines:     in.Lines,
		original:  original,
		current:   slices.Clone(original),
		subtotal:  subtotal,
		quantity:  domain.TotalQuantity(in.Lines),
		payment:   in.Payment,
		overrides: in.UsageOverrides,
		now:       in.Now,
		stepIDs:   map[string]bool{},
		steps:     []domain.CalculationStep{},
		consumed:  map[string]int{},
	}
}

// Apply walks SelectedRuleIDs in order. Ineligible rules are skipped with a
// warning; only malformed configuration returns an error.
func (s *Stacker) Apply(ctx context.Context, in StackInput) (StackOutcome, error) {
	st := newStackState(in)
	rules := domain.RuleByID(in.Rules)

	for _, id := range in.Promotions.AppliedRuleIDs() {
		if r, ok := rules[id]; ok {
			st.applied = append(st.applied, r)
		}
	}

	seen := make(map[string]bool, len(in.SelectedRuleIDs))
	for _, id := range in.SelectedRuleIDs {
		if seen[id] {
			st.warn("rule %s selected more than once; later selection ignored", id)
			continue
		}
		seen[id] = true

		rule, ok := rules[id]
		if !ok {
			st.warn("rule %s not found in catalog", id)
			continue
		}
		if err := rule.Config.Validate(); err != nil {
			return StackOutcome{}, fmt.Errorf("rule %s: %w", id, err)
		}
		if rule.Category() == domain.CategoryPromotion {
			st.warn("rule %s is a promotion and is resolved per line", id)
			continue
		}

		reason, err := s.applyRule(ctx, st, rule)
		if err != nil {
			return StackOutcome{}, fmt.Errorf("rule %s: %w", id, err)
		}
		if reason != "" {
			st.warn("rule %s skipped: %s", id, reason)
		}
	}

	out := StackOutcome{Steps: st.steps, Warnings: st.warnings}
	if len(st.consumed) > 0 {
		out.UsageConsumed = st.consumed
	}
	return out, nil
}

// applyRule returns a non-empty reason when the rule does not apply.
func (s *Stacker) applyRule(ctx context.Context, st *stackState, rule *domain.DiscountRule) (string, error) {
	if !rule.IsActive {
		return "inactive", nil
	}
	if !rule.ValidAt(st.now) {
		return "outside validity window", nil
	}
	if rule.MinPurchaseAmount != nil && st.subtotal < *rule.MinPurchaseAmount {
		return fmt.Sprintf("subtotal %s below minimum purchase %s", formatMoney(st.subtotal), formatMoney(*rule.MinPurchaseAmount)), nil
	}
	if rule.MinQuantity != nil && st.quantity < *rule.MinQuantity {
		return fmt.Sprintf("quantity %d below minimum %d", st.quantity, *rule.MinQuantity), nil
	}
	if reason := paymentGate(rule, st.payment); reason != "" {
		return reason, nil
	}
	if reason := st.exclusionGate(rule); reason != "" {
		return reason, nil
	}
	ok, err := s.conditionHolds(ctx, st, rule)
	if err != nil {
		return "", err
	}
	if !ok {
		return "condition not met", nil
	}

	targets := st.targets(rule)
	if len(targets) == 0 {
		return "no applicable items in cart", nil
	}

	remaining, tracked := st.remainingUses(rule)
	if tracked && remaining <= 0 {
		return "usage limit exhausted", nil
	}

	plan, reason := st.plan(rule, targets, remaining, tracked)
	if reason != "" {
		return reason, nil
	}

	val := &valuation{plan: plan}
	if err := rule.Config.Accept(val); err != nil {
		return "", err
	}

	amount := val.amount
	notes := []string{val.formula}
	if plan.selection != "" {
		notes = append([]string{plan.selection}, notes...)
	}
	if rule.MaxDiscountAmount != nil && amount > *rule.MaxDiscountAmount {
		amount = *rule.MaxDiscountAmount
		notes = append(notes, fmt.Sprintf("capped at %s", formatMoney(amount)))
	}
	planned := amount

	d := distribute(amount, val.weights, plan, rule.MaxDiscountPerItem)
	shares := d.shares
	if d.perItemCapped {
		notes = append(notes, fmt.Sprintf("per-item cap %s", formatMoney(*rule.MaxDiscountPerItem)))
	}

	amount = sum(shares)
	if amount <= 0 {
		return "computed discount is zero", nil
	}
	if d.currentBound && amount < planned {
		notes = append(notes, "limited to remaining item amount")
	}

	if amount != planned {
		notes = append(notes, fmt.Sprintf("applied %s", formatMoney(amount)))
	}

	for k, i := range plan.lines {
		st.current[i] -= shares[k]
	}
	st.subtotal -= amount

	step := domain.CalculationStep{
		DiscountID:         rule.ID,
		Name:               rule.Name,
		Category:           rule.Category(),
		Amount:             amount,
		CalculationDetails: strings.Join(notes, "; "),
		AfterAmount:        st.subtotal,
	}
	if plan.itemScoped {
		step.AppliedItems = make([]domain.AppliedItem, 0, len(plan.lines))
		for k, i := range plan.lines {
			step.AppliedItems = append(step.AppliedItems, domain.AppliedItem{
				ProductName:    st.lines[i].DisplayName(),
				Price:          st.lines[i].UnitPrice,
				Quantity:       plan.units[k],
				DiscountAmount: shares[k],
			})
		}
	}

	st.steps = append(st.steps, step)
	st.stepIDs[rule.ID] = true
	st.applied = append(st.applied, rule)
	if tracked || isSubscription(rule) {
		st.consumed[rule.ID] = plan.consumes
	}
	return "", nil
}

type distribution struct {
	shares        []domain.Money
	perItemCapped bool
	currentBound  bool
}

// distribute splits amount across the planned lines by weight. A line takes
// at most the remaining amount of its planned units and the per-item cap. What
// a bounded line cannot take moves to the lines with room left, pro rata to
// that room.
func distribute(amount domain.Money, weights []domain.Money, plan *allocationPlan, perItem *domain.Money) distribution {
	shares := allocateByWeight(amount, weights)
	wanted := slices.Clone(shares)
	room := make([]domain.Money, len(plan.lines))
	capBound := make([]bool, len(plan.lines))
	for k := range plan.lines {
		room[k] = plan.current[k]
		if perItem != nil && *perItem < room[k] {
			room[k] = *perItem
			capBound[k] = true
		}
		shares[k] = min(shares[k], room[k])
	}

	if left := amount - sum(shares); left > 0 {
		spare := make([]domain.Money, len(room))
		for k := range room {
			spare[k] = room[k] - shares[k]
		}
		if left >= sum(spare) {
			copy(shares, room)
		} else {
			// left < total spare, so no line is pushed past its room.
			for k, extra := range allocateByWeight(left, spare) {
				shares[k] += extra
			}
		}
	}

	d := distribution{shares: shares}
	short := sum(shares) < amount
	for k := range shares {
		if wanted[k] <= room[k] && !(short && shares[k] == room[k]) {
			continue
		}
		if capBound[k] {
			d.perItemCapped = true
		} else {
			d.currentBound = true
		}
	}
	return d
}

func (st *stackState) warn(format string, args ...any) {
	st.warnings = append(st.warnings, fmt.Sprintf(format, args...))
}

func (s *Stacker) conditionHolds(ctx context.Context, st *stackState, rule *domain.DiscountRule) (bool, error) {
	if len(rule.Condition) == 0 {
		return true, nil
	}
	if s.conditions == nil {
		return false, fmt.Errorf("%w: no condition evaluator configured", domain.ErrInvalidCondition)
	}
	applied := make([]string, 0, len(st.steps))
	for _, step := range st.steps {
		applied = append(applied, step.DiscountID)
	}
	facts := model.Cart{
		Lines:    st.lines,
		Current:  st.current,
		Subtotal: st.subtotal,
		Payment:  st.payment,
		Applied:  applied,
		Now:      st.now,
	}.ToMap()
	ok, err := s.conditions.Evaluate(ctx, rule.Condition, facts)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidCondition, err)
	}
	return ok, nil
}

// targets returns the indexes of lines the rule discounts, in cart order.
func (st *stackState) targets(rule *domain.DiscountRule) []int {
	var idx []int
	for i, l := range st.lines {
		if rule.AppliesTo(l) && st.current[i] > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// remainingUses resolves the caller's override first, then the configured
// ceiling. tracked is false when the rule has no usage limit at all.
func (st *stackState) remainingUses(rule *domain.DiscountRule) (int, bool) {
	if v, ok := st.overrides[rule.ID]; ok {
		return v, true
	}
	if c, ok := rule.Config.DiscountConfig.(domain.CouponConfig); ok && c.IsSubscription && c.DailyUsageLimit != nil {
		return *c.DailyUsageLimit, true
	}
	if rule.DailyUsageLimit != nil {
		return *rule.DailyUsageLimit, true
	}
	if rule.TotalUsageLimit != nil {
		return *rule.TotalUsageLimit, true
	}
	return 0, false
}

func isSubscription(rule *domain.DiscountRule) bool {
	c, ok := rule.Config.DiscountConfig.(domain.CouponConfig)
	return ok && c.IsSubscription
}

// allocationPlan holds the targeted lines and the part of each line the rule
// is computed against.
type allocationPlan struct {
	lines      []int
	units      []int
	original   []domain.Money
	current    []domain.Money
	itemScoped bool
	consumes   int
	selection  string
}

func (st *stackState) plan(rule *domain.DiscountRule, targets []int, remaining int, tracked bool) (*allocationPlan, string) {
	units := make(map[int]int, len(targets))
	for _, i := range targets {
		units[i] = st.lines[i].Quantity
	}
	p := &allocationPlan{itemScoped: rule.Scoped(), consumes: 1}

	if c, ok := rule.Config.DiscountConfig.(domain.CouponConfig); ok && c.ItemCapped() {
		limit := math.MaxInt
		if c.ItemLimitPerDay != nil {
			limit = min(limit, *c.ItemLimitPerDay)
		}
		if c.TotalItemLimit != nil {
			limit = min(limit, *c.TotalItemLimit)
		}
		if tracked {
			limit = min(limit, remaining)
		}
		if limit <= 0 {
			return nil, "item limit exhausted"
		}
		method := c.ItemSelectionMethod
		if method == "" {
			method = domain.SelectFirstCome
		}
		units = selectUnits(st.lines, targets, method, limit)
		p.itemScoped = true
		p.consumes = 0
		for _, n := range units {
			p.consumes += n
		}
		p.selection = fmt.Sprintf("%s selection of %d unit(s)", method, p.consumes)
	}

	for _, i := range targets {
		n := units[i]
		if n <= 0 {
			continue
		}
		qty := st.lines[i].Quantity
		p.lines = append(p.lines, i)
		p.units = append(p.units, n)
		p.original = append(p.original, prorate(st.original[i], n, qty))
		p.current = append(p.current, prorate(st.current[i], n, qty))
	}
	return p, ""
}

// exclusionGate checks combination lists in both directions and the
// prerequisite rule.
func (st *stackState) exclusionGate(rule *domain.DiscountRule) string {
	for _, a := range st.applied {
		if rule.ExcludesRule(*a) {
			return fmt.Sprintf("cannot combine with %s", a.ID)
		}
		if a.ExcludesRule(*rule) {
			return fmt.Sprintf("%s cannot combine with it", a.ID)
		}
	}
	if rule.RequiresDiscountID != "" && !st.stepIDs[rule.RequiresDiscountID] {
		return fmt.Sprintf("requires %s to be applied earlier", rule.RequiresDiscountID)
	}
	return ""
}
