package runengine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

type Calculator interface {
	Calculate(ctx context.Context, req domain.CalculationRequest, rules []domain.DiscountRule) domain.CalculationResult
}

type Differ interface {
	Diff(before, after domain.CalculationResult) (json.RawMessage, error)
}

// Patcher applies an RFC 6902 patch document to a request.
type Patcher func(original domain.CalculationRequest, patch []byte) (domain.CalculationRequest, error)

// Preparer validates and normalizes the patched request before it is priced.
type Preparer func(req domain.CalculationRequest) (domain.CalculationRequest, error)

// UseCase prices the previous request, applies the patch, prices again and
// diffs the two results.
type UseCase struct {
	Engine Calculator
	Patch  Patcher
	Differ Differ
}

// Run prices previous and its patched form with rules. A nil prepare leaves
// the patched request as is.
func (u *UseCase) Run(ctx context.Context, previous domain.CalculationRequest, patch []byte, rules []domain.DiscountRule, prepare Preparer) (*domain.Recalculation, error) {
	updated, err := u.Patch(previous, patch)
	if err != nil {
		return nil, err
	}
	if prepare != nil {
		if updated, err = prepare(updated); err != nil {
			return nil, err
		}
	}

	before := u.Engine.Calculate(ctx, previous, rules)
	after := u.Engine.Calculate(ctx, updated, rules)

	delta, err := u.Differ.Diff(before, after)
	if err != nil {
		return nil, fmt.Errorf("diff results: %w", err)
	}

	return &domain.Recalculation{
		Request:     updated,
		Result:      after,
		ServerDelta: len(delta) > 2,
		Delta:       delta,
	}, nil
}
