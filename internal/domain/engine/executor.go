package engine

import "context"

// ConditionEvaluator decides whether a rule condition holds for the given
// facts. Rules carrying a condition cannot be stacked without one.
type ConditionEvaluator interface {
	Evaluate(ctx context.Context, condition map[string]any, facts map[string]any) (bool, error)
}
