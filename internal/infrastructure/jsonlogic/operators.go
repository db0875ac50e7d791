package jsonlogic

import (
	"github.com/shopspring/decimal"
)

// Round rounds value half away from zero to precision decimal places; a
// negative precision rounds to tens, hundreds and so on.
func Round(value any, precision any) float64 {
	return decimal.NewFromFloat(toFloat64(value)).
		Round(int32(toFloat64(precision))).
		InexactFloat64()
}

// Allocate splits total proportionally to weights. Non-positive weights get
// nothing; with no positive weight the result is all zeros.
func Allocate(total any, weights []any) []float64 {
	res := make([]float64, len(weights))
	sum := decimal.Zero
	for _, w := range weights {
		if f := toFloat64(w); f > 0 {
			sum = sum.Add(decimal.NewFromFloat(f))
		}
	}
	if sum.IsZero() {
		return res
	}
	t := decimal.NewFromFloat(toFloat64(total))
	for i, w := range weights {
		f := toFloat64(w)
		if f <= 0 {
			continue
		}
		res[i] = t.Mul(decimal.NewFromFloat(f)).Div(sum).InexactFloat64()
	}
	return res
}

func roundOperator(values, _ any) any {
	args := asArgs(values)
	switch len(args) {
	case 0:
		return 0.0
	case 1:
		return Round(args[0], 0)
	default:
		return Round(args[0], args[1])
	}
}

func allocateOperator(values, _ any) any {
	args := asArgs(values)
	if len(args) < 2 {
		return []any{}
	}
	weights, ok := args[1].([]any)
	if !ok {
		return []any{}
	}
	parts := Allocate(args[0], weights)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

func asArgs(values any) []any {
	if v, ok := values.([]any); ok {
		return v
	}
	return []any{values}
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}
