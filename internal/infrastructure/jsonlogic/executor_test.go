package jsonlogic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facts() map[string]any {
	return map[string]any{
		"cart": map[string]any{
			"subtotal": 12000,
			"quantity": 3,
			"lines": []any{
				map[string]any{"barcode": "A", "categories": []any{"drink"}},
			},
		},
		"payment": map[string]any{"method": "card", "cardIssuer": "shinhan"},
		"applied": []any{"C10"},
	}
}

func TestExecutor_Evaluate(t *testing.T) {
	cases := []struct {
		name      string
		condition map[string]any
		expected  bool
	}{
		{"subtotal above threshold", map[string]any{">=": []any{map[string]any{"var": "cart.subtotal"}, 10000}}, true},
		{"subtotal below threshold", map[string]any{">": []any{map[string]any{"var": "cart.subtotal"}, 20000}}, false},
		{"payment method", map[string]any{"==": []any{map[string]any{"var": "payment.method"}, "card"}}, true},
		{"already applied", map[string]any{"in": []any{"C10", map[string]any{"var": "applied"}}}, true},
		{"combined", map[string]any{"and": []any{
			map[string]any{"==": []any{map[string]any{"var": "payment.cardIssuer"}, "shinhan"}},
			map[string]any{"<": []any{map[string]any{"var": "cart.quantity"}, 2}},
		}}, false},
		{"missing var is falsy", map[string]any{"var": "cart.coupon"}, false},
		{"non-empty string is truthy", map[string]any{"var": "payment.method"}, true},
		{"round operator", map[string]any{"==": []any{map[string]any{"round": []any{2.5, 0}}, 3}}, true},
	}
	exec := NewExecutor()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := exec.Evaluate(context.Background(), tc.condition, facts())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestExecutor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor().Evaluate(ctx, map[string]any{"==": []any{1, 1}}, facts())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.0, Round(2.5, 0))
	assert.Equal(t, 1.24, Round(1.235, 2))
	assert.Equal(t, 12000.0, Round(12345, -3))
}

func TestAllocate(t *testing.T) {
	assert.Equal(t, []float64{60, 40}, Allocate(100, []any{3.0, 2.0}))
	assert.Equal(t, []float64{0, 0}, Allocate(100, []any{0, -1}))
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(0.0))
	assert.False(t, truthy(""))
	assert.False(t, truthy([]any{}))
	assert.True(t, truthy(map[string]any{}))
	assert.True(t, truthy(1.0))
}
