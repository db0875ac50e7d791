package jsonlogic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/diegoholiveira/jsonlogic/v3"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

var registerOnce sync.Once

// Executor evaluates rule conditions with JsonLogic. The library keeps its
// operator table globally, so custom operators are registered once per
// process.
type Executor struct{}

func NewExecutor() *Executor {
	registerOnce.Do(func() {
		jsonlogic.AddOperator("round", roundOperator)
		jsonlogic.AddOperator("allocate", allocateOperator)
	})
	return &Executor{}
}

// Evaluate runs the condition against facts and reports its JsonLogic
// truthiness.
func (e *Executor) Evaluate(ctx context.Context, condition map[string]any, facts map[string]any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ruleJSON, err := json.Marshal(condition)
	if err != nil {
		return false, fmt.Errorf("encode condition: %w", err)
	}
	dataJSON, err := json.Marshal(facts)
	if err != nil {
		return false, fmt.Errorf("encode facts: %w", err)
	}

	var out bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &out); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrRuleExecutionFailed, err)
	}
	if out.Len() == 0 {
		return false, nil
	}
	var res any
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		return false, fmt.Errorf("%w: decode result: %v", domain.ErrRuleExecutionFailed, err)
	}
	return truthy(res), nil
}

// truthy follows JsonLogic: false, null, 0, "" and [] are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
