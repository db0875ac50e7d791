package diff

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// Differ describes how a recalculation changed a result as a JSON merge
// patch (RFC 7386).
type Differ struct{}

// Diff returns the merge patch turning before into after. Identical results
// yield "{}".
func (d *Differ) Diff(before, after domain.CalculationResult) (json.RawMessage, error) {
	a, err := json.Marshal(before)
	if err != nil {
		return nil, fmt.Errorf("encode previous result: %w", err)
	}
	b, err := json.Marshal(after)
	if err != nil {
		return nil, fmt.Errorf("encode new result: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return patch, nil
}
