package infrastructure

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// ApplyRequestPatch applies an RFC 6902 patch to the JSON form of a
// calculation request and returns the updated request.
func ApplyRequestPatch(original domain.CalculationRequest, patchData []byte) (domain.CalculationRequest, error) {
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return original, fmt.Errorf("encode request: %w", err)
	}

	patch, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return original, fmt.Errorf("%w: decode patch: %v", domain.ErrInvalidInput, err)
	}

	modifiedJSON, err := patch.Apply(originalJSON)
	if err != nil {
		return original, fmt.Errorf("%w: apply patch: %v", domain.ErrInvalidInput, err)
	}

	var updated domain.CalculationRequest
	if err := json.Unmarshal(modifiedJSON, &updated); err != nil {
		return original, fmt.Errorf("%w: patched request: %v", domain.ErrInvalidInput, err)
	}
	return updated, nil
}
