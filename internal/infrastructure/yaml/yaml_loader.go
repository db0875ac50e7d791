package yaml

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// LoadRulePack reads a YAML catalog file.
func LoadRulePack(path string) (*domain.RulePackDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeRulePack(data)
}

// DecodeRulePack converts YAML into the JSON form of the catalog so that the
// tagged config union and timestamps decode exactly as they do from JSON.
func DecodeRulePack(data []byte) (*domain.RulePackDefinition, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	var pack domain.RulePackDefinition
	if err := json.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("decode rule pack: %w", err)
	}
	return &pack, nil
}
