package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
	"github.com/Victor-armando18/pricing-assistant/internal/infrastructure/yaml"
)

var ErrRulePackNotFound = errors.New("rule pack not found")

// FileRuleLoader reads versioned catalogs named <version>_rules.{yaml,yml,json}
// from Dir.
type FileRuleLoader struct {
	Dir string
}

func NewFileRuleLoader(dir string) *FileRuleLoader {
	return &FileRuleLoader{Dir: dir}
}

func (l *FileRuleLoader) Load(ctx context.Context, version string) (*domain.RulePackDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if version == "" || strings.ContainsAny(version, `/\`) || strings.Contains(version, "..") {
		return nil, fmt.Errorf("%w: invalid version %q", ErrRulePackNotFound, version)
	}

	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(l.Dir, version+"_rules"+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
		}

		def, err := decode(ext, data)
		if err != nil {
			return nil, fmt.Errorf("rule file %s: %w", path, err)
		}
		if def.Version == "" {
			def.Version = version
		}
		return def, nil
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrRulePackNotFound, version, l.Dir)
}

func decode(ext string, data []byte) (*domain.RulePackDefinition, error) {
	if ext == ".json" {
		var def domain.RulePackDefinition
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rule definition: %w", err)
		}
		return &def, nil
	}
	return yaml.DecodeRulePack(data)
}
