package stack

import (
	"os"

	"gopkg.in/yaml.v3"

	"stackforge/errors"
	"stackforge/stack/models"
)

// ParseYAML decodes a YAML stack manifest
func ParseYAML(path string) (*models.Stack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ErrStackParse, "failed to read YAML manifest",
			map[string]interface{}{
				"path": path,
			}, err)
	}

	var stack models.Stack
	if err := yaml.Unmarshal(raw, &stack); err != nil {
		return nil, errors.New(errors.ErrStackParse, "failed to decode YAML manifest",
			map[string]interface{}{
				"path": path,
			}, err)
	}

	return &stack, nil
}
