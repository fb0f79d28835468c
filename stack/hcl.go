package stack

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"stackforge/errors"
	"stackforge/stack/models"
)

// ParseHCL decodes an HCL stack manifest
func ParseHCL(path string) (*models.Stack, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.New(errors.ErrStackParse, "failed to parse HCL manifest",
			map[string]interface{}{
				"path": path,
			}, diags)
	}

	var stack models.Stack
	if diags := gohcl.DecodeBody(file.Body, nil, &stack); diags.HasErrors() {
		return nil, errors.New(errors.ErrStackParse, "failed to decode HCL manifest",
			map[string]interface{}{
				"path": path,
			}, diags)
	}

	return &stack, nil
}
