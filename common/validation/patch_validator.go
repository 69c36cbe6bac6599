package validation

import (
	"fmt"
	"strings"
)

// MaxOperations caps the number of operations in one patch
const MaxOperations = 20

// PatchValidator validates RFC 6902 JSON Patch operations against an allow-list
// of top-level fields
type PatchValidator struct {
	allowed map[string]bool
}

// NewPatchValidator creates a validator accepting only the given top-level fields
func NewPatchValidator(allowedFields ...string) *PatchValidator {
	allowed := make(map[string]bool, len(allowedFields))
	for _, f := range allowedFields {
		allowed[f] = true
	}
	return &PatchValidator{allowed: allowed}
}

// ValidateOperations validates all patch operations
func (v *PatchValidator) ValidateOperations(operations []map[string]interface{}) error {
	if len(operations) == 0 {
		return fmt.Errorf("patch validation failed: no operations")
	}
	if len(operations) > MaxOperations {
		return fmt.Errorf("patch validation failed: at most %d operations per patch (got %d)", MaxOperations, len(operations))
	}

	for i, op := range operations {
		if err := v.validateOperation(op, i); err != nil {
			return err
		}
	}
	return nil
}

func (v *PatchValidator) validateOperation(op map[string]interface{}, index int) error {
	opType, ok := op["op"].(string)
	if !ok {
		return fmt.Errorf("operation %d: missing or invalid 'op' field", index)
	}

	path, ok := op["path"].(string)
	if !ok {
		return fmt.Errorf("operation %d: missing or invalid 'path' field", index)
	}

	if err := v.validatePath(path, index); err != nil {
		return err
	}

	switch opType {
	case "add", "replace", "test":
		if _, ok := op["value"]; !ok {
			return fmt.Errorf("operation %d: 'value' required for %s operation", index, opType)
		}

	case "remove":
		// whole fields cannot be removed, only list elements
		if !strings.Contains(strings.TrimPrefix(path, "/"), "/") {
			return fmt.Errorf("operation %d: cannot remove field %s, replace it instead", index, path)
		}

	default:
		return fmt.Errorf("operation %d: unsupported operation type: %s", index, opType)
	}

	return nil
}

func (v *PatchValidator) validatePath(path string, index int) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("operation %d: path must start with '/': %s", index, path)
	}

	field, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if !v.allowed[field] {
		return fmt.Errorf("operation %d: field %q is not editable", index, field)
	}
	return nil
}
