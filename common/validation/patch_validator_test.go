package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchValidator(t *testing.T) {
	v := NewPatchValidator("special_requests", "accessibility_needs")

	tests := []struct {
		name    string
		ops     []map[string]interface{}
		wantErr string
	}{
		{
			name: "replace allowed field",
			ops:  []map[string]interface{}{{"op": "replace", "path": "/special_requests", "value": "oat milk"}},
		},
		{
			name: "append to list",
			ops:  []map[string]interface{}{{"op": "add", "path": "/accessibility_needs/-", "value": "ramp"}},
		},
		{
			name: "remove list element",
			ops:  []map[string]interface{}{{"op": "remove", "path": "/accessibility_needs/0"}},
		},
		{
			name:    "empty patch",
			ops:     nil,
			wantErr: "no operations",
		},
		{
			name:    "field not editable",
			ops:     []map[string]interface{}{{"op": "replace", "path": "/priority", "value": 10}},
			wantErr: "not editable",
		},
		{
			name:    "missing value",
			ops:     []map[string]interface{}{{"op": "replace", "path": "/special_requests"}},
			wantErr: "'value' required",
		},
		{
			name:    "remove whole field",
			ops:     []map[string]interface{}{{"op": "remove", "path": "/special_requests"}},
			wantErr: "cannot remove field",
		},
		{
			name:    "move unsupported",
			ops:     []map[string]interface{}{{"op": "move", "from": "/a", "path": "/special_requests"}},
			wantErr: "unsupported operation",
		},
		{
			name:    "relative path",
			ops:     []map[string]interface{}{{"op": "replace", "path": "special_requests", "value": "x"}},
			wantErr: "must start with",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateOperations(tt.ops)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
