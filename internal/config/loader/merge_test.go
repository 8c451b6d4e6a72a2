package loader

import "testing"

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{
			name:     "nil dst",
			dst:      nil,
			src:      map[string]any{"a": 1},
			expected: map[string]any{"a": 1},
		},
		{
			name:     "nil src",
			dst:      map[string]any{"a": 1},
			src:      nil,
			expected: map[string]any{"a": 1},
		},
		{
			name:     "simple merge",
			dst:      map[string]any{"a": 1},
			src:      map[string]any{"b": 2},
			expected: map[string]any{"a": 1, "b": 2},
		},
		{
			name:     "src overrides dst",
			dst:      map[string]any{"a": 1},
			src:      map[string]any{"a": 2},
			expected: map[string]any{"a": 2},
		},
		{
			name: "nested merge",
			dst: map[string]any{
				"apply": map[string]any{
					"backup": true,
				},
			},
			src: map[string]any{
				"apply": map[string]any{
					"dry_run": true,
				},
			},
			expected: map[string]any{
				"apply": map[string]any{
					"backup":  true,
					"dry_run": true,
				},
			},
		},
		{
			name: "nested override",
			dst: map[string]any{
				"output": map[string]any{
					"context": 3,
				},
			},
			src: map[string]any{
				"output": map[string]any{
					"context": 5,
				},
			},
			expected: map[string]any{
				"output": map[string]any{
					"context": 5,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DeepMerge(tt.dst, tt.src)
			if !mapsEqual(result, tt.expected) {
				t.Errorf("DeepMerge() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestClone(t *testing.T) {
	original := map[string]any{
		"string": "value",
		"int":    42,
		"nested": map[string]any{
			"deep": "data",
		},
		"array": []any{"a", "b", "c"},
	}

	cloned := Clone(original)

	// Modify original
	original["string"] = "changed"
	original["nested"].(map[string]any)["deep"] = "modified"
	original["array"].([]any)[0] = "x"

	// Cloned should be unchanged
	if cloned["string"] != "value" {
		t.Error("clone was affected by original modification")
	}
	if cloned["nested"].(map[string]any)["deep"] != "data" {
		t.Error("nested clone was affected by original modification")
	}
	if cloned["array"].([]any)[0] != "a" {
		t.Error("array clone was affected by original modification")
	}
}

func TestClone_Nil(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("Clone(nil) should return nil")
	}
}

// mapsEqual compares two maps for equality (simple version for tests).
func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok {
			return false
		}
		switch ta := va.(type) {
		case map[string]any:
			tb, ok := vb.(map[string]any)
			if !ok || !mapsEqual(ta, tb) {
				return false
			}
		default:
			if va != vb {
				return false
			}
		}
	}
	return true
}
