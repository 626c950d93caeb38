// Package output serializes simplified design data for the tool surface:
// YAML by default, JSON when configured, with empty optional fields
// stripped so the LLM-facing payload carries no structural noise.
package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format selects the wire serialization used for tool results.
type Format string

const (
	// FormatYAML is the default, human-readable output format.
	FormatYAML Format = "yaml"
	// FormatJSON is opted into via server configuration.
	FormatJSON Format = "json"
)

// Render serializes value per format, after stripping empty optional
// fields recursively via removeEmptyKeys.
func Render(value any, format Format) (string, error) {
	cleaned, err := removeEmptyKeys(value)
	if err != nil {
		return "", fmt.Errorf("normalize output: %w", err)
	}

	switch format {
	case FormatJSON:
		raw, err := json.MarshalIndent(cleaned, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal json: %w", err)
		}
		return string(raw), nil
	default:
		raw, err := yaml.Marshal(cleaned)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(raw), nil
	}
}

// removeEmptyKeys round-trips value through JSON into a generic
// map[string]any / []any representation and strips every key whose value
// is nil, an empty string, an empty slice, or an empty map, recursively.
// Idempotent: applying it to its own output is a no-op.
func removeEmptyKeys(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return pruneEmpty(generic), nil
}

func pruneEmpty(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, raw := range val {
			pruned := pruneEmpty(raw)
			if isEmpty(pruned) {
				continue
			}
			out[k] = pruned
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, raw := range val {
			out = append(out, pruneEmpty(raw))
		}
		return out
	default:
		return val
	}
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
