package mcpserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"design2prompt/internal/domain"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// styleParamsArg reads an optional style parameter object. Clients may
// send it as a JSON object or as a JSON-encoded string.
func styleParamsArg(args map[string]any, key string) (domain.StyleParams, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var text string
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		text = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		text = string(data)
	}
	var params domain.StyleParams
	if err := parseJSON(text, &params); err != nil {
		return nil, fmt.Errorf("%s must be an object of numbers, strings and booleans: %w", key, err)
	}
	return params, nil
}
