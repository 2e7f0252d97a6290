package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeObject fails only on malformed JSON.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	obj := map[string]json.RawMessage{}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return obj, nil
	}
	// Valid JSON that is not an object carries no fields.
	if trimmed[0] != '{' && json.Valid(trimmed) {
		return obj, nil
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	if obj == nil {
		obj = map[string]json.RawMessage{}
	}
	return obj, nil
}

func stringField(obj map[string]json.RawMessage, key string) (string, bool, error) {
	raw, ok := obj[key]
	if !ok || !startsWith(raw, '"') {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, fmt.Errorf("decode %s: %w", key, err)
	}
	return s, true, nil
}

func arrayField(obj map[string]json.RawMessage, key string) ([]any, bool, error) {
	raw, ok := obj[key]
	if !ok || !startsWith(raw, '[') {
		return nil, false, nil
	}
	a := []any{}
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return a, true, nil
}

func startsWith(raw json.RawMessage, c byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == c
}
