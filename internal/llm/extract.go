package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONObject means the reply contained no braced JSON object at all.
var ErrNoJSONObject = errors.New("no JSON object found in mapping reply")

// ExtractJSONObject pulls a single JSON object out of a model reply that may
// wrap it in prose or markdown fences. Preference order: a fence tagged as
// json, then any fence, then the raw text; within that, the substring from
// the first '{' to the last '}'. Malformed JSON is a hard failure, no repair
// is attempted.
func ExtractJSONObject(content string) (map[string]any, error) {
	text := stripFences(content)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, ErrNoJSONObject
	}

	var v any
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return nil, fmt.Errorf("parse mapping reply: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("mapping reply is not a JSON object")
	}
	return m, nil
}

// stripFences returns the interior of the first markdown code block, if one
// is properly closed. A fence without a closing marker leaves the text as-is.
func stripFences(s string) string {
	if i := strings.Index(s, "```json"); i != -1 {
		inner := s[i+len("```json"):]
		if j := strings.Index(inner, "```"); j != -1 {
			return strings.TrimSpace(inner[:j])
		}
		return s
	}
	if i := strings.Index(s, "```"); i != -1 {
		inner := s[i+len("```"):]
		if j := strings.Index(inner, "```"); j != -1 {
			return strings.TrimSpace(inner[:j])
		}
	}
	return s
}
