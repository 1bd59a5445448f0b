package llm

import (
	"errors"
	"testing"
)

func TestExtractJSONObjectWrapperShapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "raw object",
			content: `{"first_name": "Jane", "previous_itin_yes": true}`,
		},
		{
			name:    "plain fenced block",
			content: "Here you go:\n```\n{\"first_name\": \"Jane\", \"previous_itin_yes\": true}\n```\nLet me know!",
		},
		{
			name:    "json-tagged fenced block",
			content: "```json\n{\"first_name\": \"Jane\", \"previous_itin_yes\": true}\n```",
		},
		{
			name:    "prose around raw object",
			content: "Sure, the mapped fields are {\"first_name\": \"Jane\", \"previous_itin_yes\": true} as requested.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ExtractJSONObject(tt.content)
			if err != nil {
				t.Fatalf("ExtractJSONObject failed: %v", err)
			}
			if obj["first_name"] != "Jane" {
				t.Errorf("first_name = %v, want Jane", obj["first_name"])
			}
			if obj["previous_itin_yes"] != true {
				t.Errorf("previous_itin_yes = %v, want true", obj["previous_itin_yes"])
			}
		})
	}
}

func TestExtractJSONObjectFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no braces", "I could not map any fields."},
		{"malformed json", `{"first_name": "Jane",}`},
		{"unterminated string", `{"first_name": "Jane}`},
		{"array not object", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractJSONObject(tt.content); err == nil {
				t.Fatalf("expected error for %q", tt.content)
			}
		})
	}

	if _, err := ExtractJSONObject("nothing here"); !errors.Is(err, ErrNoJSONObject) {
		t.Errorf("expected ErrNoJSONObject, got %v", err)
	}
}

func TestExtractJSONObjectUnclosedFence(t *testing.T) {
	// An unterminated fence falls back to brace scanning over the raw text.
	obj, err := ExtractJSONObject("```json\n{\"last_name\": \"Doe\"}")
	if err != nil {
		t.Fatalf("ExtractJSONObject failed: %v", err)
	}
	if obj["last_name"] != "Doe" {
		t.Errorf("last_name = %v, want Doe", obj["last_name"])
	}
}
