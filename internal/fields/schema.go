package fields

// BuildMappedDataSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We use it locally to validate mapping-service output: text
// fields must come back as strings, checkbox fields as booleans, and no key
// outside the dictionary is allowed.
func BuildMappedDataSchema() map[string]any {
	props := make(map[string]any, len(dictionary))
	for name, e := range dictionary {
		if e.Kind == Checkbox {
			props[name] = map[string]any{"type": "boolean"}
		} else {
			props[name] = map[string]any{"type": "string"}
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}
