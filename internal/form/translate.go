package form

import (
	"fmt"
	"sort"

	"github.com/joseph-ayodele/w7-autofill/internal/fields"
	"github.com/joseph-ayodele/w7-autofill/internal/llm"
)

// FieldValue is one translated value, addressed by PDF field identifier.
type FieldValue struct {
	Kind    fields.Kind
	Text    string
	Checked bool
}

// Translation is the result of resolving semantic names to PDF identifiers.
// Keys outside the dictionary do not abort the translation; they are
// reported in Unmapped so callers can surface what was discarded.
type Translation struct {
	Values   map[string]FieldValue
	Unmapped []string
}

// Translate resolves every mapped key to its PDF field identifier and
// normalizes the birth date along the way.
func Translate(mapped llm.MappedData) Translation {
	tr := Translation{Values: make(map[string]FieldValue, len(mapped))}
	for k, v := range mapped {
		e, ok := fields.Resolve(k)
		if !ok {
			tr.Unmapped = append(tr.Unmapped, k)
			continue
		}
		if e.Kind == fields.Checkbox {
			checked, _ := v.(bool)
			tr.Values[e.PDFName] = FieldValue{Kind: fields.Checkbox, Checked: checked}
			continue
		}
		s := valueString(v)
		if k == "date_of_birth" {
			s = NormalizeDate(s)
		}
		tr.Values[e.PDFName] = FieldValue{Kind: fields.Text, Text: s}
	}
	sort.Strings(tr.Unmapped)
	return tr
}

func valueString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
