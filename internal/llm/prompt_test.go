package llm

import (
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	p := BuildSystemPrompt([]string{"first_name", "previous_itin_yes", "reason_b"})

	for _, want := range []string{
		"first_name, previous_itin_yes, reason_b",
		"MMDDYYYY",
		"previous_itin_first_3",
		"ONLY a valid JSON object",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildUserPromptDeterministic(t *testing.T) {
	row := map[string]string{"zeta": "1", "alpha": "2", "itin": "900-70-1234"}

	p := BuildUserPrompt(row)
	if p != BuildUserPrompt(row) {
		t.Fatal("user prompt is not deterministic")
	}
	if strings.Index(p, "alpha: 2") > strings.Index(p, "zeta: 1") {
		t.Error("keys are not sorted")
	}
	if !strings.Contains(p, "itin: 900-70-1234") {
		t.Error("row value missing from payload")
	}
}
