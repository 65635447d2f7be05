package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	if set.System == "" {
		t.Fatal("system prompt must not be empty")
	}
	for _, want := range []string{"tool function", "general knowledge", "Concision"} {
		if !strings.Contains(set.System, want) {
			t.Fatalf("system prompt missing %q", want)
		}
	}
	// Rendered through an FString chat template, so literal braces would be
	// read as variables.
	if strings.ContainsAny(set.System, "{}") {
		t.Fatal("system prompt must not contain braces")
	}
}
