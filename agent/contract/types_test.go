package contract

import "testing"

func TestToolCallResolution(t *testing.T) {
	t.Parallel()

	res := ToolCallResolution(" schedule_reminder ", nil)
	if !res.IsToolCall() {
		t.Fatalf("expected tool call, got %#v", res)
	}
	if res.Call.Name != "schedule_reminder" {
		t.Fatalf("unexpected name: %q", res.Call.Name)
	}
	if res.Call.Args == nil {
		t.Fatal("args must never be nil")
	}

	if got := ToolCallResolution("  ", map[string]any{"a": 1}); got.Kind != ResolutionNone {
		t.Fatalf("blank name should resolve to none, got %#v", got)
	}
}

func TestTextResolution(t *testing.T) {
	t.Parallel()

	if got := TextResolution("  Paris.  "); got.Kind != ResolutionText || got.Text != "Paris." {
		t.Fatalf("unexpected text resolution: %#v", got)
	}
	if got := TextResolution("\n"); got.Kind != ResolutionNone {
		t.Fatalf("blank text should resolve to none, got %#v", got)
	}
}
