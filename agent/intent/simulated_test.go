package intent

import (
	"context"
	"testing"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
)

func TestSimulatedProductSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query    string
		wantTerm string
		wantZip  string
	}{
		{query: "price of milk in my area 45040", wantTerm: "milk", wantZip: "45040"},
		{query: "Price of COFFEE in my zip 30301", wantTerm: "coffee", wantZip: "30301"},
		{query: "price for bread in my area", wantTerm: "bread", wantZip: DefaultZipCode},
		{query: "salmon and milk price in zip", wantTerm: "milk", wantZip: DefaultZipCode},
		{query: "what is the price of eggs in this area", wantTerm: DefaultSearchTerm, wantZip: DefaultZipCode},
		{query: "price near zip 123456 please", wantTerm: DefaultSearchTerm, wantZip: DefaultZipCode},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.query, func(t *testing.T) {
			t.Parallel()

			res := NewSimulated().Resolve(context.Background(), tc.query)
			if !res.IsToolCall() {
				t.Fatalf("expected tool call, got %#v", res)
			}
			if res.Call.Name != toolx.ToolSearchProducts {
				t.Fatalf("unexpected tool: %s", res.Call.Name)
			}
			if res.Call.Args["search_term"] != tc.wantTerm {
				t.Fatalf("search_term = %v, want %s", res.Call.Args["search_term"], tc.wantTerm)
			}
			if res.Call.Args["zip_code"] != tc.wantZip {
				t.Fatalf("zip_code = %v, want %s", res.Call.Args["zip_code"], tc.wantZip)
			}
		})
	}
}

func TestSimulatedReminder(t *testing.T) {
	t.Parallel()

	for _, query := range []string{"schedule a reminder", "Set a REMINDER to buy milk", "schedule pickup"} {
		res := NewSimulated().Resolve(context.Background(), query)
		if !res.IsToolCall() || res.Call.Name != toolx.ToolScheduleReminder {
			t.Fatalf("%q: expected reminder call, got %#v", query, res)
		}
		if res.Call.Args["task"] != PlaceholderReminderTask || res.Call.Args["time"] != PlaceholderReminderTime {
			t.Fatalf("%q: unexpected args %v", query, res.Call.Args)
		}
	}
}

func TestSimulatedPriceWinsOverReminder(t *testing.T) {
	t.Parallel()

	res := NewSimulated().Resolve(context.Background(), "schedule a reminder about the price of milk in my area")
	if !res.IsToolCall() || res.Call.Name != toolx.ToolSearchProducts {
		t.Fatalf("expected product search, got %#v", res)
	}
}

func TestSimulatedNoTool(t *testing.T) {
	t.Parallel()

	for _, query := range []string{
		"",
		"hello there",
		"what is the capital of France?",
		"how much is milk",
		"price of milk",
		"what's the price of milk near 45040",
		"what's the price of milk near 12345",
		"is my zip code 45040 covered?",
		"the area is nice",
	} {
		res := NewSimulated().Resolve(context.Background(), query)
		if res.Kind != contractx.ResolutionNone {
			t.Fatalf("%q: expected none, got %#v", query, res)
		}
	}
}
