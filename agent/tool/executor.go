package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	krogerx "github.com/tanpawarit/grocery-shopping-assistant/pkg/kroger"
)

const reminderStubNote = "(No reminder service is connected; nothing was scheduled.)"

// Executor is the Handler backed by the grocery API.
type Executor struct {
	api contractx.GroceryAPI
}

var _ Handler = (*Executor)(nil)

func NewExecutor(api contractx.GroceryAPI) *Executor {
	return &Executor{api: api}
}

// SearchProducts looks up the nearest store, then searches it. A failed
// store lookup wraps ErrResourceUnavailable.
func (e *Executor) SearchProducts(ctx context.Context, call SearchProductsCall) (string, error) {
	logger := log.Ctx(ctx).With().
		Str("tool", ToolSearchProducts).
		Str("zip_code", call.ZipCode).
		Str("search_term", call.SearchTerm).
		Logger()

	store, ok := e.api.FindNearestStore(ctx, call.ZipCode)
	if !ok || store == nil {
		logger.Warn().Msg("store lookup failed")
		return "", fmt.Errorf("%w: no store found near %s", contractx.ErrResourceUnavailable, call.ZipCode)
	}

	results := e.api.SearchProducts(ctx, store.LocationID, call.SearchTerm)
	logger.Info().
		Str("location_id", store.LocationID).
		Int("results", len(results)).
		Msg("product search completed")

	return RenderProducts(call.SearchTerm, *store, results), nil
}

func (e *Executor) ScheduleReminder(ctx context.Context, call ScheduleReminderCall) (string, error) {
	log.Ctx(ctx).Info().
		Str("tool", ToolScheduleReminder).
		Str("task", call.Task).
		Str("time", call.Time).
		Msg("reminder acknowledged")

	return fmt.Sprintf("Reminder noted: '%s' at '%s'.\n%s", call.Task, call.Time, reminderStubNote), nil
}

// RenderProducts formats search results as a numbered list, showing the
// promotional price next to the regular one when present.
func RenderProducts(term string, store krogerx.StoreLocation, results []krogerx.ProductResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No products found matching '%s' at %s.", term, storeLabel(store))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Compare and Select: %d results for '%s' at %s ---\n", len(results), term, storeLabel(store))
	for i, item := range results {
		price := "Price: " + item.Price
		if item.HasPromo() {
			price = fmt.Sprintf("PROMO: %s (Reg: %s)", item.PromoPrice, item.Price)
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Name)
		fmt.Fprintf(&b, "   %-30s | UPC: %s\n", price, item.UPC)
	}
	b.WriteString(strings.Repeat("-", 58))
	return b.String()
}

func storeLabel(store krogerx.StoreLocation) string {
	if name := strings.TrimSpace(store.Name); name != "" {
		return name
	}
	return "location " + store.LocationID
}
