package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
)

const (
	DefaultSearchTerm = "item"
	DefaultZipCode    = "45040"

	// Placeholder reminder arguments. The simulated resolver does not
	// extract a task or time from the query.
	PlaceholderReminderTask = "check flight"
	PlaceholderReminderTime = "tomorrow at 9 AM"
)

var (
	searchKeywords = []string{"milk", "bread", "coffee", "salmon"}
	zipCodePattern = regexp.MustCompile(`\b\d{5}\b`)
)

// Simulated is the offline keyword matcher.
type Simulated struct{}

var _ contractx.Resolver = Simulated{}

func NewSimulated() Simulated {
	return Simulated{}
}

// Resolve maps a price question with a location hint to a product search and
// a reminder or schedule request to the placeholder reminder. Only "zip" and
// "area" count as location hints; a five digit code in the query is used as
// the zip but does not trigger a search on its own.
func (Simulated) Resolve(ctx context.Context, query string) contractx.Resolution {
	logger := log.Ctx(ctx).With().Str("resolver", "simulated").Logger()
	lower := strings.ToLower(query)
	zipCode := zipCodePattern.FindString(query)

	switch {
	case strings.Contains(lower, "price") && hasLocationHint(lower):
		term := DefaultSearchTerm
		for _, kw := range searchKeywords {
			if strings.Contains(lower, kw) {
				term = kw
				break
			}
		}
		if zipCode == "" {
			zipCode = DefaultZipCode
		}
		logger.Debug().Str("search_term", term).Str("zip_code", zipCode).Msg("resolved product search")
		return contractx.ToolCallResolution(toolx.ToolSearchProducts, map[string]any{
			"search_term": term,
			"zip_code":    zipCode,
		})
	case strings.Contains(lower, "reminder") || strings.Contains(lower, "schedule"):
		logger.Debug().Msg("resolved reminder")
		return contractx.ToolCallResolution(toolx.ToolScheduleReminder, map[string]any{
			"task": PlaceholderReminderTask,
			"time": PlaceholderReminderTime,
		})
	default:
		return contractx.NoResolution()
	}
}

func hasLocationHint(lower string) bool {
	return strings.Contains(lower, "zip") || strings.Contains(lower, "area")
}
