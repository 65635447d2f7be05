package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
)

const (
	ToolSearchProducts   = "search_kroger_products"
	ToolScheduleReminder = "schedule_reminder"
)

// Handler executes every tool the dispatcher implements. Adding a tool means
// adding a method here, so each Handler must handle it.
type Handler interface {
	SearchProducts(ctx context.Context, call SearchProductsCall) (string, error)
	ScheduleReminder(ctx context.Context, call ScheduleReminderCall) (string, error)
}

// Invocation is a validated tool call. The set of implementations is closed.
type Invocation interface {
	ToolName() string
	Dispatch(ctx context.Context, h Handler) (string, error)
	sealed()
}

type SearchProductsCall struct {
	SearchTerm string `json:"search_term"`
	ZipCode    string `json:"zip_code"`
}

func (SearchProductsCall) ToolName() string { return ToolSearchProducts }

func (c SearchProductsCall) Dispatch(ctx context.Context, h Handler) (string, error) {
	return h.SearchProducts(ctx, c)
}

func (SearchProductsCall) sealed() {}

// ScheduleReminderCall carries whatever task and time the resolver produced.
// Both may be empty; nothing is scheduled.
type ScheduleReminderCall struct {
	Task string `json:"task"`
	Time string `json:"time"`
}

func (ScheduleReminderCall) ToolName() string { return ToolScheduleReminder }

func (c ScheduleReminderCall) Dispatch(ctx context.Context, h Handler) (string, error) {
	return h.ScheduleReminder(ctx, c)
}

func (ScheduleReminderCall) sealed() {}

// IsImplemented reports whether Parse accepts the tool name.
func IsImplemented(name string) bool {
	switch strings.TrimSpace(name) {
	case ToolSearchProducts, ToolScheduleReminder:
		return true
	default:
		return false
	}
}

// Parse turns a raw call into an Invocation. Unknown names wrap
// ErrToolNotImplemented; absent required arguments wrap ErrMissingArguments.
func Parse(call contractx.Call) (Invocation, error) {
	name := strings.TrimSpace(call.Name)
	switch name {
	case ToolSearchProducts:
		term := stringArg(call.Args, "search_term")
		zip := stringArg(call.Args, "zip_code")
		if term == "" || zip == "" {
			return nil, fmt.Errorf("%w: %s requires search_term and zip_code", contractx.ErrMissingArguments, name)
		}
		return SearchProductsCall{SearchTerm: term, ZipCode: zip}, nil
	case ToolScheduleReminder:
		return ScheduleReminderCall{
			Task: stringArg(call.Args, "task"),
			Time: stringArg(call.Args, "time"),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", contractx.ErrToolNotImplemented, name)
	}
}

// stringArg reads a scalar argument as text. Model output sometimes encodes
// zip codes as numbers.
func stringArg(args map[string]any, key string) string {
	raw, ok := args[key]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
