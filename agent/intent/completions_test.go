package intent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
)

const toolCallCompletion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "gemini-2.5-flash-lite",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": null,
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {"name": "search_kroger_products", "arguments": "{\"search_term\":\"bread\",\"zip_code\":\"45040\"}"}
      }]
    }
  }]
}`

const textCompletion = `{
  "id": "chatcmpl-2",
  "object": "chat.completion",
  "created": 1,
  "model": "gemini-2.5-flash-lite",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "I am doing well, thanks."}
  }]
}`

type completionServer struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []map[string]any
}

func (s *completionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var req map[string]any
	_ = json.Unmarshal(raw, &req)

	s.mu.Lock()
	s.requests = append(s.requests, req)
	status, body := s.status, s.body
	s.mu.Unlock()

	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newCompletionsForTest(t *testing.T, srv *httptest.Server) *Completions {
	t.Helper()

	client := openaisdk.NewClient(
		option.WithBaseURL(srv.URL+"/"),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	catalog, err := toolx.NewCatalog([]toolx.Declaration{
		{Name: toolx.ToolSearchProducts, Description: "Search products."},
		{Name: toolx.ToolScheduleReminder, Description: "Schedule a reminder."},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	resolver, err := NewCompletions(&client, "gemini-2.5-flash-lite", catalog.OpenAITools(), "system prompt", WithMaxTokens(64))
	if err != nil {
		t.Fatalf("NewCompletions() error = %v", err)
	}
	return resolver
}

func TestCompletionsResolveToolCall(t *testing.T) {
	t.Parallel()

	backend := &completionServer{body: toolCallCompletion}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	res := newCompletionsForTest(t, srv).Resolve(context.Background(), "price of bread near 45040")
	if !res.IsToolCall() || res.Call.Name != toolx.ToolSearchProducts {
		t.Fatalf("unexpected resolution: %#v", res)
	}
	if res.Call.Args["search_term"] != "bread" || res.Call.Args["zip_code"] != "45040" {
		t.Fatalf("unexpected args: %v", res.Call.Args)
	}

	if len(backend.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(backend.requests))
	}
	req := backend.requests[0]
	if req["model"] != "gemini-2.5-flash-lite" {
		t.Fatalf("unexpected model: %v", req["model"])
	}
	tools, _ := req["tools"].([]any)
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools in request, got %v", req["tools"])
	}
	messages, _ := req["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %v", req["messages"])
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" {
		t.Fatalf("first message must be the system instruction, got %v", first)
	}
}

func TestCompletionsResolveText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&completionServer{body: textCompletion})
	defer srv.Close()

	res := newCompletionsForTest(t, srv).Resolve(context.Background(), "how are you?")
	if res.Kind != contractx.ResolutionText || res.Text != "I am doing well, thanks." {
		t.Fatalf("unexpected resolution: %#v", res)
	}
}

func TestCompletionsResolveHTTPErrorBecomesNone(t *testing.T) {
	t.Parallel()

	backend := &completionServer{status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	res := newCompletionsForTest(t, srv).Resolve(context.Background(), "price of milk in my area")
	if res.Kind != contractx.ResolutionNone {
		t.Fatalf("expected none, got %#v", res)
	}
	if len(backend.requests) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(backend.requests))
	}
}

func TestNewCompletionsValidation(t *testing.T) {
	t.Parallel()

	client := openaisdk.NewClient(option.WithAPIKey("k"))
	if _, err := NewCompletions(nil, "m", nil, "p"); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewCompletions(&client, " ", nil, "p"); err == nil {
		t.Fatal("expected error for blank model")
	}
	if _, err := NewCompletions(&client, "m", nil, ""); err == nil {
		t.Fatal("expected error for blank prompt")
	}
}
