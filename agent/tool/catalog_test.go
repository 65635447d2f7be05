package tool

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
)

const sampleToolsJSON = `[
  {
    "name": "search_kroger_products",
    "description": "Search Kroger products near a zip code.",
    "parameters": {
      "type": "OBJECT",
      "properties": {
        "search_term": {"type": "STRING", "description": "Product to search for"},
        "zip_code": {"type": "STRING", "description": "Five digit zip code"}
      },
      "required": ["search_term", "zip_code"]
    }
  },
  {
    "name": "schedule_reminder",
    "description": "Schedule a reminder.",
    "parameters": {
      "type": "object",
      "properties": {
        "task": {"type": "string"},
        "time": {"type": "string"}
      },
      "required": ["task", "time"]
    }
  },
  {
    "name": "add_to_cart",
    "description": "Add items to a cart.",
    "parameters": {
      "type": "object",
      "properties": {
        "upcs": {"type": "array", "items": {"type": "string"}},
        "mode": {"type": "string", "enum": ["pickup", "delivery"]}
      }
    }
  }
]`

const sampleToolsYAML = `
- name: search_kroger_products
  description: Search Kroger products near a zip code.
  parameters:
    type: OBJECT
    properties:
      search_term:
        type: STRING
      zip_code:
        type: STRING
    required: [search_term, zip_code]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCatalogJSON(t *testing.T) {
	t.Parallel()

	catalog, err := LoadCatalog(writeFile(t, "tools.json", sampleToolsJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := catalog.Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(names))
	}
	if names[0] != ToolSearchProducts || names[1] != ToolScheduleReminder || names[2] != "add_to_cart" {
		t.Fatalf("declaration order not preserved: %v", names)
	}
	if !catalog.Has("schedule_reminder") || catalog.Has("unknown_tool") {
		t.Fatal("unexpected Has result")
	}

	unimplemented := catalog.Unimplemented()
	if len(unimplemented) != 1 || unimplemented[0] != "add_to_cart" {
		t.Fatalf("unexpected unimplemented tools: %v", unimplemented)
	}

	params := catalog.Declarations()[0].Parameters
	if params["type"] != "object" {
		t.Fatalf("expected normalised object type, got %v", params["type"])
	}
	props := params["properties"].(map[string]any)
	term := props["search_term"].(map[string]any)
	if term["type"] != "string" {
		t.Fatalf("expected normalised nested type, got %v", term["type"])
	}
}

func TestLoadCatalogYAML(t *testing.T) {
	t.Parallel()

	catalog, err := LoadCatalog(writeFile(t, "tools.yaml", sampleToolsYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := catalog.Names(); len(names) != 1 || names[0] != ToolSearchProducts {
		t.Fatalf("unexpected names: %v", names)
	}

	params := toParams(catalog.Declarations()[0].Parameters)
	if len(params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(params))
	}
	for name, p := range params {
		if !p.Required || p.Type != schema.String {
			t.Fatalf("unexpected param %s: %#v", name, p)
		}
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
		},
		{
			name:    "malformed json",
			path:    func(t *testing.T) string { return writeFile(t, "tools.json", `[{"name": `) },
			wantErr: contractx.ErrValidation,
		},
		{
			name:    "empty list",
			path:    func(t *testing.T) string { return writeFile(t, "tools.json", `[]`) },
			wantErr: contractx.ErrValidation,
		},
		{
			name:    "blank name",
			path:    func(t *testing.T) string { return writeFile(t, "tools.json", `[{"name": " "}]`) },
			wantErr: contractx.ErrValidation,
		},
		{
			name: "duplicate name",
			path: func(t *testing.T) string {
				return writeFile(t, "tools.json", `[{"name": "a"}, {"name": "a"}]`)
			},
			wantErr: contractx.ErrValidation,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadCatalog(tc.path(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCatalogToolInfos(t *testing.T) {
	t.Parallel()

	catalog, err := LoadCatalog(writeFile(t, "tools.json", sampleToolsJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	infos := catalog.ToolInfos()
	if len(infos) != 3 {
		t.Fatalf("expected 3 tool infos, got %d", len(infos))
	}
	if infos[0].Name != ToolSearchProducts {
		t.Fatalf("unexpected first tool: %s", infos[0].Name)
	}

	for _, info := range infos {
		if info.ParamsOneOf == nil {
			t.Fatalf("tool %s has no params", info.Name)
		}
	}

	params := toParams(catalog.Declarations()[2].Parameters)
	upcs := params["upcs"]
	if upcs == nil || upcs.Type != schema.Array || upcs.ElemInfo == nil || upcs.ElemInfo.Type != schema.String {
		t.Fatalf("unexpected array param: %#v", upcs)
	}
	if upcs.Required {
		t.Fatal("upcs must not be required")
	}
	mode := params["mode"]
	if mode == nil || len(mode.Enum) != 2 {
		t.Fatalf("unexpected enum param: %#v", mode)
	}
}

func TestCatalogOpenAITools(t *testing.T) {
	t.Parallel()

	catalog, err := NewCatalog([]Declaration{
		{Name: ToolScheduleReminder, Description: "Schedule a reminder."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tools := catalog.OpenAITools()
	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	fn := tools[0].Function
	if fn.Name != ToolScheduleReminder {
		t.Fatalf("unexpected function name: %s", fn.Name)
	}
	if fn.Parameters["type"] != "object" {
		t.Fatalf("expected empty object schema, got %v", fn.Parameters)
	}
}

func TestNewCatalogNormalizesParameterNamedType(t *testing.T) {
	t.Parallel()

	catalog, err := NewCatalog([]Declaration{{
		Name: "classify_item",
		Parameters: map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"type": map[string]any{"type": "STRING", "description": "Item category"},
				"size": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"type": map[string]any{"type": "INTEGER"},
					},
				},
			},
			"required": []any{"type"},
		},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := catalog.Declarations()[0].Parameters
	if params["type"] != "object" {
		t.Fatalf("top-level type = %v, want object", params["type"])
	}
	props := params["properties"].(map[string]any)
	if got := props["type"].(map[string]any)["type"]; got != "string" {
		t.Fatalf("parameter named type has type %v, want string", got)
	}
	nested := props["size"].(map[string]any)["properties"].(map[string]any)
	if got := nested["type"].(map[string]any)["type"]; got != "integer" {
		t.Fatalf("nested parameter named type has type %v, want integer", got)
	}

	info := toParams(params)["type"]
	if info == nil || info.Type != schema.String || !info.Required {
		t.Fatalf("unexpected param info: %#v", info)
	}
}
