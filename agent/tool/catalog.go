package tool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	"gopkg.in/yaml.v3"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
)

// Declaration is one entry of the tool-schema file. Parameters is a JSON
// schema object; upper-case Gemini type names are accepted and normalised.
type Declaration struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Catalog is the ordered, read-only set of declared tools.
type Catalog struct {
	declarations []Declaration
	index        map[string]int
}

// LoadCatalog reads the tool-schema file at path. YAML is used for .yaml and
// .yml files, JSON otherwise.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool schema file %s: %w", path, err)
	}

	var decls []Declaration
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &decls); err != nil {
			return nil, fmt.Errorf("%w: parse tool schema yaml %s: %v", contractx.ErrValidation, path, err)
		}
	default:
		if err := json.Unmarshal(raw, &decls); err != nil {
			return nil, fmt.Errorf("%w: parse tool schema json %s: %v", contractx.ErrValidation, path, err)
		}
	}

	return NewCatalog(decls)
}

func NewCatalog(decls []Declaration) (*Catalog, error) {
	if len(decls) == 0 {
		return nil, fmt.Errorf("%w: tool schema declares no tools", contractx.ErrValidation)
	}

	c := &Catalog{
		declarations: make([]Declaration, 0, len(decls)),
		index:        make(map[string]int, len(decls)),
	}
	for i, d := range decls {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool declaration #%d has no name", contractx.ErrValidation, i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("%w: tool %q declared twice", contractx.ErrValidation, name)
		}
		c.index[name] = len(c.declarations)
		c.declarations = append(c.declarations, Declaration{
			Name:        name,
			Description: strings.TrimSpace(d.Description),
			Parameters:  normalizeSchema(d.Parameters),
		})
	}
	return c, nil
}

func (c *Catalog) Declarations() []Declaration {
	return append([]Declaration(nil), c.declarations...)
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.declarations))
	for _, d := range c.declarations {
		names = append(names, d.Name)
	}
	return names
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.index[strings.TrimSpace(name)]
	return ok
}

// Unimplemented lists declared tools the executor cannot dispatch.
func (c *Catalog) Unimplemented() []string {
	var out []string
	for _, d := range c.declarations {
		if !IsImplemented(d.Name) {
			out = append(out, d.Name)
		}
	}
	return out
}

// ToolInfos renders the catalog for eino chat models.
func (c *Catalog) ToolInfos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(c.declarations))
	for _, d := range c.declarations {
		params := toParams(d.Parameters)
		if params == nil {
			params = map[string]*schema.ParameterInfo{}
		}
		infos = append(infos, &schema.ToolInfo{
			Name:        d.Name,
			Desc:        d.Description,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return infos
}

// OpenAITools renders the catalog as chat-completions function tools.
func (c *Catalog) OpenAITools() []openaisdk.ChatCompletionToolParam {
	tools := make([]openaisdk.ChatCompletionToolParam, 0, len(c.declarations))
	for _, d := range c.declarations {
		params := d.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		tools = append(tools, openaisdk.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        d.Name,
				Description: openaisdk.String(d.Description),
				Parameters:  shared.FunctionParameters(params),
			},
		})
	}
	return tools
}

func toParams(raw map[string]any) map[string]*schema.ParameterInfo {
	props, _ := raw["properties"].(map[string]any)
	if len(props) == 0 {
		return nil
	}
	required := stringSet(raw["required"])

	params := make(map[string]*schema.ParameterInfo, len(props))
	for name, prop := range props {
		propMap, _ := prop.(map[string]any)
		params[name] = toParameterInfo(propMap, required[name])
	}
	return params
}

func toParameterInfo(raw map[string]any, required bool) *schema.ParameterInfo {
	info := &schema.ParameterInfo{
		Type:     dataType(raw["type"]),
		Required: required,
	}
	if desc, ok := raw["description"].(string); ok {
		info.Desc = desc
	}
	if enum := stringList(raw["enum"]); len(enum) > 0 {
		info.Enum = enum
	}

	switch info.Type {
	case schema.Object:
		info.SubParams = toParams(raw)
	case schema.Array:
		if items, ok := raw["items"].(map[string]any); ok {
			info.ElemInfo = toParameterInfo(items, false)
		}
	}
	return info
}

func dataType(v any) schema.DataType {
	s, _ := v.(string)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "object":
		return schema.Object
	case "number":
		return schema.Number
	case "integer":
		return schema.Integer
	case "boolean":
		return schema.Boolean
	case "array":
		return schema.Array
	case "null":
		return schema.Null
	default:
		return schema.String
	}
}

// normalizeSchema deep-copies a JSON schema, lower-casing "type" values.
// Keys under "properties" are parameter names, not keywords, so a parameter
// called "type" is normalised like any other.
func normalizeSchema(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case "type":
			if s, ok := v.(string); ok {
				out[k] = strings.ToLower(s)
				continue
			}
			out[k] = normalizeValue(v)
		case "properties":
			out[k] = normalizeProperties(v)
		default:
			out[k] = normalizeValue(v)
		}
	}
	return out
}

func normalizeProperties(v any) any {
	props, ok := v.(map[string]any)
	if !ok {
		return normalizeValue(v)
	}
	out := make(map[string]any, len(props))
	for name, prop := range props {
		out[name] = normalizeValue(prop)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeSchema(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeValue(t[i])
		}
		return out
	default:
		return v
	}
}

func stringSet(v any) map[string]bool {
	set := map[string]bool{}
	for _, s := range stringList(v) {
		set[s] = true
	}
	return set
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
