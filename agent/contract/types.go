package contract

import "strings"

// Call is a raw tool invocation produced by intent resolution.
type Call struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type ResolutionKind string

const (
	ResolutionNone     ResolutionKind = "none"
	ResolutionToolCall ResolutionKind = "tool_call"
	ResolutionText     ResolutionKind = "text"
)

// Resolution is exactly one of: no tool needed, a tool call, or a text answer.
type Resolution struct {
	Kind ResolutionKind `json:"kind"`
	Call *Call          `json:"call,omitempty"`
	Text string         `json:"text,omitempty"`
}

func NoResolution() Resolution {
	return Resolution{Kind: ResolutionNone}
}

// ToolCallResolution returns a tool call, or none when name is blank.
// Args are never nil on a returned call.
func ToolCallResolution(name string, args map[string]any) Resolution {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoResolution()
	}
	if args == nil {
		args = map[string]any{}
	}
	return Resolution{
		Kind: ResolutionToolCall,
		Call: &Call{Name: name, Args: args},
	}
}

// TextResolution returns a text answer, or none when text is blank.
func TextResolution(text string) Resolution {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoResolution()
	}
	return Resolution{Kind: ResolutionText, Text: text}
}

func (r Resolution) IsToolCall() bool {
	return r.Kind == ResolutionToolCall && r.Call != nil
}
