package turnnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
)

const (
	NodeDispatchTool     = "dispatch_tool"
	NodeToolMismatch     = "tool_mismatch"
	NodeMissingArguments = "missing_arguments"
	NodeNoTool           = "no_tool"
)

// RouteTargets lists every node Route may return.
func RouteTargets() map[string]bool {
	return map[string]bool{
		NodeDispatchTool:     true,
		NodeToolMismatch:     true,
		NodeMissingArguments: true,
		NodeNoTool:           true,
	}
}

func Route(_ context.Context, in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if !in.Resolution.IsToolCall() {
		return NodeNoTool, nil
	}

	switch {
	case in.ParseErr == nil && in.Invocation != nil:
		return NodeDispatchTool, nil
	case errors.Is(in.ParseErr, contractx.ErrToolNotImplemented):
		return NodeToolMismatch, nil
	case errors.Is(in.ParseErr, contractx.ErrMissingArguments):
		return NodeMissingArguments, nil
	case in.ParseErr != nil:
		return "", in.ParseErr
	default:
		return "", fmt.Errorf("%w: tool call produced no invocation", contractx.ErrValidation)
	}
}
