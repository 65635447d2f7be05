package turnnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
)

const ResourceErrorReply = "Resource Error: failed to retrieve grocery data."

// DispatchTool runs the parsed invocation. A failed store lookup becomes the
// resource-error reply; other handler errors fail the turn.
func DispatchTool(ctx context.Context, in *GraphState, handler toolx.Handler) (GraphOutput, error) {
	if in == nil || in.Invocation == nil {
		return GraphOutput{}, fmt.Errorf("%w: no invocation to dispatch", contractx.ErrValidation)
	}
	if handler == nil {
		return GraphOutput{}, fmt.Errorf("%w: tool handler is nil", contractx.ErrValidation)
	}

	reply, err := in.Invocation.Dispatch(ctx, handler)
	if errors.Is(err, contractx.ErrResourceUnavailable) {
		return FinalizeReply(ResourceErrorReply)
	}
	if err != nil {
		return GraphOutput{}, fmt.Errorf("dispatch %s: %w", in.Invocation.ToolName(), err)
	}
	return FinalizeReply(reply)
}
