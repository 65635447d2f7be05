package turnnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
)

const (
	MissingArgumentsReply = "Missing required search parameters."
	NoToolReply           = "No tool action needed; a general response is sufficient."
)

func ToolMismatch(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Resolution.Call == nil {
		return GraphOutput{}, fmt.Errorf("%w: no tool call to report", contractx.ErrValidation)
	}
	return FinalizeReply(fmt.Sprintf(
		"Configuration error: function %q is declared in the tool schema but not implemented by the dispatcher.",
		in.Resolution.Call.Name,
	))
}

func MissingArguments(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return FinalizeReply(MissingArgumentsReply)
}

// NoTool reports that no tool ran, followed by the model's text answer when
// there is one.
func NoTool(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Resolution.Kind == contractx.ResolutionText {
		return FinalizeReply(NoToolReply + "\n" + in.Resolution.Text)
	}
	return FinalizeReply(NoToolReply)
}

func FinalizeReply(reply string) (GraphOutput, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: reply is empty", contractx.ErrValidation)
	}
	return GraphOutput{Reply: reply}, nil
}
