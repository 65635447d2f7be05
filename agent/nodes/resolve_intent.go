package turnnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
)

// ResolveIntent classifies the text and, for tool calls, parses the call into
// an Invocation. Parse failures are kept on the state for routing.
func ResolveIntent(ctx context.Context, in *GraphState, resolver contractx.Resolver) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if resolver == nil {
		return nil, fmt.Errorf("%w: resolver is nil", contractx.ErrValidation)
	}

	in.Resolution = resolver.Resolve(ctx, in.Text)
	if !in.Resolution.IsToolCall() {
		log.Ctx(ctx).Debug().Str("kind", string(in.Resolution.Kind)).Msg("no tool selected")
		return in, nil
	}

	call := *in.Resolution.Call
	log.Ctx(ctx).Info().
		Str("tool", call.Name).
		Interface("args", call.Args).
		Msg("routing tool call")

	in.Invocation, in.ParseErr = toolx.Parse(call)
	return in, nil
}
