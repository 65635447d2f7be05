package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
)

// ChatModel resolves intent with an eino tool-calling chat model.
type ChatModel struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Resolver = (*ChatModel)(nil)

func NewChatModel(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	tools []*schema.ToolInfo,
	systemPrompt string,
) (*ChatModel, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, contractx.ErrPromptMissing
	}

	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileToolCallingGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &ChatModel{runner: runner}, nil
}

// Resolve never returns an error; invoke failures are logged and become none.
func (c *ChatModel) Resolve(ctx context.Context, query string) contractx.Resolution {
	logger := log.Ctx(ctx).With().Str("resolver", "chat_model").Logger()

	msg, err := c.runner.Invoke(ctx, map[string]any{"input": query})
	if err != nil {
		logger.Error().Err(fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)).Msg("intent classification failed")
		return contractx.NoResolution()
	}
	if msg == nil {
		return contractx.NoResolution()
	}

	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		res, err := toolCallResolution(call.Function.Name, call.Function.Arguments)
		if err != nil {
			logger.Error().Err(err).Str("tool", call.Function.Name).Msg("discarding malformed tool call")
			return contractx.NoResolution()
		}
		logger.Debug().Str("tool", res.Call.Name).Msg("model chose tool")
		return res
	}
	return contractx.TextResolution(msg.Content)
}

func compileToolCallingGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add intent prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add intent model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add intent edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add intent edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add intent edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("intent.tool_calling_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile intent graph: %w", err)
	}
	return runner, nil
}

// toolCallResolution decodes a model tool call. A blank name or arguments
// that are not a JSON object wrap ErrSchemaViolation.
func toolCallResolution(name, rawArgs string) (contractx.Resolution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return contractx.Resolution{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}

	args := map[string]any{}
	if rawArgs = strings.TrimSpace(rawArgs); rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return contractx.Resolution{}, fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
		}
	}
	return contractx.ToolCallResolution(name, args), nil
}
