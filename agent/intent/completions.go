package intent

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
)

// Completions resolves intent with a direct chat-completions call.
type Completions struct {
	client       *openaisdk.Client
	model        string
	systemPrompt string
	tools        []openaisdk.ChatCompletionToolParam
	temperature  float32
	maxTokens    int
}

var _ contractx.Resolver = (*Completions)(nil)

// CompletionsOption customizes Completions.
type CompletionsOption func(*Completions)

func WithTemperature(t float32) CompletionsOption {
	return func(c *Completions) {
		c.temperature = t
	}
}

func WithMaxTokens(n int) CompletionsOption {
	return func(c *Completions) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

func NewCompletions(
	client *openaisdk.Client,
	model string,
	tools []openaisdk.ChatCompletionToolParam,
	systemPrompt string,
	opts ...CompletionsOption,
) (*Completions, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, contractx.ErrPromptMissing
	}

	c := &Completions{
		client:       client,
		model:        strings.TrimSpace(model),
		systemPrompt: systemPrompt,
		tools:        tools,
		temperature:  -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Completions) Resolve(ctx context.Context, query string) contractx.Resolution {
	logger := log.Ctx(ctx).With().Str("resolver", "completions").Str("model", c.model).Logger()

	params := openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(c.systemPrompt),
			openaisdk.UserMessage(query),
		},
		Tools: c.tools,
	}
	if c.temperature >= 0 {
		params.Temperature = openaisdk.Float(float64(c.temperature))
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(c.maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error().Err(fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)).Msg("intent classification failed")
		return contractx.NoResolution()
	}
	if resp == nil || len(resp.Choices) == 0 {
		logger.Warn().Msg("completion returned no choices")
		return contractx.NoResolution()
	}

	msg := resp.Choices[0].Message
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
