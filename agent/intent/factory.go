package intent

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	llmx "github.com/tanpawarit/grocery-shopping-assistant/agent/llm"
	promptx "github.com/tanpawarit/grocery-shopping-assistant/agent/prompt"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
	chatmodelx "github.com/tanpawarit/grocery-shopping-assistant/pkg/chatmodel"
)

type Mode string

const (
	ModeSimulated Mode = "simulated"
	ModeReal      Mode = "real"
)

// Options selects and configures the resolver strategy.
type Options struct {
	UseRealLLM bool
	LLM        llmx.Config
	Catalog    *toolx.Catalog
	Prompts    promptx.PromptSet
}

func (o Options) Mode() Mode {
	if o.UseRealLLM {
		return ModeReal
	}
	return ModeSimulated
}

// New builds the resolver for the configured mode. Real mode requires a
// valid LLM config and a catalog.
func New(ctx context.Context, opts Options) (contractx.Resolver, error) {
	if !opts.UseRealLLM {
		return NewSimulated(), nil
	}

	if err := opts.LLM.Validate(); err != nil {
		return nil, err
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("%w: tool catalog is required for real mode", contractx.ErrValidation)
	}

	modelCfg := opts.LLM.ChatModelConfig()
	if opts.LLM.UsesOpenAISDK() {
		client := chatmodelx.NewClient(modelCfg)
		resolver, err := NewCompletions(
			client,
			modelCfg.Model,
			opts.Catalog.OpenAITools(),
			opts.Prompts.System,
			WithTemperature(modelCfg.Temperature),
			WithMaxTokens(opts.LLM.MaxCompletionToken),
		)
		if err != nil {
			return nil, err
		}
		return resolver, nil
	}

	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	resolver, err := NewChatModel(ctx, chatModel, opts.Catalog.ToolInfos(), opts.Prompts.System)
	if err != nil {
		return nil, err
	}
	return resolver, nil
}
