package assistant

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	nodex "github.com/tanpawarit/grocery-shopping-assistant/agent/nodes"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
)

// Assistant runs one graph invocation per user turn.
type Assistant struct {
	resolver contractx.Resolver
	handler  toolx.Handler

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	newTurnID func() string
}

func New(resolver contractx.Resolver, handler toolx.Handler) (*Assistant, error) {
	if resolver == nil {
		return nil, errors.New("intent resolver is required")
	}
	if handler == nil {
		return nil, errors.New("tool handler is required")
	}

	a := &Assistant{
		resolver:  resolver,
		handler:   handler,
		newTurnID: uuid.NewString,
	}

	graphRunner, err := a.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	a.graphRunner = graphRunner

	return a, nil
}

// HandleMessage resolves and dispatches one user message, returning the
// reply to show.
func (a *Assistant) HandleMessage(ctx context.Context, text string) (string, error) {
	turnID := a.newTurnID()
	logger := log.Ctx(ctx).With().Str("turn_id", turnID).Logger()
	ctx = logger.WithContext(ctx)

	out, err := a.graphRunner.Invoke(ctx, nodex.GraphInput{
		TurnID: turnID,
		Text:   text,
	})
	if err != nil {
		logger.Error().Err(err).Msg("turn failed")
		return "", err
	}
	return out.Reply, nil
}
