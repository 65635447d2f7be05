package turnnode

import (
	"errors"
	"strings"

	contractx "github.com/tanpawarit/grocery-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/grocery-shopping-assistant/agent/tool"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidTurn    = errors.New("turn id is empty")
)

type GraphInput struct {
	TurnID string
	Text   string
}

type GraphOutput struct {
	Reply string
}

type GraphState struct {
	TurnID string
	Text   string

	Resolution contractx.Resolution
	Invocation toolx.Invocation
	ParseErr   error
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	turnID := strings.TrimSpace(in.TurnID)
	if turnID == "" {
		return nil, ErrInvalidTurn
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		TurnID: turnID,
		Text:   text,
	}, nil
}
