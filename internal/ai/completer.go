package ai

import (
	"context"
	"errors"
	"strings"
)

// Role identifies the author of a conversation turn sent to a model.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ErrPermanent marks failures that must not be retried.
var ErrPermanent = errors.New("permanent completion failure")

// Turn is one message of the chat history.
type Turn struct {
	Role Role
	Text string
}

// Request is an ordered chat history plus the prompt to answer.
type Request struct {
	History []Turn
	Prompt  string
}

// Completer turns a request into plain text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// NewRequest builds a request. Without prior turns the system prompt is
// prepended to the prompt, since there is no separate system slot.
func NewRequest(system string, history []Turn, prompt string) Request {
	system = strings.TrimSpace(system)
	if len(history) == 0 && system != "" {
		prompt = system + "\n\n" + prompt
	}
	return Request{History: history, Prompt: prompt}
}
