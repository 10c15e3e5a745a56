// Package advisor runs the fragrance chat: a conversation log kept locally and
// re-sent in full to a stateless text-completion backend on every turn.
package advisor

import (
	"context"
	"errors"
)

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Advisor answers the last user turn given the whole history.
type Advisor interface {
	Advise(ctx context.Context, history []Message) (string, error)
}

// AdviseFunc adapts a function to Advisor.
type AdviseFunc func(ctx context.Context, history []Message) (string, error)

func (f AdviseFunc) Advise(ctx context.Context, history []Message) (string, error) {
	return f(ctx, history)
}

var (
	ErrBusy         = errors.New("a reply is already in progress")
	ErrEmptyMessage = errors.New("message is empty")
	ErrUnavailable  = errors.New("advisor not configured")
	ErrEmptyReply   = errors.New("advisor returned an empty reply")
)

// Unavailable is used when no backend is configured; every turn gets the fallback.
var Unavailable Advisor = AdviseFunc(func(context.Context, []Message) (string, error) {
	return "", ErrUnavailable
})
