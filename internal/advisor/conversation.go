package advisor

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReplyHook observes every finished turn; fallback is true when the advisor failed.
type ReplyHook func(fallback bool)

// Conversation is an append-only chat log with at most one reply in flight.
type Conversation struct {
	mu       sync.Mutex
	log      []Message
	busy     bool
	advisor  Advisor
	timeout  time.Duration
	fallback string
	logger   *zap.Logger
	onReply  ReplyHook
}

// ConversationOption configures a Conversation
type ConversationOption func(*Conversation)

// WithGreeting seeds the log with an assistant message.
func WithGreeting(text string) ConversationOption {
	return func(c *Conversation) {
		if text != "" {
			c.log = append(c.log, Message{Role: RoleAssistant, Content: text})
		}
	}
}

// WithTimeout bounds each advisor call; the fallback is used when it expires.
func WithTimeout(d time.Duration) ConversationOption {
	return func(c *Conversation) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithFallback(text string) ConversationOption {
	return func(c *Conversation) {
		if text != "" {
			c.fallback = text
		}
	}
}

func WithConversationLogger(l *zap.Logger) ConversationOption {
	return func(c *Conversation) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithReplyHook(h ReplyHook) ConversationOption {
	return func(c *Conversation) { c.onReply = h }
}

const defaultFallback = "Lo siento, tuve un problema de conexión. ¿Cómo puedo ayudarte hoy?"

func NewConversation(a Advisor, opts ...ConversationOption) *Conversation {
	if a == nil {
		a = Unavailable
	}
	c := &Conversation{
		advisor:  a,
		timeout:  20 * time.Second,
		fallback: defaultFallback,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send appends the user's text, asks the advisor with the full log and appends
// the reply. It never surfaces advisor errors: a failure or timeout yields the
// fallback text. ErrEmptyMessage and ErrBusy are the only errors.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return Message{}, ErrBusy
	}
	c.busy = true
	c.log = append(c.log, Message{Role: RoleUser, Content: text})
	history := append([]Message(nil), c.log...)
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	answer, err := c.advisor.Advise(callCtx, history)
	cancel()

	fallback := err != nil || strings.TrimSpace(answer) == ""
	if fallback {
		c.logger.Warn("advisor failed, replying with fallback", zap.Error(err), zap.Int("turns", len(history)))
		answer = c.fallback
	}
	reply := Message{Role: RoleAssistant, Content: answer}

	c.mu.Lock()
	c.log = append(c.log, reply)
	c.busy = false
	c.mu.Unlock()

	if c.onReply != nil {
		c.onReply(fallback)
	}
	return reply, nil
}

// History returns a copy of the log.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.log...)
}

// Busy reports whether a reply is outstanding.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}
