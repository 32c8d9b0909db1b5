package ai

import (
	"context"
	"errors"
	"fmt"
)

// Message is one structured turn handed to a completion backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the outcome of an agent run. UsedTool reports whether a tool
// was actually invoked during the run, so callers never have to infer
// tool use from the reply text.
type Result struct {
	Text     string
	Model    string
	UsedTool bool
}

// Completer is a plain chat-completion backend.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}

// Agent is a tool-aware backend that takes free-text input.
type Agent interface {
	Run(ctx context.Context, input string) (Result, error)
}

// ErrNotConfigured means no client/credential was set up for the backend.
var ErrNotConfigured = errors.New("ai: backend not configured")

type CallKind string

const (
	KindAuth      CallKind = "auth"
	KindRateLimit CallKind = "rate_limit"
	KindTimeout   CallKind = "timeout"
	KindNetwork   CallKind = "network"
	KindUpstream  CallKind = "upstream"
)

// CallError is a failed call to a completion or agent backend.
type CallError struct {
	Backend string
	Kind    CallKind
	Err     error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s call failed: %v", e.Backend, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// classify maps a transport-level error to a CallKind. Backend-specific
// status mapping happens in the backends themselves.
func classify(err error) CallKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindNetwork
}
