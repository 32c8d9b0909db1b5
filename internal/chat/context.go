package chat

import (
	"strings"

	"github.com/suPer8Hu/chatflow/internal/ai"
)

const baseInstruction = "You are a helpful AI assistant. Provide clear, concise, and helpful responses."

// ContextBuilder produces the bounded prompt context handed to a backend:
// a system instruction followed by the most recent window of the session.
// The just-appended user message is always the newest element and is
// never dropped by windowing.
type ContextBuilder struct {
	window      int // structured turns for the completion path
	agentWindow int // transcript turns for the agent path
}

func NewContextBuilder(window, agentWindow int) *ContextBuilder {
	if window <= 0 {
		window = 20
	}
	if agentWindow <= 0 {
		agentWindow = 10
	}
	return &ContextBuilder{window: window, agentWindow: agentWindow}
}

func (b *ContextBuilder) system(profile Profile) string {
	instr := baseInstruction
	if profile.Name != "" {
		instr += " The user's name is " + profile.Name + ". Remember this information throughout the conversation."
	}
	return instr
}

// Messages builds the structured context for the completion path.
func (b *ContextBuilder) Messages(sess Session, profile Profile) []ai.Message {
	recent := tail(sess.Messages, b.window)
	out := make([]ai.Message, 0, len(recent)+1)
	out = append(out, ai.Message{Role: "system", Content: b.system(profile)})
	for _, m := range recent {
		out = append(out, ai.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// Transcript builds the agent path's free-text input: the system
// instruction, the preceding turns serialized as plain text, and the
// current user message last.
func (b *ContextBuilder) Transcript(sess Session, profile Profile) string {
	recent := tail(sess.Messages, b.agentWindow)
	if len(recent) == 0 {
		return b.system(profile)
	}
	current := recent[len(recent)-1]

	var sb strings.Builder
	sb.WriteString(b.system(profile))
	if len(recent) > 1 {
		sb.WriteString("\n\nConversation so far:\n")
		for _, m := range recent[:len(recent)-1] {
			if m.Role == RoleAssistant {
				sb.WriteString("Assistant: ")
			} else {
				sb.WriteString("User: ")
			}
			sb.WriteString(m.Content)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nUser: ")
	sb.WriteString(current.Content)
	return sb.String()
}

func tail(msgs []Message, n int) []Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
