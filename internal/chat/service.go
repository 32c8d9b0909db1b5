package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/suPer8Hu/chatflow/internal/ai"
)

// WeatherGateway resolves a city name to a weather sentence or a typed
// failure. Failures render as reply text, never as a turn error.
type WeatherGateway interface {
	Fetch(ctx context.Context, city string) (string, error)
}

// TurnResult is one completed exchange.
type TurnResult struct {
	Response  string
	ModelUsed string
	ChatID    string
}

// Service routes each incoming message to the weather short circuit, the
// tool-calling agent, or the plain completion backend, and writes the
// resulting exchange into the store. The agent is the primary backend
// when configured; any failure there falls back to the completion
// backend. Both backends run under the configured timeout.
type Service struct {
	store     *Store
	detector  *Detector
	weather   WeatherGateway
	completer ai.Completer
	agent     ai.Agent
	ctxb      *ContextBuilder
	models    []string
	timeout   time.Duration
}

func NewService(store *Store, detector *Detector, weather WeatherGateway, completer ai.Completer, agent ai.Agent, ctxb *ContextBuilder, models []string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		store:     store,
		detector:  detector,
		weather:   weather,
		completer: completer,
		agent:     agent,
		ctxb:      ctxb,
		models:    models,
		timeout:   timeout,
	}
}

// Initialized reports whether any language-model backend is configured.
func (s *Service) Initialized() bool {
	return s.completer != nil || s.agent != nil
}

func (s *Service) resolveModel(model string) string {
	for _, m := range s.models {
		if m == model {
			return model
		}
	}
	if len(s.models) > 0 {
		return s.models[0]
	}
	return model
}

// Chat runs one turn for the user's current session.
func (s *Service) Chat(ctx context.Context, userID, model, message string) (TurnResult, error) {
	// 1) validate before any state change
	message = strings.TrimSpace(message)
	if message == "" {
		return TurnResult{}, ErrEmptyMessage
	}
	if userID == "" {
		return TurnResult{}, ErrEmptyUserID
	}
	model = s.resolveModel(model)

	// 2) every exchange belongs to exactly one session
	sess, err := s.store.EnsureCurrent(userID)
	if err != nil {
		return TurnResult{}, err
	}

	// 3) weather short circuit bypasses all language-model backends
	if triggered, city := s.detector.Detect(message); triggered && s.weather != nil {
		return s.weatherTurn(ctx, userID, sess.ID, message, city)
	}

	if s.completer == nil && s.agent == nil {
		return TurnResult{}, ai.ErrNotConfigured
	}

	profile, err := s.store.Profile(userID)
	if err != nil {
		return TurnResult{}, err
	}

	// 4) record the user message, then attempt the primary backend
	sess, err = s.store.Append(userID, sess.ID, Message{Role: RoleUser, Content: message})
	if err != nil {
		return TurnResult{}, err
	}

	fellBack := false
	if s.agent != nil {
		res, agentErr := s.runAgent(ctx, s.ctxb.Transcript(sess, profile))
		if agentErr == nil {
			tag := res.Model
			if tag == "" {
				tag = model
			}
			if res.UsedTool {
				tag += " + " + WeatherModel
			}
			s.appendAssistant(userID, sess.ID, res.Text, tag)
			return TurnResult{Response: res.Text, ModelUsed: tag, ChatID: sess.ID}, nil
		}
		log.Printf("[chat] agent backend failed, falling back: %v", agentErr)
		fellBack = true
	}

	// 5) direct completion, also the fallback after an agent failure
	if s.completer == nil {
		return TurnResult{}, ai.ErrNotConfigured
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.completer.Complete(cctx, model, s.ctxb.Messages(sess, profile))
	if err != nil {
		// the user message stays recorded; no assistant message is written
		log.Printf("[chat] completion backend failed user=%s chat=%s: %v", userID, sess.ID, err)
		return TurnResult{}, err
	}

	tag := model
	if fellBack {
		tag = model + " (fallback)"
	}
	s.appendAssistant(userID, sess.ID, text, tag)
	return TurnResult{Response: text, ModelUsed: tag, ChatID: sess.ID}, nil
}

func (s *Service) weatherTurn(ctx context.Context, userID, chatID, message, city string) (TurnResult, error) {
	if _, err := s.store.Append(userID, chatID, Message{Role: RoleUser, Content: message}); err != nil {
		return TurnResult{}, err
	}

	wctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	reply, err := s.weather.Fetch(wctx, city)
	if err != nil {
		// a failed lookup is still a valid (if unhelpful) answer
		reply = err.Error()
	}

	s.appendAssistant(userID, chatID, reply, WeatherModel)
	return TurnResult{Response: reply, ModelUsed: WeatherModel, ChatID: chatID}, nil
}

func (s *Service) runAgent(ctx context.Context, input string) (ai.Result, error) {
	actx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.agent.Run(actx, input)
}

func (s *Service) appendAssistant(userID, chatID, content, tag string) {
	_, err := s.store.Append(userID, chatID, Message{Role: RoleAssistant, Content: content, Model: tag})
	if err != nil {
		// only possible if the session vanished mid-turn
		log.Printf("[chat] append assistant message user=%s chat=%s: %v", userID, chatID, err)
	}
}
