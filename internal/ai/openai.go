package ai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompleter talks to an OpenAI-compatible chat completions endpoint
// (Groq in the default configuration).
type OpenAICompleter struct {
	client *openai.Client
}

func NewOpenAICompleter(baseURL, apiKey string) (*OpenAICompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg)}, nil
}

func (p *OpenAICompleter) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	if p == nil || p.client == nil {
		return "", ErrNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   1024,
		Temperature: 0.7,
		TopP:        1,
		Messages: func() []openai.ChatCompletionMessage {
			out := make([]openai.ChatCompletionMessage, 0, len(messages))
			for _, m := range messages {
				out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
			}
			return out
		}(),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &CallError{Backend: "openai", Kind: classifyOpenAI(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &CallError{Backend: "openai", Kind: KindUpstream, Err: errors.New("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAI(err error) CallKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return kindForStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return kindForStatus(reqErr.HTTPStatusCode)
	}
	return classify(err)
}

func kindForStatus(status int) CallKind {
	switch status {
	case 401, 403:
		return KindAuth
	case 429:
		return KindRateLimit
	default:
		return KindUpstream
	}
}
