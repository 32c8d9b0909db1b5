package ai

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	lctools "github.com/tmc/langchaingo/tools"
)

// WeatherService is the slice of the weather gateway the agent's tool needs.
type WeatherService interface {
	Fetch(ctx context.Context, city string) (string, error)
}

// ToolAgent runs a one-shot tool-calling agent whose catalog contains the
// weather lookup tool.
type ToolAgent struct {
	llm     llms.Model
	model   string
	weather WeatherService
}

func NewToolAgent(baseURL, apiKey, model string, weather WeatherService) (*ToolAgent, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	llm, err := lcopenai.New(
		lcopenai.WithBaseURL(strings.TrimRight(baseURL, "/")),
		lcopenai.WithToken(apiKey),
		lcopenai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &ToolAgent{llm: llm, model: model, weather: weather}, nil
}

// Model returns the model the agent was configured with.
func (a *ToolAgent) Model() string { return a.model }

func (a *ToolAgent) Run(ctx context.Context, input string) (Result, error) {
	if a == nil || a.llm == nil {
		return Result{}, ErrNotConfigured
	}

	// A fresh tool per run so the recorded usage belongs to this turn only.
	tool := &weatherTool{svc: a.weather}
	agent := agents.NewOneShotAgent(a.llm, []lctools.Tool{tool}, agents.WithMaxIterations(3))
	executor := agents.NewExecutor(agent)

	out, err := chains.Run(ctx, executor, input)
	if err != nil {
		return Result{}, &CallError{Backend: "agent", Kind: classify(err), Err: err}
	}
	return Result{Text: out, Model: a.model, UsedTool: tool.used}, nil
}

// weatherTool adapts the weather gateway to the agent tool interface and
// records whether it was invoked.
type weatherTool struct {
	svc  WeatherService
	used bool
}

func (t *weatherTool) Name() string { return "get_current_weather" }

func (t *weatherTool) Description() string {
	return "Looks up the current weather for a city. Input must be a city name, e.g. 'Paris'."
}

func (t *weatherTool) Call(ctx context.Context, input string) (string, error) {
	t.used = true
	city := strings.Trim(strings.TrimSpace(input), `"'`)
	summary, err := t.svc.Fetch(ctx, city)
	if err != nil {
		// Lookup failures are valid observations, not run failures.
		return err.Error(), nil
	}
	return summary, nil
}
