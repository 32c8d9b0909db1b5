package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	JWTSecret string

	// Completion backend (OpenAI-compatible chat completions API)
	GroqAPIKey  string
	GroqBaseURL string
	Models      []string

	// Tool-calling agent path
	AgentEnabled bool

	// Weather gateway
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	ChatContextWindowSize  int
	AgentContextWindowSize int
	BackendTimeout         time.Duration
}

// DefaultModel is the model used when a request names none (or an unknown one).
func (c Config) DefaultModel() string {
	if len(c.Models) == 0 {
		return ""
	}
	return c.Models[0]
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":5000"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	groqBaseURL := os.Getenv("GROQ_BASE_URL")
	if groqBaseURL == "" {
		groqBaseURL = "https://api.groq.com/openai/v1"
	}

	models := []string{
		"llama3-8b-8192",
		"llama3-70b-8192",
		"mixtral-8x7b-32768",
		"gemma-7b-it",
	}
	if v := os.Getenv("CHAT_MODELS"); v != "" {
		var parsed []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				parsed = append(parsed, m)
			}
		}
		if len(parsed) > 0 {
			models = parsed
		}
	}

	agentEnabled := true
	if v := os.Getenv("AGENT_ENABLED"); v != "" {
		agentEnabled = strings.EqualFold(v, "true") || v == "1"
	}

	weatherBaseURL := os.Getenv("OPENWEATHER_BASE_URL")
	if weatherBaseURL == "" {
		weatherBaseURL = "https://api.openweathermap.org/data/2.5"
	}

	windowSize := 20
	if v := os.Getenv("CHAT_CONTEXT_WINDOW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			windowSize = n
		}
	}

	agentWindowSize := 10
	if v := os.Getenv("AGENT_CONTEXT_WINDOW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			agentWindowSize = n
		}
	}

	timeout := 10 * time.Second
	if v := os.Getenv("BACKEND_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	return Config{
		Addr:      addr,
		JWTSecret: secret,

		GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
		GroqBaseURL: groqBaseURL,
		Models:      models,

		AgentEnabled: agentEnabled,

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: weatherBaseURL,

		ChatContextWindowSize:  windowSize,
		AgentContextWindowSize: agentWindowSize,
		BackendTimeout:         timeout,
	}
}
