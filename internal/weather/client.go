package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error messages double as the assistant-visible reply text, so they are
// written for end users, not operators.
var ErrMissingKey = errors.New("Weather API key is missing. Please set OPENWEATHER_API_KEY.")

// NotFoundError means the upstream has no data for the requested city.
type NotFoundError struct {
	City string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find weather data for '%s'.", e.City)
}

// StatusError is any other non-OK upstream status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Error fetching weather data: %d", e.Code)
}

// UnavailableError is a transport-level failure reaching the upstream.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return "Error fetching weather data: service unavailable."
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Client resolves city names to weather summaries via OpenWeatherMap.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type currentResp struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Fetch returns a human-readable sentence describing the current weather
// in city, or a typed failure.
func (c *Client) Fetch(ctx context.Context, city string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", ErrMissingKey
	}

	endpoint := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		c.BaseURL, url.QueryEscape(city), url.QueryEscape(c.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &UnavailableError{Err: err}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// decoded below
	case resp.StatusCode == http.StatusNotFound:
		return "", &NotFoundError{City: city}
	default:
		return "", &StatusError{Code: resp.StatusCode}
	}

	var decoded currentResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &UnavailableError{Err: err}
	}

	desc := "unknown conditions"
	if len(decoded.Weather) > 0 && decoded.Weather[0].Description != "" {
		desc = decoded.Weather[0].Description
	}

	return fmt.Sprintf("The current weather in %s is %.1f°C with %s. Feels like %.1f°C, humidity %d%%.",
		city, decoded.Main.Temp, desc, decoded.Main.FeelsLike, decoded.Main.Humidity), nil
}
