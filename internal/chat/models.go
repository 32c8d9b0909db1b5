package chat

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// WeatherModel tags assistant messages produced by the weather short
// circuit instead of a real backend.
const WeatherModel = "weather-api"

// placeholderTitle marks sessions whose title was never chosen by the
// user; such titles are replaced by the first user message once the
// session holds its first exchange.
const placeholderTitle = "New Chat"

// Message is one turn of a conversation. Messages are immutable once
// appended; Model is set only on assistant messages.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model,omitempty"`
}

// Session is one titled conversation thread belonging to one user.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id"`
}

// Summary is the listing view of a session.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Preview      string    `json:"preview"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// Profile is the per-user profile; Preferences merge key-by-key on update.
type Profile struct {
	Name        string         `json:"name"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   time.Time      `json:"created_at"`
}
