package chat

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds every user's sessions, current-session pointer and profile
// in memory. It is the single owner of that state: all reads and writes
// go through its methods. An outer RWMutex guards the user map, and a
// per-user mutex serializes everything belonging to one user, so
// concurrent requests for different users never contend.
type Store struct {
	mu    sync.RWMutex
	users map[string]*userState

	now func() time.Time
}

type userState struct {
	mu       sync.Mutex
	sessions map[string]*Session
	order    []string // insertion order, breaks updated_at ties
	current  string
	profile  Profile
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]*userState),
		now:   time.Now,
	}
}

func (s *Store) user(userID string) *userState {
	s.mu.RLock()
	u, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return u
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok = s.users[userID]; ok {
		return u
	}
	u = &userState{
		sessions: make(map[string]*Session),
		profile: Profile{
			Preferences: make(map[string]any),
			CreatedAt:   s.now(),
		},
	}
	s.users[userID] = u
	return u
}

// createLocked allocates and registers a session; caller holds u.mu.
func (s *Store) createLocked(u *userState, userID, title string) *Session {
	now := s.now()
	if title == "" {
		title = "Chat " + now.Format("01/02 15:04")
	}
	sess := &Session{
		ID:        uuid.NewString(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
	}
	u.sessions[sess.ID] = sess
	u.order = append(u.order, sess.ID)
	u.current = sess.ID
	return sess
}

// Create registers a new session and marks it current for the user.
func (s *Store) Create(userID, title string) (Session, error) {
	if userID == "" {
		return Session{}, ErrEmptyUserID
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return copySession(s.createLocked(u, userID, title)), nil
}

// Get returns a snapshot of one session.
func (s *Store) Get(userID, chatID string) (Session, error) {
	if userID == "" {
		return Session{}, ErrEmptyUserID
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	sess, ok := u.sessions[chatID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return copySession(sess), nil
}

// EnsureCurrent returns the user's current session, creating a fresh
// placeholder-titled one if the user has none.
func (s *Store) EnsureCurrent(userID string) (Session, error) {
	if userID == "" {
		return Session{}, ErrEmptyUserID
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	if sess, ok := u.sessions[u.current]; ok {
		return copySession(sess), nil
	}
	return copySession(s.createLocked(u, userID, placeholderTitle)), nil
}

// Switch marks an existing session as the user's current one.
func (s *Store) Switch(userID, chatID string) (Session, error) {
	if userID == "" {
		return Session{}, ErrEmptyUserID
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	sess, ok := u.sessions[chatID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	u.current = chatID
	return copySession(sess), nil
}

// ListSummaries returns session summaries ordered by updated time
// descending (ties keep insertion order), plus the current session id.
// A user with no sessions gets a default one synthesized first.
func (s *Store) ListSummaries(userID string) ([]Summary, string, error) {
	if userID == "" {
		return nil, "", ErrEmptyUserID
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(u.sessions) == 0 {
		s.createLocked(u, userID, placeholderTitle)
	}

	out := make([]Summary, 0, len(u.order))
	for _, id := range u.order {
		sess, ok := u.sessions[id]
		if !ok {
			continue
		}
		out = append(out, Summary{
			ID:           sess.ID,
			Title:        sess.Title,
			Preview:      firstUserPreview(sess.Messages),
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
			MessageCount: len(sess.Messages),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, u.current, nil
}

// Rename updates a session's title. Empty titles are rejected by the
// caller; a missing session reports false.
func (s *Store) Rename(userID, chatID, title string) bool {
	if userID == "" {
		return false
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	sess, ok := u.sessions[chatID]
	if !ok {
		return false
	}
	sess.Title = title
	sess.UpdatedAt = s.now()
	return true
}

// Delete removes a session. If it was the current one, the most recently
// updated remaining session is promoted, or a fresh default session is
// created so the current pointer never dangles.
func (s *Store) Delete(userID, chatID string) bool {
	if userID == "" {
		return false
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.sessions[chatID]; !ok {
		return false
	}
	delete(u.sessions, chatID)
	for i, id := range u.order {
		if id == chatID {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}

	if u.current != chatID {
		return true
	}
	u.current = ""
	var newest *Session
	for _, sess := range u.sessions {
		if newest == nil || sess.UpdatedAt.After(newest.UpdatedAt) {
			newest = sess
		}
	}
	if newest != nil {
		u.current = newest.ID
	} else {
		s.createLocked(u, userID, placeholderTitle)
	}
	return true
}

// Search matches the query case-insensitively against titles first, then
// message contents. A session appears at most once. Results keep the
// updated-descending order of the listing path.
func (s *Store) Search(userID, query string) ([]Session, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []Session{}, nil
	}

	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	matched := make([]Session, 0)
	for _, id := range u.order {
		sess, ok := u.sessions[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(sess.Title), query) {
			matched = append(matched, copySession(sess))
			continue
		}
		for _, m := range sess.Messages {
			if strings.Contains(strings.ToLower(m.Content), query) {
				matched = append(matched, copySession(sess))
				break
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})
	return matched, nil
}

// Append adds one message to a session and bumps updated_at. When the
// session reaches exactly two messages while still carrying a placeholder
// title, the title derives from the first user message (truncated to 30
// characters with an ellipsis).
func (s *Store) Append(userID, chatID string, msg Message) (Session, error) {
	if userID == "" {
		return Session{}, ErrEmptyUserID
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	sess, ok := u.sessions[chatID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	sess.Messages = append(sess.Messages, msg)
	sess.UpdatedAt = s.now()

	if len(sess.Messages) == 2 && strings.HasPrefix(sess.Title, placeholderTitle) {
		sess.Title = truncate(sess.Messages[0].Content, 30)
	}
	return copySession(sess), nil
}

// Profile returns a snapshot of the user's profile.
func (s *Store) Profile(userID string) (Profile, error) {
	if userID == "" {
		return Profile{}, ErrEmptyUserID
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return copyProfile(u.profile), nil
}

// UpdateProfile sets the display name (when non-nil) and merges the given
// preferences key-by-key into the existing mapping.
func (s *Store) UpdateProfile(userID string, name *string, prefs map[string]any) (Profile, error) {
	if userID == "" {
		return Profile{}, ErrEmptyUserID
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	if name != nil {
		u.profile.Name = strings.TrimSpace(*name)
	}
	for k, v := range prefs {
		u.profile.Preferences[k] = v
	}
	return copyProfile(u.profile), nil
}

func copySession(sess *Session) Session {
	out := *sess
	// keep Messages non-nil so empty sessions serialize as [] rather than null
	out.Messages = make([]Message, len(sess.Messages))
	copy(out.Messages, sess.Messages)
	return out
}

func copyProfile(p Profile) Profile {
	out := p
	out.Preferences = make(map[string]any, len(p.Preferences))
	for k, v := range p.Preferences {
		out.Preferences[k] = v
	}
	return out
}

func firstUserPreview(msgs []Message) string {
	for _, m := range msgs {
		if m.Role == RoleUser {
			return truncate(m.Content, 50)
		}
	}
	return ""
}

// truncate cuts s to at most n characters, not bytes, so a multi-byte
// rune is never split.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
