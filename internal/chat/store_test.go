package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"
)

// fixedClock hands out strictly increasing timestamps.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore() (*Store, *fixedClock) {
	clock := &fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore()
	s.now = clock.next
	return s, clock
}

func TestCreate_UniqueIDsAndCurrent(t *testing.T) {
	s, _ := newTestStore()

	seen := make(map[string]bool)
	var last Session
	for i := 0; i < 5; i++ {
		sess, err := s.Create("u1", "")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[sess.ID] {
			t.Fatalf("duplicate session id %q", sess.ID)
		}
		seen[sess.ID] = true
		last = sess
	}

	cur, err := s.EnsureCurrent("u1")
	if err != nil {
		t.Fatalf("ensure current: %v", err)
	}
	if cur.ID != last.ID {
		t.Fatalf("current = %q, want last created %q", cur.ID, last.ID)
	}
}

func TestCreate_EmptyUserID(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.Create("", "x"); err != ErrEmptyUserID {
		t.Fatalf("err = %v, want ErrEmptyUserID", err)
	}
}

func TestCreate_DefaultTitle(t *testing.T) {
	s, _ := newTestStore()
	sess, err := s.Create("u1", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(sess.Title, "Chat ") {
		t.Fatalf("default title = %q, want 'Chat <date-time>'", sess.Title)
	}
}

func TestDelete_AlwaysLeavesValidCurrent(t *testing.T) {
	s, _ := newTestStore()

	a, _ := s.Create("u1", "a")
	b, _ := s.Create("u1", "b") // current

	if !s.Delete("u1", b.ID) {
		t.Fatalf("delete current returned false")
	}
	cur, err := s.EnsureCurrent("u1")
	if err != nil {
		t.Fatalf("ensure current: %v", err)
	}
	if cur.ID != a.ID {
		t.Fatalf("current after delete = %q, want promoted %q", cur.ID, a.ID)
	}

	// deleting the last session synthesizes a fresh one
	if !s.Delete("u1", a.ID) {
		t.Fatalf("delete last returned false")
	}
	cur, err = s.EnsureCurrent("u1")
	if err != nil {
		t.Fatalf("ensure current: %v", err)
	}
	if cur.ID == a.ID || cur.ID == b.ID {
		t.Fatalf("current still points at a deleted session")
	}
	if _, err := s.Get("u1", cur.ID); err != nil {
		t.Fatalf("current session does not exist: %v", err)
	}
}

func TestDelete_Missing(t *testing.T) {
	s, _ := newTestStore()
	s.Create("u1", "a")
	if s.Delete("u1", "nope") {
		t.Fatalf("delete of unknown session returned true")
	}
}

func TestRename(t *testing.T) {
	s, _ := newTestStore()
	sess, _ := s.Create("u1", "old")
	before := sess.UpdatedAt

	if s.Rename("u1", "nope", "x") {
		t.Fatalf("rename of unknown session returned true")
	}

	if !s.Rename("u1", sess.ID, "Trip planning") {
		t.Fatalf("rename returned false")
	}
	got, err := s.Get("u1", sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Trip planning" {
		t.Fatalf("title = %q", got.Title)
	}
	if !got.UpdatedAt.After(before) {
		t.Fatalf("updated_at not bumped: %v -> %v", before, got.UpdatedAt)
	}
}

func TestListSummaries_OrderedByUpdatedDesc(t *testing.T) {
	s, _ := newTestStore()

	s1, _ := s.Create("u1", "first")  // oldest update after appends below
	s2, _ := s.Create("u1", "second")
	s3, _ := s.Create("u1", "third")

	// bump updated_at in order s1 < s2 < s3
	s.Append("u1", s1.ID, Message{Role: RoleUser, Content: "one"})
	s.Append("u1", s2.ID, Message{Role: RoleUser, Content: "two"})
	s.Append("u1", s3.ID, Message{Role: RoleUser, Content: "three"})

	summaries, current, err := s.ListSummaries("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if current != s3.ID {
		t.Fatalf("current = %q, want %q", current, s3.ID)
	}
	if len(summaries) != 3 {
		t.Fatalf("len = %d, want 3", len(summaries))
	}
	want := []string{s3.ID, s2.ID, s1.ID}
	for i, id := range want {
		if summaries[i].ID != id {
			t.Fatalf("order[%d] = %q, want %q", i, summaries[i].ID, id)
		}
	}
}

func TestListSummaries_SynthesizesDefaultSession(t *testing.T) {
	s, _ := newTestStore()

	summaries, current, err := s.ListSummaries("fresh-user")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len = %d, want 1 synthesized session", len(summaries))
	}
	if current != summaries[0].ID {
		t.Fatalf("current %q does not match synthesized session %q", current, summaries[0].ID)
	}
	if summaries[0].Title != "New Chat" {
		t.Fatalf("synthesized title = %q", summaries[0].Title)
	}
}

func TestListSummaries_Preview(t *testing.T) {
	s, _ := newTestStore()
	sess, _ := s.Create("u1", "t")

	long := strings.Repeat("a", 60)
	s.Append("u1", sess.ID, Message{Role: RoleAssistant, Content: "ignored"})
	s.Append("u1", sess.ID, Message{Role: RoleUser, Content: long})

	summaries, _, _ := s.ListSummaries("u1")
	var got Summary
	for _, sum := range summaries {
		if sum.ID == sess.ID {
			got = sum
		}
	}
	want := strings.Repeat("a", 50) + "..."
	if got.Preview != want {
		t.Fatalf("preview = %q, want %q", got.Preview, want)
	}
	if got.MessageCount != 2 {
		t.Fatalf("message count = %d, want 2", got.MessageCount)
	}
}

func TestAppend_TitleAutoDerivation(t *testing.T) {
	s, _ := newTestStore()

	sess, _ := s.Create("u1", "New Chat")
	s.Append("u1", sess.ID, Message{Role: RoleUser, Content: "Tell me about quantum computing"})
	got, _ := s.Append("u1", sess.ID, Message{Role: RoleAssistant, Content: "sure"})

	if got.Title != "Tell me about quantum computin..." {
		t.Fatalf("derived title = %q", got.Title)
	}

	short, _ := s.Create("u1", "New Chat")
	s.Append("u1", short.ID, Message{Role: RoleUser, Content: "hello"})
	got, _ = s.Append("u1", short.ID, Message{Role: RoleAssistant, Content: "hi"})
	if got.Title != "hello" {
		t.Fatalf("short title = %q, want full text with no ellipsis", got.Title)
	}
}

func TestAppend_TitleDerivationMultiByte(t *testing.T) {
	s, _ := newTestStore()

	sess, _ := s.Create("u1", "New Chat")
	first := strings.Repeat("é", 31)
	s.Append("u1", sess.ID, Message{Role: RoleUser, Content: first})
	got, _ := s.Append("u1", sess.ID, Message{Role: RoleAssistant, Content: "ok"})

	want := strings.Repeat("é", 30) + "..."
	if got.Title != want {
		t.Fatalf("derived title = %q, want %q", got.Title, want)
	}
	if !utf8.ValidString(got.Title) {
		t.Fatalf("derived title is not valid UTF-8: %q", got.Title)
	}
}

func TestGet_EmptySessionMessagesNotNull(t *testing.T) {
	s, _ := newTestStore()
	sess, _ := s.Create("u1", "fresh")

	got, err := s.Get("u1", sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Messages == nil {
		t.Fatalf("fresh session has nil Messages")
	}
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"messages":[]`) {
		t.Fatalf("fresh session serializes as %s, want \"messages\":[]", b)
	}
}

func TestAppend_NoDerivationForCustomTitle(t *testing.T) {
	s, _ := newTestStore()
	sess, _ := s.Create("u1", "My title")
	s.Append("u1", sess.ID, Message{Role: RoleUser, Content: "hello"})
	got, _ := s.Append("u1", sess.ID, Message{Role: RoleAssistant, Content: "hi"})
	if got.Title != "My title" {
		t.Fatalf("title = %q, want untouched custom title", got.Title)
	}
}

func TestSearch(t *testing.T) {
	s, _ := newTestStore()

	trip, _ := s.Create("u1", "Trip planning")
	other, _ := s.Create("u1", "Groceries")
	s.Append("u1", other.ID, Message{Role: RoleUser, Content: "what about the budget for this month"})
	s.Append("u1", other.ID, Message{Role: RoleAssistant, Content: "budget looks fine"})

	got, err := s.Search("u1", "trip")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != trip.ID {
		t.Fatalf("title search returned %d results", len(got))
	}

	// no title match, content matches twice, session appears once
	got, _ = s.Search("u1", "budget")
	if len(got) != 1 || got[0].ID != other.ID {
		t.Fatalf("content search returned %d results", len(got))
	}

	got, _ = s.Search("u1", "")
	if len(got) != 0 {
		t.Fatalf("empty query returned %d results", len(got))
	}
}

func TestAppend_ConcurrentSameUser(t *testing.T) {
	s, _ := newTestStore()
	sess, _ := s.Create("u1", "t")

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if _, err := s.Append("u1", sess.ID, Message{
				Role:    RoleUser,
				Content: fmt.Sprintf("msg-%d", i),
			}); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.Get("u1", sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Messages) != n {
		t.Fatalf("lost appends: got %d messages, want %d", len(got.Messages), n)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s, _ := newTestStore()
	sess, _ := s.Create("u1", "t")
	s.Append("u1", sess.ID, Message{Role: RoleUser, Content: "original"})

	snap, _ := s.Get("u1", sess.ID)
	snap.Messages[0].Content = "mutated"

	got, _ := s.Get("u1", sess.ID)
	if got.Messages[0].Content != "original" {
		t.Fatalf("store state leaked through snapshot copy")
	}
}
