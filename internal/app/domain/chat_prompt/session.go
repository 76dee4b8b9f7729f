package llmchat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelchat/internal/app/models"
	"github.com/FACorreiaa/go-travelchat/internal/app/observability/metrics"
)

// Session is one conversation. All fields are guarded by mu; readers outside
// the controller go through Snapshot.
type Session struct {
	ID string

	mu                 sync.Mutex
	messages           []models.Message
	preferences        models.UserPreferences
	isStreaming        bool
	suggestionsLoading bool
	structuredLoading  map[int]bool
	suggestions        map[int][]string
	expanded           map[int]bool
	createdAt          time.Time
	updatedAt          time.Time
}

func newSession(prefs models.UserPreferences) *Session {
	now := time.Now()
	return &Session{
		ID:                uuid.New().String(),
		preferences:       prefs,
		structuredLoading: make(map[int]bool),
		suggestions:       make(map[int][]string),
		expanded:          make(map[int]bool),
		createdAt:         now,
		updatedAt:         now,
	}
}

// appendMessage adds a message with the role its position implies and
// returns its index. Callers hold mu.
func (s *Session) appendMessage(content string) int {
	idx := len(s.messages)
	s.messages = append(s.messages, models.Message{
		Index:     idx,
		Role:      models.RoleForIndex(idx),
		Content:   content,
		CreatedAt: time.Now(),
	})
	s.updatedAt = time.Now()
	return idx
}

// resetConversation clears every per-message map and re-adds the welcome
// message. Callers hold mu.
func (s *Session) resetConversation() {
	s.messages = nil
	s.structuredLoading = make(map[int]bool)
	s.suggestions = make(map[int][]string)
	s.expanded = make(map[int]bool)
	s.isStreaming = false
	s.suggestionsLoading = false
	s.appendMessage(WelcomeMessage(s.preferences))
	s.suggestions[0] = WelcomeSuggestions(s.preferences)
}

// chatRequest builds the model request from non-empty messages. Callers hold mu.
func (s *Session) chatRequest() models.ChatRequest {
	msgs := make([]models.ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		if m.Content == "" {
			continue
		}
		msgs = append(msgs, models.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return models.ChatRequest{SessionID: s.ID, Messages: msgs, Preferences: s.preferences}
}

// SessionSnapshot is a copy of a session's state safe to serialise.
type SessionSnapshot struct {
	ID                 string                 `json:"id"`
	Messages           []models.Message       `json:"messages"`
	Preferences        models.UserPreferences `json:"preferences"`
	IsStreaming        bool                   `json:"is_streaming"`
	SuggestionsLoading bool                   `json:"suggestions_loading"`
	StructuredLoading  map[int]bool           `json:"structured_loading"`
	Suggestions        map[int][]string       `json:"suggestions"`
	Expanded           map[int]bool           `json:"expanded"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{
		ID:                 s.ID,
		Messages:           append([]models.Message(nil), s.messages...),
		Preferences:        s.preferences,
		IsStreaming:        s.isStreaming,
		SuggestionsLoading: s.suggestionsLoading,
		StructuredLoading:  make(map[int]bool, len(s.structuredLoading)),
		Suggestions:        make(map[int][]string, len(s.suggestions)),
		Expanded:           make(map[int]bool, len(s.expanded)),
		CreatedAt:          s.createdAt,
		UpdatedAt:          s.updatedAt,
	}
	for k, v := range s.structuredLoading {
		snap.StructuredLoading[k] = v
	}
	for k, v := range s.suggestions {
		snap.Suggestions[k] = append([]string(nil), v...)
	}
	for k, v := range s.expanded {
		snap.Expanded[k] = v
	}
	return snap
}

// SessionStore keeps sessions in memory. Idle sessions expire after the TTL;
// every access slides the expiry.
type SessionStore struct {
	items  *gocache.Cache
	logger *zap.Logger
}

func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleanup := ttl / 2
	if ttl <= 0 {
		ttl, cleanup = gocache.NoExpiration, 0
	}
	store := &SessionStore{items: gocache.New(ttl, cleanup), logger: logger}
	store.items.OnEvicted(func(id string, _ any) {
		metrics.Get().ActiveSessionsGauge.Add(context.Background(), -1)
		logger.Debug("Session evicted", zap.String("session_id", id))
	})
	return store
}

func (st *SessionStore) Add(s *Session) error {
	if err := st.items.Add(s.ID, s, gocache.DefaultExpiration); err != nil {
		return fmt.Errorf("failed to store session %s: %w", s.ID, err)
	}
	metrics.Get().ActiveSessionsGauge.Add(context.Background(), 1)
	return nil
}

// Get returns the session and refreshes its expiry.
func (st *SessionStore) Get(id string) (*Session, error) {
	v, ok := st.items.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	s := v.(*Session)
	st.items.SetDefault(id, s)
	return s, nil
}

func (st *SessionStore) Delete(id string) {
	st.items.Delete(id)
}

func (st *SessionStore) Count() int {
	return st.items.ItemCount()
}
