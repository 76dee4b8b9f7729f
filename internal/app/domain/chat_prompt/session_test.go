package llmchat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	s := newSession(testPrefs)

	require.NoError(t, store.Add(s))
	assert.Error(t, store.Add(s), "ids are unique")
	assert.Equal(t, 1, store.Count())

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	store.Delete(s.ID)
	_, err = store.Get(s.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, store.Count())
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(20*time.Millisecond, nil)
	s := newSession(testPrefs)
	require.NoError(t, store.Add(s))

	assert.Eventually(t, func() bool {
		_, err := store.Get(s.ID)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	s := newSession(testPrefs)
	s.resetConversation()

	snap := s.Snapshot()
	snap.Suggestions[0][0] = "changed"
	snap.Messages[0].Content = "changed"

	again := s.Snapshot()
	assert.NotEqual(t, "changed", again.Suggestions[0][0])
	assert.NotEqual(t, "changed", again.Messages[0].Content)
}

func TestSession_ChatRequest(t *testing.T) {
	s := newSession(testPrefs)
	s.resetConversation()
	s.appendMessage("What should I eat?")
	s.appendMessage("")

	req := s.chatRequest()
	assert.Equal(t, s.ID, req.SessionID)
	assert.Equal(t, testPrefs, req.Preferences)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, models.RoleAssistant, req.Messages[0].Role)
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: "What should I eat?"}, req.Messages[1])
}
