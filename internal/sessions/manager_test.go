package sessions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stellarbit/hubclient/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *models.HubSession {
	return &models.HubSession{
		Version:  "1.0",
		Endpoint: "http://hub.example.com:3000/",
		Username: "nova",
		UserID:   42,
		Cookies: []models.Cookie{
			{Name: "hub_session", Value: "opaque-value", Path: "/"},
		},
	}
}

func TestHubKey(t *testing.T) {
	tests := []struct {
		endpoint string
		expected string
	}{
		{"http://localhost:3000/", "localhost_3000"},
		{"https://Hub.Example.com/", "hub.example.com"},
		{"http://10.0.0.1:8080/base/", "10.0.0.1_8080"},
		{"not a url", "localhost"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, HubKey(tt.endpoint), tt.endpoint)
	}
}

func TestSessionManager_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	hub := HubKey("http://hub.example.com:3000/")

	manager := NewSessionManager(tmpDir)
	require.NoError(t, manager.SaveSession(hub, testSession()))

	info, err := os.Stat(filepath.Join(tmpDir, "sessions", "hub.example.com_3000.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A fresh manager reads what the first one wrote
	reloaded := NewSessionManager(tmpDir)
	require.NoError(t, reloaded.Load(hub))

	session, err := reloaded.GetSession(hub)
	require.NoError(t, err)
	assert.Equal(t, "nova", session.Username)
	assert.Equal(t, int64(42), session.UserID)
	require.Len(t, session.Cookies, 1)
	assert.Equal(t, "opaque-value", session.Cookies[0].Value)
	assert.False(t, session.Timestamp.IsZero())
}

func TestSessionManager_CommitOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	manager := NewSessionManager(tmpDir)

	long := testSession()
	long.Cookies = append(long.Cookies, models.Cookie{Name: "extra", Value: "a-much-longer-cookie-value-than-before"})
	require.NoError(t, manager.SaveSession("hub", long))
	require.NoError(t, manager.SaveSession("hub", testSession()))

	reloaded := NewSessionManager(tmpDir)
	require.NoError(t, reloaded.Load("hub"))
	session, err := reloaded.GetSession("hub")
	require.NoError(t, err)
	assert.Len(t, session.Cookies, 1)
}

func TestSessionManager_GetSession_Missing(t *testing.T) {
	manager := NewSessionManager(t.TempDir())

	require.NoError(t, manager.Load("nowhere"))
	_, err := manager.GetSession("nowhere")
	assert.Error(t, err)
}

func TestSessionManager_GetSession_ExpiredCookies(t *testing.T) {
	manager := NewSessionManager(t.TempDir())

	session := testSession()
	session.Cookies[0].Expires = time.Now().Add(-time.Hour)
	require.NoError(t, manager.SaveSession("hub", session))

	_, err := manager.GetSession("hub")
	assert.Error(t, err)
}

func TestSessionManager_RemoveSession(t *testing.T) {
	tmpDir := t.TempDir()
	manager := NewSessionManager(tmpDir)
	require.NoError(t, manager.SaveSession("hub", testSession()))

	require.NoError(t, manager.RemoveSession("hub"))
	_, err := os.Stat(filepath.Join(tmpDir, "sessions", "hub.yaml"))
	assert.True(t, os.IsNotExist(err))

	// Removing twice is not an error
	assert.NoError(t, manager.RemoveSession("hub"))
}

func TestSessionManager_Load_CorruptFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "sessions"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "sessions", "hub.yaml"), []byte("::: not yaml :::\n\t- ["), 0600))

	manager := NewSessionManager(tmpDir)
	require.NoError(t, manager.Load("hub"))

	_, err := manager.GetSession("hub")
	assert.Error(t, err)
}
