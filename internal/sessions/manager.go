package sessions

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stellarbit/hubclient/internal/models"
	"gopkg.in/yaml.v3"
)

const sessionsDir = "sessions"

// SessionManager persists hub sessions on disk, one YAML file per hub,
// so that consecutive CLI invocations can reuse the same login.
type SessionManager struct {
	lock sync.Mutex // Ensure thread-safe access
	path string
	Hubs map[string]models.HubSession // hub key -> session
}

func NewSessionManager(path string) *SessionManager {
	return &SessionManager{
		path: expandHome(path),
		Hubs: make(map[string]models.HubSession),
	}
}

// HubKey derives the file name used for a hub endpoint. The port is kept so
// that two local hubs do not share a session.
func HubKey(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil || len(parsed.Host) == 0 {
		return "localhost"
	}
	return strings.ReplaceAll(strings.ToLower(parsed.Host), ":", "_")
}

func (m *SessionManager) GetSession(hub string) (*models.HubSession, error) {

	logrus.WithFields(logrus.Fields{
		"hub": hub,
	}).Debugln("Getting hub session")

	m.lock.Lock()
	defer m.lock.Unlock()

	session, ok := m.Hubs[hub]
	if !ok || !session.HasCookies() {
		return nil, fmt.Errorf("no session found for hub: %s", hub)
	}

	return &session, nil
}

func (m *SessionManager) SaveSession(hub string, session *models.HubSession) error {

	logrus.WithFields(logrus.Fields{
		"hub":      hub,
		"username": session.Username,
		"cookies":  len(session.Cookies),
	}).Debugln("Saving hub session")

	m.lock.Lock()
	m.Hubs[hub] = *session
	m.lock.Unlock()

	return m.Commit(hub)
}

func (m *SessionManager) RemoveSession(hub string) error {

	logrus.WithFields(logrus.Fields{
		"hub": hub,
	}).Debugln("Removing hub session")

	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.Hubs, hub)

	err := os.Remove(m.sessionFile(hub))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (m *SessionManager) Commit(hub string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	file, err := m.openSessionFile(hub)
	if err != nil {
		return err
	}
	defer file.Close()

	// Truncate the file to ensure clean write
	if err := file.Truncate(0); err != nil {
		return err
	}

	if _, err := file.Seek(0, 0); err != nil {
		return err
	}

	session := m.Hubs[hub]
	session.Timestamp = time.Now().UTC()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()
	encoder.SetIndent(2)

	return encoder.Encode(session)
}

func (m *SessionManager) Load(hub string) error {

	logrus.Debugln("Checking sessions for hub:", hub)

	m.lock.Lock()
	defer m.lock.Unlock()

	data, err := os.ReadFile(m.sessionFile(hub))
	if os.IsNotExist(err) || (err == nil && len(data) == 0) {
		delete(m.Hubs, hub)
		return nil
	} else if err != nil {
		return err
	}

	var session models.HubSession
	if err := yaml.Unmarshal(data, &session); err != nil {
		// A corrupt file only costs a fresh login
		logrus.WithError(err).Errorf("Failed to parse YAML for hub %s, ignoring stored session", hub)
		delete(m.Hubs, hub)
		return nil
	}

	m.Hubs[hub] = session
	return nil
}

func (m *SessionManager) sessionFile(hub string) string {
	return filepath.Join(m.path, sessionsDir, fmt.Sprintf("%s.yaml", hub))
}

func (m *SessionManager) openSessionFile(hub string) (*os.File, error) {

	dir := filepath.Join(m.path, sessionsDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	// Only allow read/write access to the owner
	file, err := os.OpenFile(m.sessionFile(hub), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	return file, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
