package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stellarbit/hubclient/internal/models"
	"github.com/stellarbit/hubclient/internal/sessions"
	"github.com/stellarbit/hubclient/internal/testing/hubtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	hub        *hubtest.Hub
	configFile string
	stateDir   string
}

func newCLIEnv(t *testing.T, password string) *cliEnv {
	t.Helper()

	h := hubtest.New(t)
	h.AddUser(42, "nova", "stardust")
	h.AddUser(7, "orion", "belt")

	alphaAddr := "10.0.0.1:9000"
	h.AddServer(models.ServerDetails{Name: "Alpha", ID: 1, Addr: &alphaAddr, OwnerID: 7})
	h.AddServer(models.ServerDetails{Name: "Nebula", ID: 2, OwnerID: 42})

	dir := t.TempDir()
	stateDir := filepath.Join(dir, "state")
	configFile := filepath.Join(dir, "config.yaml")

	config := fmt.Sprintf(`hub:
  endpoint: %s
  username: nova
  password: %q
  timeout: 5s
sessions:
  persist: true
  path: %s
logging:
  level: warn
`, h.URL(), password, stateDir)
	require.NoError(t, os.WriteFile(configFile, []byte(config), 0600))

	return &cliEnv{hub: h, configFile: configFile, stateDir: stateDir}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config=" + e.configFile}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func (e *cliEnv) sessionFile() string {
	return filepath.Join(e.stateDir, "sessions", sessions.HubKey(e.hub.URL())+".yaml")
}

func TestLogin_StoresSession(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	out, err := env.run(t, "login")
	require.NoError(t, err)

	assert.Contains(t, out, "Logged in")
	assert.Contains(t, out, "nova (id 42)")
	assert.FileExists(t, env.sessionFile())
}

func TestServers_ReusesStoredSession(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	_, err := env.run(t, "login")
	require.NoError(t, err)

	out, err := env.run(t, "servers")
	require.NoError(t, err)

	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "10.0.0.1:9000")
	assert.Contains(t, out, "Nebula")
	assert.Contains(t, out, "OFFLINE")
	assert.Contains(t, out, "(yours)")
	assert.Equal(t, 1, env.hub.Logins())
}

func TestServers_ExpiredStoredSessionLogsInAgain(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	_, err := env.run(t, "login")
	require.NoError(t, err)

	env.hub.ExpireSessions()

	out, err := env.run(t, "servers")
	require.NoError(t, err)

	assert.Contains(t, out, "Alpha")
	assert.Equal(t, 2, env.hub.Logins())
	assert.Equal(t, 2, env.hub.Hits("/api/servers"))
}

func TestUser(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "by id", args: []string{"user", "42"}, want: "nova"},
		{name: "by username", args: []string{"user", "--username", "orion"}, want: "ID: 7"},
		{name: "self", args: []string{"user"}, want: "ID: 42"},
		{name: "invalid id", args: []string{"user", "abc"}, wantErr: true},
		{name: "unknown id", args: []string{"user", "99"}, wantErr: true},
		{name: "both forms", args: []string{"user", "7", "--username", "orion"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestAccessAndVerify(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	out, err := env.run(t, "access", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Access granted to server 1")

	var token string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Token:") {
			fields := strings.Fields(line)
			token = fields[len(fields)-1]
		}
	}
	require.NotEmpty(t, token)

	out, err = env.run(t, "verify", "1", "42", token)
	require.NoError(t, err)
	assert.Contains(t, out, "Token valid")

	out, err = env.run(t, "verify", "1", "42", "forged")
	assert.ErrorIs(t, err, errTokenRejected)
	assert.Contains(t, out, "Token rejected")
}

func TestKeepAlive(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	out, err := env.run(t, "keep-alive", "2", "10.0.0.2:9000")
	require.NoError(t, err)
	assert.Contains(t, out, "Server 2 is listed at 10.0.0.2:9000")

	server, ok := env.hub.Server(2)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2:9000", server.GetAddr())

	_, err = env.run(t, "keep-alive", "1", "10.0.0.9:9000")
	assert.Error(t, err, "only the owner may list a server")

	_, err = env.run(t, "keep-alive", "2", "10.0.0.2:9000", "--interval", "10ms")
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	_, err := env.run(t, "login")
	require.NoError(t, err)
	require.FileExists(t, env.sessionFile())

	out, err := env.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	assert.NoFileExists(t, env.sessionFile())

	out, err = env.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored session")
}

func TestLogin_PromptsForMissingPassword(t *testing.T) {
	env := newCLIEnv(t, "")

	var prompted string
	passwordPrompt = func(username string) (string, error) {
		prompted = username
		return "stardust", nil
	}
	t.Cleanup(func() { passwordPrompt = promptPassword })

	_, err := env.run(t, "login")
	require.NoError(t, err)
	assert.Equal(t, "nova", prompted)
}

func TestServers_PromptsAgainAfterStoredSessionExpires(t *testing.T) {
	env := newCLIEnv(t, "")

	prompts := 0
	passwordPrompt = func(string) (string, error) {
		prompts++
		return "stardust", nil
	}
	t.Cleanup(func() { passwordPrompt = promptPassword })

	_, err := env.run(t, "login")
	require.NoError(t, err)
	assert.Equal(t, 1, prompts)

	// A live stored session needs no password
	_, err = env.run(t, "servers")
	require.NoError(t, err)
	assert.Equal(t, 1, prompts)

	env.hub.ExpireSessions()

	out, err := env.run(t, "servers")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Equal(t, 2, prompts)
	assert.Equal(t, 2, env.hub.Logins())
}

func TestLogin_RejectedCredentials(t *testing.T) {
	env := newCLIEnv(t, "wrong")

	_, err := env.run(t, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hub rejected the credentials for nova")
	assert.NoFileExists(t, env.sessionFile())
}

func TestOutputFormats(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	out, err := env.run(t, "servers", "-o", "json")
	require.NoError(t, err)

	var servers []models.ServerDetails
	require.NoError(t, json.Unmarshal([]byte(out), &servers))
	require.Len(t, servers, 2)
	assert.Equal(t, "Alpha", servers[0].Name)

	out, err = env.run(t, "user", "42", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "username: nova")
	assert.Contains(t, out, "id: 42")

	out, err = env.run(t, "servers", "--query", ".[] | select(.owner_id == $user_id) | .name")
	require.NoError(t, err)
	assert.Equal(t, "Nebula\n", out)

	_, err = env.run(t, "servers", "-o", "xml")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t, "stardust")

	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hubctl")
}

func TestParseID(t *testing.T) {
	id, err := parseID("server id", "17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	for _, value := range []string{"", "-1", "+1", " 1", "1.5", "x", "9223372036854775808"} {
		_, err := parseID("server id", value)
		assert.Error(t, err, value)
	}
}
