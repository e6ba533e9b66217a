package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agentconsole/cli/internal/keychain"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against srv with a file keyring holding token.
func runCLI(t *testing.T, srv *httptest.Server, token string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir+"/config")
	t.Setenv("XDG_STATE_HOME", dir+"/state")
	t.Setenv("AGENTCONSOLE_KEYRING_BACKEND", keychain.BackendFile)
	t.Setenv("AGENTCONSOLE_KEYRING_FILE_DIR", dir+"/keyring")
	t.Setenv(keychain.PasswordEnv, "test-passphrase")

	store, err := keychain.NewManager(keychain.Options{
		Backend: keychain.BackendFile,
		FileDir: dir + "/keyring",
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	require.NoError(t, store.Set(token))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--server", srv.URL))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		flagServer = ""
		if c, _, err := rootCmd.Find([]string{"agents"}); err == nil {
			_ = c.PersistentFlags().Set("json", "false")
		}
	})

	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func agentServer(t *testing.T, agents ...map[string]any) *httptest.Server {
	t.Helper()
	send := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	r := mux.NewRouter()
	r.HandleFunc("/validate-access-token", func(w http.ResponseWriter, req *http.Request) {
		send(w, map[string]any{"id": 1, "name": "Ada", "email": "a@b.com"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/agents", func(w http.ResponseWriter, req *http.Request) {
		if agents == nil {
			agents = []map[string]any{}
		}
		send(w, agents)
	}).Methods(http.MethodGet)
	r.HandleFunc("/agents/{id}", func(w http.ResponseWriter, req *http.Request) {
		send(w, agents[0])
	}).Methods(http.MethodGet)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestAgentsListJSONIsAlwaysAnArray(t *testing.T) {
	tests := []struct {
		name   string
		agents []map[string]any
		want   int
	}{
		{name: "empty", agents: nil, want: 0},
		{name: "single", agents: []map[string]any{{"id": 5, "name": "researcher"}}, want: 1},
		{name: "several", agents: []map[string]any{{"id": 5, "name": "researcher"}, {"id": 6, "name": "writer"}}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, agentServer(t, tt.agents...), "T", "agents", "list", "--json")
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(strings.TrimSpace(out), "["), "got %q", out)

			var got []map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestAgentsGetJSONIsAnObject(t *testing.T) {
	out, err := runCLI(t, agentServer(t, map[string]any{"id": 5, "name": "researcher"}), "T", "agents", "get", "5", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "researcher", got["name"])
	assert.EqualValues(t, 5, got["id"])
}
