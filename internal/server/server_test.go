package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashKey(t *testing.T, key string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestKeyVerifier(t *testing.T) {
	v := NewKeyVerifier([]string{hashKey(t, "first-key"), " ", hashKey(t, "second-key")})

	assert.True(t, v.Verify("first-key"))
	assert.True(t, v.Verify("second-key"))
	assert.True(t, v.Verify("second-key"), "cached")
	assert.False(t, v.Verify("wrong"))
	assert.False(t, v.Verify(""))
}

func TestKeyVerifier_NoHashes(t *testing.T) {
	assert.False(t, NewKeyVerifier(nil).Verify("anything"))
}

func TestMux(t *testing.T) {
	var gotIP string

	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = RequestRemoteIP(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	srv := httptest.NewServer(NewMux(MuxConfig{
		APIKeyHashes: []string{hashKey(t, "secret")},
		MCPHandler:   mcp,
		Logger:       testLogger(),
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name       string
		auth       string
		wantStatus int
		wantHeader string
	}{
		{name: "no header", auth: "", wantStatus: http.StatusUnauthorized, wantHeader: `Bearer realm="inventory-sync"`},
		{name: "basic auth", auth: "Basic Zm9vOmJhcg==", wantStatus: http.StatusUnauthorized, wantHeader: `Bearer realm="inventory-sync"`},
		{name: "wrong key", auth: "Bearer nope", wantStatus: http.StatusUnauthorized, wantHeader: `Bearer realm="inventory-sync", error="invalid_token"`},
		{name: "valid key", auth: "Bearer secret", wantStatus: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/mcp", nil)
			require.NoError(t, err)

			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantHeader, resp.Header.Get("WWW-Authenticate"))
		})
	}

	assert.Equal(t, "127.0.0.1", gotIP)
}

func TestMux_Healthz(t *testing.T) {
	srv := httptest.NewServer(NewMux(MuxConfig{Logger: testLogger(), MCPHandler: http.NotFoundHandler()}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
}
