package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/config"
	"github.com/yachtexcel/yachtexcel/pkg/db"
	"github.com/yachtexcel/yachtexcel/pkg/notify"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/vault"
)

func testEnv(t *testing.T) *config.Env {
	t.Helper()
	key, err := vault.GenerateDataKey()
	require.NoError(t, err)
	return &config.Env{
		DatabaseURL: ":memory:",
		Port:        "0",
		BindAddress: "127.0.0.1",
		DataKey:     key,
		JWTSecret:   "test-secret",
	}
}

func TestBuildServer(t *testing.T) {
	env := testEnv(t)
	env.SendGridAPIKey = "sg-key"
	t.Cleanup(func() { audit.Configure(true, nil) })

	gdb, err := openDB(env, true)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))

	s, closeFn, err := buildServer(context.Background(), env, config.Default(), gdb, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, "127.0.0.1:0", s.Addr())
	assert.NotNil(t, s.Extractor)
	assert.NotNil(t, s.Consensus)
	assert.Nil(t, s.AuditStore)
	assert.Contains(t, s.Notifiers, notify.ChannelEmail)
	assert.NotContains(t, s.Notifiers, notify.ChannelWhatsApp)

	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "yachtexcel", status["service"])
	assert.Equal(t, version, status["version"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/yachts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuildServerRejectsBadTrustedProxy(t *testing.T) {
	env := testEnv(t)
	env.TrustedProxies = []string{"10.0.0.0/8", "proxy.internal"}

	gdb, err := openDB(env, true)
	require.NoError(t, err)

	_, _, err = buildServer(context.Background(), env, config.Default(), gdb, zap.NewNop())
	assert.ErrorContains(t, err, "proxy.internal")
}

func TestOpenDBRequiresDataKey(t *testing.T) {
	env := testEnv(t)
	env.DataKey = ""

	_, err := openDB(env, true)
	assert.EqualError(t, err, "YACHTEXCEL_DATA_KEY environment variable is required")

	env.DataKey = "not-base64!"
	_, err = openDB(env, false)
	assert.ErrorContains(t, err, "bad YACHTEXCEL_DATA_KEY")
}

func TestLoadMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.yml")
	require.NoError(t, os.WriteFile(path, []byte("yachts:\n  read: manager\n"), 0o600))

	m, err := loadMatrix(path)
	require.NoError(t, err)
	assert.False(t, m.Allows(role.RoleUser, role.ResourceYachts, role.ActionRead))
	assert.True(t, m.Allows(role.RoleManager, role.ResourceYachts, role.ActionRead))

	_, err = loadMatrix(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "failed to open permissions file")
}
