package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port": 9000, "db_driver": "postgres", "session_secure": true}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\n# comment\nJWT_SECRET=\"from-dotenv\"\n"), 0o644))
	t.Setenv("JWT_SECRET", "from-env")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9100", get("APP_PORT", ""))
	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "true", get("SESSION_SECURE", ""))
	assert.Equal(t, "from-env", get("JWT_SECRET", ""))
}

func TestLoadFromFilesMissingIsFine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env")))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
}

func TestSessionTTL(t *testing.T) {
	Set("SESSION_TTL", "90m")
	assert.Equal(t, 90*time.Minute, SessionTTL())

	Set("SESSION_TTL", "30")
	assert.Equal(t, 30*time.Minute, SessionTTL())

	Set("SESSION_TTL", "garbage")
	assert.Equal(t, defaultSessionTTL, SessionTTL())

	Set("SESSION_TTL", "")
}

func TestDatabaseDriverFallsBack(t *testing.T) {
	Set("DB_DRIVER", "oracle")
	assert.Equal(t, "sqlite", DatabaseDriver())
	Set("DB_DRIVER", "sqlite")
}
