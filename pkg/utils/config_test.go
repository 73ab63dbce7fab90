package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	config, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", config.App.Port)
	assert.Equal(t, 10, config.App.PageSize)
	assert.Equal(t, "from-env", config.JWT.Secret)
	assert.Equal(t, 5*time.Minute, config.JWT.AccessLifetime)
	assert.Equal(t, 24*time.Hour, config.JWT.RefreshLifetime)
	assert.Equal(t, 20, config.RateLimit.Requests)
	assert.Equal(t, time.Minute, config.RateLimit.Window)
	assert.Empty(t, config.CORS.AllowedOrigins)
}

func TestLoadConfigFrom_File(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=file-secret\nPAGE_SIZE=25\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\nDB_MAX_CONNS=4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "file-secret", config.JWT.Secret)
	assert.Equal(t, 25, config.App.PageSize)
	assert.Equal(t, int32(4), config.Database.MaxConns)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, config.CORS.AllowedOrigins)
}

func TestLoadConfigFrom_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
