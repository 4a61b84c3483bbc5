package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, ":8181", cfg.Server.Addr)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "flexkonto", cfg.Database.Schema)
	assert.Equal(t, 41.0, cfg.Defaults.WeeklyTargetHours)
	assert.Equal(t, 25.0, cfg.Defaults.YearlyVacationDays)
	assert.Equal(t, []string{"*"}, cfg.Cors.Origins())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	content := `
server:
  addr: ":9000"
db:
  host: db.internal
  name: accounts
defaults:
  weeklytargethours: 38.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("FLEXKONTO_DB_HOST", "db.override")
	t.Setenv("FLEXKONTO_CORS_ALLOWEDORIGINS", "http://localhost:5173, http://localhost:8080")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, "accounts", cfg.Database.Name)
	assert.Equal(t, 38.5, cfg.Defaults.WeeklyTargetHours)
	assert.Equal(t, 25.0, cfg.Defaults.YearlyVacationDays)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.Cors.Origins())
}

func TestLoad_InvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}
