package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.CheckInterval.Std())
	assert.Equal(t, 24*time.Hour, cfg.RenewalWindow.Std())
	assert.Equal(t, 100, cfg.HistoryRetention)
	assert.NotEmpty(t, cfg.TokensDir)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
project = "demo-project"
topic = "gmail-push"
check_interval = "30m"
renewal_window = "12h"
subjects = ["alice@example.com", "bob@example.com"]
label_ids = ["INBOX", "IMPORTANT"]
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo-project", cfg.Project)
	assert.Equal(t, "gmail-push", cfg.Topic)
	assert.Equal(t, 30*time.Minute, cfg.CheckInterval.Std())
	assert.Equal(t, 12*time.Hour, cfg.RenewalWindow.Std())
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, cfg.Subjects)
	assert.Equal(t, []string{"INBOX", "IMPORTANT"}, cfg.LabelIDs)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
project = "from-file"
topic = "from-file-topic"
`), 0600))

	t.Setenv("GWATCH_PROJECT", "from-env")
	t.Setenv("GWATCH_CHECK_INTERVAL", "15m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Project)
	assert.Equal(t, "from-file-topic", cfg.Topic)
	assert.Equal(t, 15*time.Minute, cfg.CheckInterval.Std())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("project = [broken"), 0600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Defaults()
	cfg.Project = "p"
	cfg.Topic = "t"
	assert.NoError(t, cfg.Validate())

	missing := cfg
	missing.Project = ""
	assert.Error(t, missing.Validate())

	missing = cfg
	missing.Topic = ""
	assert.Error(t, missing.Validate())

	bad := cfg
	bad.CheckInterval = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.RenewalWindow = Duration(-time.Hour)
	assert.Error(t, bad.Validate())
}

func TestConfig_ExplicitDirsPreserved(t *testing.T) {
	t.Setenv("GWATCH_TOKENS_DIR", "/srv/gwatch/tokens")
	t.Setenv("GWATCH_DATA_DIR", "/srv/gwatch/data")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/gwatch/tokens", cfg.TokensDir)
	assert.Equal(t, "/srv/gwatch/data", cfg.DataDir)
}
