package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func writeRaw(t *testing.T, home, body string) string {
	t.Helper()
	cfgDir := filepath.Join(home, ".reqdesk")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	path := filepath.Join(cfgDir, "config")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	withHome(t)

	cfg := Config{APIKey: "test-key"}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadConfigNonExistent(t *testing.T) {
	withHome(t)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveLoadRoundtripWithAllFields(t *testing.T) {
	withHome(t)

	original := Config{
		BaseURL:        "http://sp.example.test",
		APIKey:         "rqd_verylongkeystring12345",
		Username:       "ada",
		RequestManager: true,
		ClosePolicy:    ClosePolicyOptimistic,
		LogFile:        "/tmp/reqdesk.log",
		VimKeys:        true,
	}
	require.NoError(t, original.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestSaveConfigOverwritesExisting(t *testing.T) {
	withHome(t)

	require.NoError(t, (&Config{APIKey: "key1"}).Save())
	require.NoError(t, (&Config{APIKey: "key2"}).Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "key2", loaded.APIKey)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "invalid: yaml: content:")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	withHome(t)
	require.NoError(t, (&Config{Username: "ada"}).Save())

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestLoadConfigRejectsUnknownClosePolicy(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "api_key: k\nclose_policy: never\n")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close_policy")
}

func TestConfigPermissionsStrictlyEnforced(t *testing.T) {
	withHome(t)
	require.NoError(t, (&Config{APIKey: "secret"}).Save())
	require.NoError(t, os.Chmod(Path(), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestLoadConfigRoleDefaultsToRequester(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "api_key: key123\nusername: test\n")

	loaded, err := Load()
	require.NoError(t, err)
	assert.False(t, loaded.RequestManager)
	assert.Equal(t, "", loaded.ClosePolicy)
}

func TestPathReturnsCorrectLocation(t *testing.T) {
	path := Path()
	assert.Contains(t, path, ".reqdesk")
	assert.Equal(t, "config", filepath.Base(path))
}

func TestLogPath(t *testing.T) {
	home := withHome(t)
	var nilCfg *Config
	assert.Equal(t, filepath.Join(home, ".reqdesk", "reqdesk.log"), nilCfg.LogPath())
	assert.Equal(t, "/var/log/x.log", (&Config{LogFile: "/var/log/x.log"}).LogPath())
}
