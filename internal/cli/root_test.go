package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"serve"},
		{"admin", "reset-password"},
		{"admin", "set-password"},
		{"import-legacy"},
		{"export-day"},
	}

	for _, path := range commands {
		subCmd, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], subCmd.Name())
	}

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "labcheck.yaml", configFlag.DefValue)
}

func TestExportDayCommandReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "labcheck.yaml")
	dbPath := filepath.Join(dir, "data", "labcheck.db")
	require.NoError(t, os.WriteFile(configPath, []byte("db_path: "+dbPath+"\n"), 0o644))
	t.Setenv("DB_PATH", "")
	require.NoError(t, os.Unsetenv("DB_PATH"))

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", configPath, "export-day", "2024-05-20"})
	require.NoError(t, cmd.Execute())

	assert.JSONEq(t, "{}", out.String())
	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "expected database at the configured path")
}

func TestSetPasswordCommandFromStdin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "labcheck.db"))

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetIn(bytes.NewBufferString("StrongPass1\n"))
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.yaml"), "admin", "set-password", "chief", "--password-stdin"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Admin chief created")
}

func TestPrepareStoreSeedsOnce(t *testing.T) {
	s := newTestStore(t, "2024-06-01")
	cfg := testConfig(t)
	cfg.AdminPassword = "StrongPass1"
	cfg.DepartmentTitle = "Clinical lab"

	require.NoError(t, prepareStore(s, cfg))

	empty, err := s.catalog.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)

	admin, err := s.auth.Authenticate("admin", "StrongPass1")
	require.NoError(t, err)
	assert.True(t, admin.MustChangePassword)

	title, err := s.settings.Title()
	require.NoError(t, err)
	assert.Equal(t, "Clinical lab", title)

	require.NoError(t, s.settings.SetTitle("Renamed"))
	cfg.AdminPassword = "OtherPass2"
	require.NoError(t, prepareStore(s, cfg))

	title, err = s.settings.Title()
	require.NoError(t, err)
	assert.Equal(t, "Renamed", title)
	_, err = s.auth.Authenticate("admin", "OtherPass2")
	assert.Error(t, err)
}

func TestPrepareStoreRejectsMissingSeedFile(t *testing.T) {
	s := newTestStore(t, "2024-06-01")
	cfg := testConfig(t)
	cfg.SeedCatalog = filepath.Join(t.TempDir(), "absent.yaml")

	assert.Error(t, prepareStore(s, cfg))
}

func TestServerAppServesHealth(t *testing.T) {
	s := newTestStore(t, "2024-06-01")
	cfg := testConfig(t)

	app, err := newServerApp(s, cfg, cfg.SecretKey)
	require.NoError(t, err)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)

	missing, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil), -1)
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
