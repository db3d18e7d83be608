package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mbcli/cli/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Config{LogLevel: "debug", Timeouts: TimeoutsConfig{Auth: 5, Metadata: 45, Query: 120}, ExportDir: "/tmp/exports"}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "mbcli"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(base, "mbcli", "config.json"), []byte(`{"timeouts":{"query":300}}`), 0o600))

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 300, c.Timeouts.Query)
	assert.Equal(t, 30*time.Second, c.Timeouts.Durations().Metadata)
}

func TestSetAndGet(t *testing.T) {
	c := Defaults()

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"log_level", "DEBUG", false},
		{"export_dir", "/srv/exports", false},
		{"timeouts.metadata", "90", false},
		{"timeouts.query", "0", true},
		{"timeouts.auth", "ten", true},
		{"color", "on", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := c.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "/srv/exports", c.ExportDir)
	assert.Equal(t, 90, c.Timeouts.Metadata)
	assert.Equal(t, 60, c.Timeouts.Query)

	v, err := c.Get("timeouts.metadata")
	require.NoError(t, err)
	assert.Equal(t, "90", v)
	_, err = c.Get("color")
	assert.Error(t, err)
}

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{name: "complete", creds: Credentials{URL: "https://mb", Username: "u", Password: "p"}},
		{name: "missing password", creds: Credentials{URL: "https://mb", Username: "u"}, want: "missing_credentials: missing credentials: METABASE_PASSWORD"},
		{name: "missing all", creds: Credentials{}, want: "missing_credentials: missing credentials: METABASE_URL, METABASE_USERNAME, METABASE_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
			assert.Equal(t, apperrors.MissingCredentials, apperrors.KindOf(err))
		})
	}
}

func TestLoadCredentialsFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("METABASE_URL=https://mb.example.com\nMETABASE_USERNAME=ana@example.com\nMETABASE_PASSWORD=from-file\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv(EnvURL, "")
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "from-env")
	os.Unsetenv(EnvURL)
	os.Unsetenv(EnvUsername)

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "https://mb.example.com", creds.URL)
	assert.Equal(t, "ana@example.com", creds.Username)
	assert.Equal(t, "from-env", creds.Password)
}
