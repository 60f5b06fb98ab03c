package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/fs/billy"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	s, err := Load(LoadOptions{SearchPaths: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	content := "cache:\n  match_ttl: 1h\nexec:\n  timeout: 3s\n  shell: zsh -c\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	s, err := Load(LoadOptions{ConfigFile: file, SearchPaths: []string{}})
	require.NoError(t, err)

	assert.Equal(t, time.Hour, s.Cache.MatchTTL)
	assert.Equal(t, 3*time.Second, s.Exec.Timeout)
	assert.Equal(t, "zsh -c", s.Exec.Shell)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, 5*time.Minute, s.Cache.ManagersTTL, "unset keys keep defaults")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestLoad_SearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodeenv.yaml"), []byte("server:\n  addr: 0.0.0.0:9000\n"), 0o600))

	s, err := Load(LoadOptions{SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", s.Server.Addr)
	assert.Equal(t, filepath.Join(dir, "nodeenv.yaml"), ConfigUsed(LoadOptions{SearchPaths: []string{dir}}))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodeenv.yaml"), []byte("cache:\n  pin_ttl: 1m\n"), 0o600))
	t.Setenv("NODEENV_CACHE_PIN_TTL", "2h")

	s, err := Load(LoadOptions{SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, s.Cache.PinTTL)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("NODEENV_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(FlagName("log.level"), "info", "")
	require.NoError(t, flags.Parse([]string{"--log-level=error"}))

	s, err := Load(LoadOptions{Flags: flags, SearchPaths: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, "error", s.Log.Level)
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	t.Setenv("NODEENV_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(FlagName("log.level"), "info", "")
	require.NoError(t, flags.Parse(nil))

	s, err := Load(LoadOptions{Flags: flags, SearchPaths: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, "warn", s.Log.Level)
}

func TestValidate(t *testing.T) {
	s := Default()
	s.Log.Level = "loud"
	s.Cache.MatchTTL = 0
	s.Server.Addr = "nowhere"

	err := s.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	var perr errors.PlatformError
	require.True(t, errors.As(err, &perr))
	fields, ok := perr.Context()["fields"].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "log.level")
	assert.Contains(t, fields, "cache.match_ttl")
	assert.Contains(t, fields, "server.addr")
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodeenv", "nodeenv.yaml")

	want := Default()
	want.Cache.ProjectTTL = 90 * time.Second
	require.NoError(t, Write(billy.NewLocal(), path, want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "1m30s", doc["cache"]["project_ttl"])

	got, err := Load(LoadOptions{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
