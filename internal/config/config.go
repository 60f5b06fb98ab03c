// Package config loads and validates engine settings.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	nerrors "github.com/jmgilman/nodeenv/errors"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. NODEENV_CACHE_MATCH_TTL=1h.
const EnvPrefix = "NODEENV"

// FileName is the settings file name searched for, without extension.
const FileName = "nodeenv"

// Settings holds every tunable of the engine.
type Settings struct {
	Log    LogSettings    `mapstructure:"log" yaml:"log"`
	Exec   ExecSettings   `mapstructure:"exec" yaml:"exec"`
	Cache  CacheSettings  `mapstructure:"cache" yaml:"cache"`
	Server ServerSettings `mapstructure:"server" yaml:"server"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// ExecSettings configures external process execution.
type ExecSettings struct {
	// Timeout bounds every probe process.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	// Shell is the sub-shell descriptor, e.g. "bash -c". Empty selects the
	// platform default.
	Shell string `mapstructure:"shell" yaml:"shell"`
}

// CacheSettings holds the TTL of each cache namespace.
type CacheSettings struct {
	ManagersTTL time.Duration `mapstructure:"managers_ttl" yaml:"managers_ttl" validate:"gt=0"`
	ProbeTTL    time.Duration `mapstructure:"probe_ttl" yaml:"probe_ttl" validate:"gt=0"`
	CurrentTTL  time.Duration `mapstructure:"current_ttl" yaml:"current_ttl" validate:"gt=0"`
	ProjectTTL  time.Duration `mapstructure:"project_ttl" yaml:"project_ttl" validate:"gt=0"`
	ManifestTTL time.Duration `mapstructure:"manifest_ttl" yaml:"manifest_ttl" validate:"gt=0"`
	PinTTL      time.Duration `mapstructure:"pin_ttl" yaml:"pin_ttl" validate:"gt=0"`
	MatchTTL    time.Duration `mapstructure:"match_ttl" yaml:"match_ttl" validate:"gt=0"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required,hostname_port"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
		Exec: ExecSettings{
			Timeout: 10 * time.Second,
		},
		Cache: CacheSettings{
			ManagersTTL: 5 * time.Minute,
			ProbeTTL:    5 * time.Minute,
			CurrentTTL:  30 * time.Second,
			ProjectTTL:  time.Minute,
			ManifestTTL: 10 * time.Second,
			PinTTL:      5 * time.Minute,
			MatchTTL:    10 * time.Minute,
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:7878",
		},
	}
}

// Map flattens s into dotted keys with durations rendered as strings. It is
// both the viper default set and the YAML form of the settings.
func (s Settings) Map() map[string]any {
	return map[string]any{
		"log.level":          s.Log.Level,
		"log.format":         s.Log.Format,
		"exec.timeout":       s.Exec.Timeout.String(),
		"exec.shell":         s.Exec.Shell,
		"cache.managers_ttl": s.Cache.ManagersTTL.String(),
		"cache.probe_ttl":    s.Cache.ProbeTTL.String(),
		"cache.current_ttl":  s.Cache.CurrentTTL.String(),
		"cache.project_ttl":  s.Cache.ProjectTTL.String(),
		"cache.manifest_ttl": s.Cache.ManifestTTL.String(),
		"cache.pin_ttl":      s.Cache.PinTTL.String(),
		"cache.match_ttl":    s.Cache.MatchTTL.String(),
		"server.addr":        s.Server.Addr,
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an explicit settings file. It must exist when set.
	ConfigFile string
	// Flags are bound over file and environment values. Flag names use the
	// dotted key with "-" for "_" and ".", e.g. "cache-match-ttl".
	Flags *pflag.FlagSet
	// SearchPaths replaces the default directories searched for nodeenv.yaml.
	SearchPaths []string
}

// DefaultSearchPaths returns $XDG_CONFIG_HOME/nodeenv (or the platform user
// config dir) followed by the working directory.
func DefaultSearchPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "nodeenv"))
	}
	return append(paths, ".")
}

// Load resolves settings from defaults, the settings file, NODEENV_*
// environment variables and flags, lowest precedence first, then validates
// them. A missing settings file is not an error unless it was named
// explicitly.
func Load(opts LoadOptions) (Settings, error) {
	v := newViper(opts)

	for key, value := range Default().Map() {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, nerrors.WrapWithContext(err, nerrors.CodeInvalidConfig,
				"failed to read settings file", map[string]any{"file": opts.ConfigFile})
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key := range Default().Map() {
			name := flagName(key)
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, nerrors.Wrap(err, nerrors.CodeInternal, "failed to bind flag "+name)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, nerrors.Wrap(err, nerrors.CodeInvalidConfig, "failed to decode settings")
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// flagName maps "cache.match_ttl" to "cache-match-ttl".
func flagName(key string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(key)
}

// FlagName returns the command-line flag bound to a settings key.
func FlagName(key string) string {
	return flagName(key)
}

// ConfigUsed reports which settings file Load would read, or "" if none.
func ConfigUsed(opts LoadOptions) string {
	v := newViper(opts)
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}

func newViper(opts LoadOptions) *viper.Viper {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	}

	searchPaths := opts.SearchPaths
	if searchPaths == nil {
		searchPaths = DefaultSearchPaths()
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	return v
}
