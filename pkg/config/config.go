// Package config loads lbcwatch settings from defaults, an optional
// .lbcwatch.yaml, LBCWATCH_* environment variables and bound flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyServer          = "server"
	KeyHTTPTimeout     = "http.timeout"
	KeyPollInterval    = "poll.interval"
	KeyUpdatesInterval = "updates.interval"
	KeyBulkRate        = "bulk.rate"
	KeyPrefsPath       = "prefs.path"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyLogFile         = "log.file"
	KeyNotify          = "notify.enabled"
)

// EnvConfigPath names a directory searched for .lbcwatch.yaml before ./.
const EnvConfigPath = "LBCWATCH_CONFIG_PATH"

// Config is the resolved configuration.
type Config struct {
	Server          string
	HTTPTimeout     time.Duration
	PollInterval    time.Duration
	UpdatesInterval time.Duration
	// BulkRate caps bulk hide/move calls per second; 0 disables pacing.
	BulkRate  float64
	PrefsPath string
	LogLevel  string
	LogFormat string
	LogFile   string
	Notify    bool
	// File is the config file in use, empty when none was found.
	File string
}

// New returns a viper instance with defaults, env binding and search paths.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServer, "http://localhost:5000")
	v.SetDefault(KeyHTTPTimeout, 30*time.Second)
	v.SetDefault(KeyPollInterval, time.Second)
	v.SetDefault(KeyUpdatesInterval, 30*time.Second)
	v.SetDefault(KeyBulkRate, 5.0)
	v.SetDefault(KeyPrefsPath, "~/.lbcwatch")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyNotify, true)

	v.SetConfigName(".lbcwatch") // .yaml is implicit
	v.SetEnvPrefix("LBCWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(EnvConfigPath); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	return v
}

// Load reads the config file if one exists and resolves every key. A missing
// file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return resolve(v)
}

func resolve(v *viper.Viper) (*Config, error) {
	prefs, err := homedir.Expand(v.GetString(KeyPrefsPath))
	if err != nil {
		return nil, fmt.Errorf("config: expand %s: %w", KeyPrefsPath, err)
	}
	logFile, err := homedir.Expand(v.GetString(KeyLogFile))
	if err != nil {
		return nil, fmt.Errorf("config: expand %s: %w", KeyLogFile, err)
	}
	cfg := &Config{
		Server:          v.GetString(KeyServer),
		HTTPTimeout:     v.GetDuration(KeyHTTPTimeout),
		PollInterval:    v.GetDuration(KeyPollInterval),
		UpdatesInterval: v.GetDuration(KeyUpdatesInterval),
		BulkRate:        v.GetFloat64(KeyBulkRate),
		PrefsPath:       prefs,
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		LogFile:         logFile,
		Notify:          v.GetBool(KeyNotify),
		File:            v.ConfigFileUsed(),
	}
	if cfg.PollInterval < time.Second {
		cfg.PollInterval = time.Second
	}
	if cfg.BulkRate < 0 {
		cfg.BulkRate = 0
	}
	return cfg, nil
}

// Watch re-resolves the configuration whenever the config file changes and
// hands the result to fn. It does nothing when no file was loaded.
func Watch(v *viper.Viper, fn func(*Config, error)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		fn(resolve(v))
	})
	v.WatchConfig()
}
