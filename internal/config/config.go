package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level teamlens configuration.
type Config struct {
	LogDir          string   `mapstructure:"log_dir"`
	DataDir         string   `mapstructure:"data_dir"`
	FetchTimeoutSec int      `mapstructure:"fetch_timeout_sec"`
	Insights        Insights `mapstructure:"insights"`
	Gemini          Gemini   `mapstructure:"gemini"`
	Output          Output   `mapstructure:"output"`
}

// Insights configures the insight cache and card counts.
type Insights struct {
	TTLSec   int `mapstructure:"ttl_sec"`
	MaxCards int `mapstructure:"max_cards"`
}

// Gemini configures the external insight generator.
type Gemini struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("log_dir", DefaultLogDir)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("fetch_timeout_sec", DefaultFetchTimeoutSec)
	v.SetDefault("insights.ttl_sec", DefaultInsights.TTLSec)
	v.SetDefault("insights.max_cards", DefaultInsights.MaxCards)
	v.SetDefault("gemini.model", DefaultGemini.Model)
	v.SetDefault("gemini.timeout_sec", DefaultGemini.TimeoutSec)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	// The API key usually lives in the environment, not on disk.
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("log_dir", "TEAMLENS_LOG_DIR")

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Expand paths.
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.DataDir = expandPath(cfg.DataDir)

	return &cfg, nil
}

// TeamCachePath returns the file backing the team insight cache.
func (c *Config) TeamCachePath() string {
	return filepath.Join(c.DataDir, "insights-cache.json")
}

// UserCachePath returns the file backing the per-user insight cache.
func (c *Config) UserCachePath() string {
	return filepath.Join(c.DataDir, "user-insights-cache.json")
}

// DBPath returns the full path to the SQLite snapshot database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
