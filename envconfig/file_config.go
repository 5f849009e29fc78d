package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// Config represents the TOML configuration structure
type Config struct {
	Table struct {
		Descending bool `toml:"descending"`
	} `toml:"table"`

	Watch struct {
		Interval string `toml:"interval"`
	} `toml:"watch"`

	Logging struct {
		Debug bool `toml:"debug"`
		Check bool `toml:"check"`
	} `toml:"logging"`
}

var (
	configOnce sync.Once
	config     *Config
	configPath string
)

// GetConfigPaths returns the config file locations in the order they are
// tried.
func GetConfigPaths() []string {
	paths := []string{filepath.Join(Home(), "config.toml")}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		paths = append(paths, filepath.Join(xdgConfig, "valord", "config.toml"))
	}
	return paths
}

// loadConfigFile loads the first available configuration file
func loadConfigFile() (*Config, string, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := DecodeConfig(path)
			if err != nil {
				return nil, "", err
			}
			return cfg, path, nil
		}
	}
	return nil, "", nil
}

// DecodeConfig parses the TOML file at path.
func DecodeConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return &cfg, nil
}

// GetConfigValue returns the config file value for an environment
// variable, or "" if the file does not set it.
func GetConfigValue(key string) string {
	configOnce.Do(func() {
		var err error
		config, configPath, err = loadConfigFile()
		if err != nil {
			slog.Warn("failed to load config file", "error", err)
		} else if config != nil {
			slog.Debug("loaded config file", "path", configPath)
		}
	})

	return config.value(key)
}

func (c *Config) value(key string) string {
	if c == nil {
		return ""
	}

	switch key {
	case "VALORD_DEBUG":
		if c.Logging.Debug {
			return strconv.FormatBool(c.Logging.Debug)
		}
	case "VALORD_CHECK":
		if c.Logging.Check {
			return strconv.FormatBool(c.Logging.Check)
		}
	case "VALORD_DESC":
		if c.Table.Descending {
			return strconv.FormatBool(c.Table.Descending)
		}
	case "VALORD_INTERVAL":
		return c.Watch.Interval
	}

	return ""
}

// GenerateExampleConfig returns a commented example TOML configuration
func GenerateExampleConfig() string {
	return `# valord configuration file
# Environment variables of the same meaning take precedence.

[table]
# Print tables largest first (VALORD_DESC)
descending = false

[watch]
# Pause between events in watch (VALORD_INTERVAL)
interval = "0s"

[logging]
# Trace output from the map and its watchers (VALORD_DEBUG)
debug = false
# Verify index invariants after every event (VALORD_CHECK)
check = false
`
}
