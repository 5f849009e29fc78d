package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	// Set via VALORD_DEBUG in the environment
	Debug bool
	// Set via VALORD_DESC in the environment
	Descending bool
	// Set via VALORD_INTERVAL in the environment
	Interval time.Duration
	// Set via VALORD_CHECK in the environment
	Check bool
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"VALORD_DEBUG":    {"VALORD_DEBUG", Debug, "Show trace output from the map and its watchers (e.g. VALORD_DEBUG=1)"},
		"VALORD_DESC":     {"VALORD_DESC", Descending, "Print tables largest first"},
		"VALORD_INTERVAL": {"VALORD_INTERVAL", Interval, "Pause between events in watch (e.g. \"250ms\")"},
		"VALORD_CHECK":    {"VALORD_CHECK", Check, "Verify index invariants after every applied event"},
		"VALORD_HOME":     {"VALORD_HOME", Home(), "Directory holding .env and config.toml (default ~/.valord)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Clean quotes and spaces from the value. Unset variables fall back to the
// config file.
func clean(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.Trim(v, "\"' ")
	}
	return GetConfigValue(key)
}

// Home returns the valord state directory.
func Home() string {
	if home := strings.Trim(os.Getenv("VALORD_HOME"), "\"' "); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Error("failed to lookup home directory", "error", err)
		return ".valord"
	}
	return filepath.Join(home, ".valord")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	Debug = false
	if debug := clean("VALORD_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			Debug = d
		} else {
			Debug = true
		}
	}

	Descending = false
	if desc := clean("VALORD_DESC"); desc != "" {
		d, err := strconv.ParseBool(desc)
		if err != nil {
			slog.Error("invalid setting, ignoring", "VALORD_DESC", desc, "error", err)
		} else {
			Descending = d
		}
	}

	Interval = 0
	if interval := clean("VALORD_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil || d < 0 {
			slog.Error("invalid setting must be a non-negative duration", "VALORD_INTERVAL", interval, "error", err)
		} else {
			Interval = d
		}
	}

	Check = false
	if check := clean("VALORD_CHECK"); check != "" {
		c, err := strconv.ParseBool(check)
		Check = err != nil || c
	}
}
