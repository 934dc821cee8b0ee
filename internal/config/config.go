package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	Schema          int      `json:"schema"`
	SourceDir       string   `json:"source_dir"`
	Variant         string   `json:"variant,omitempty"`
	Manager         string   `json:"manager,omitempty"`
	Presets         []string `json:"presets,omitempty"`
	DetectConflicts bool     `json:"detect_conflicts"`
	LogFile         string   `json:"log_file,omitempty"`
	LogLevel        string   `json:"log_level,omitempty"`
	LogFormat       string   `json:"log_format,omitempty"`
}

const CurrentConfigSchema = 1

const (
	VariantTS = "ts"
	VariantJS = "js"
)

func DefaultConfig() *Config {
	return &Config{
		Schema:          CurrentConfigSchema,
		SourceDir:       filepath.Join(dataHome(), "skeleton", "templates"),
		DetectConflicts: true,
		LogLevel:        "info",
		LogFormat:       "logfmt",
	}
}

// Load reads the first config file found. Keys missing from the file keep
// their default values.
func Load(configPath string) (*Config, error) {
	paths := getConfigPaths(configPath)

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) && !(i == 0 && configPath != "") {
				continue
			}
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}

		cfg := DefaultConfig()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}

		cfg.expandPaths()
		return cfg, nil
	}

	return DefaultConfig(), nil
}

func getConfigPaths(explicit string) []string {
	home, _ := os.UserHomeDir()

	var paths []string

	if explicit != "" {
		paths = append(paths, explicit)
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "skeleton", "config.json"))

	return paths
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share")
}

func (c *Config) expandPaths() {
	c.SourceDir = ExpandHome(c.SourceDir)
	c.LogFile = ExpandHome(c.LogFile)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.Variant {
	case "", VariantTS, VariantJS:
	default:
		return fmt.Errorf("invalid variant %q (want %s or %s)", c.Variant, VariantTS, VariantJS)
	}
	switch c.LogFormat {
	case "", "logfmt", "json":
	default:
		return fmt.Errorf("invalid log format %q (want logfmt or json)", c.LogFormat)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}
