package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and then in
// the user config dir.
const FileName = ".promptboard.yaml"

// Defaults.
const (
	DefaultAPIURL            = "http://localhost:8000"
	DefaultTimeout           = 15 * time.Second
	DefaultTheme             = "default"
	DefaultFormat            = "auto"
	DefaultLogLevel          = "warn"
	DefaultRequestsPerSecond = 2.0
)

// FileConfig mirrors .promptboard.yaml. Empty fields fall through to
// defaults.
type FileConfig struct {
	APIURL            string   `yaml:"api_url"`
	Timeout           Duration `yaml:"timeout"`
	Theme             string   `yaml:"theme"`
	Format            string   `yaml:"format"`
	NoColor           *bool    `yaml:"no_color"`
	LogLevel          string   `yaml:"log_level"`
	SessionFile       string   `yaml:"session_file"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

// Duration accepts "10s" style strings in YAML.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// LoadFile reads the config file, if any. It returns an empty config and an
// empty path when no file exists.
func LoadFile() (*FileConfig, string, error) {
	path := findConfigPath()
	if path == "" {
		return &FileConfig{}, "", nil
	}
	cfg, err := ReadFile(path)
	return cfg, path, err
}

// ReadFile parses the config file at path.
func ReadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// findConfigPath checks the working directory first, then
// <user config dir>/promptboard.
func findConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "promptboard", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}
