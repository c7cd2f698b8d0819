package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/promptboard/internal/logging"
	"github.com/dkoosis/promptboard/pkg/render"
)

// Sources recorded on Resolved.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// CliFlags holds the values of command-line flags. The *Set fields record
// whether the user passed the flag explicitly.
type CliFlags struct {
	APIURL      string
	Theme       string
	Format      string
	NoColor     bool
	Debug       bool
	LogLevel    string
	Timeout     time.Duration
	SessionFile string

	NoColorSet bool
	DebugSet   bool
}

// Resolved is the effective configuration.
type Resolved struct {
	APIURL            string
	Timeout           time.Duration
	Theme             string
	Format            string
	NoColor           bool
	LogLevel          string
	SessionFile       string // empty selects the default location
	RequestsPerSecond float64

	APIURLSource   string
	ThemeSource    string
	FormatSource   string
	NoColorSource  string
	LogLevelSource string
}

// Resolve merges flags, environment, file and defaults, highest priority
// first, and validates the result. file may be nil.
func Resolve(flags CliFlags, file *FileConfig) (*Resolved, error) {
	if file == nil {
		file = &FileConfig{}
	}

	r := &Resolved{
		Timeout:           DefaultTimeout,
		SessionFile:       file.SessionFile,
		RequestsPerSecond: DefaultRequestsPerSecond,
	}
	if file.Timeout > 0 {
		r.Timeout = time.Duration(file.Timeout)
	}
	if flags.Timeout > 0 {
		r.Timeout = flags.Timeout
	}
	if flags.SessionFile != "" {
		r.SessionFile = flags.SessionFile
	}
	if file.RequestsPerSecond != 0 {
		r.RequestsPerSecond = file.RequestsPerSecond
	}

	r.APIURL, r.APIURLSource = pick(flags.APIURL, "PROMPTBOARD_API_URL", file.APIURL, DefaultAPIURL)
	r.Theme, r.ThemeSource = pick(flags.Theme, "PROMPTBOARD_THEME", file.Theme, DefaultTheme)
	r.Format, r.FormatSource = pick(flags.Format, "PROMPTBOARD_FORMAT", file.Format, DefaultFormat)
	r.LogLevel, r.LogLevelSource = pick(flags.LogLevel, "PROMPTBOARD_LOG_LEVEL", file.LogLevel, DefaultLogLevel)

	r.NoColor, r.NoColorSource = false, SourceDefault
	if file.NoColor != nil {
		r.NoColor, r.NoColorSource = *file.NoColor, SourceFile
	}
	if v, ok := envBool("PROMPTBOARD_NO_COLOR"); ok {
		r.NoColor, r.NoColorSource = v, SourceEnv
	} else if _, set := os.LookupEnv("NO_COLOR"); set {
		// NO_COLOR disables color when present, regardless of value.
		r.NoColor, r.NoColorSource = true, SourceEnv
	}
	if flags.NoColorSet {
		r.NoColor, r.NoColorSource = flags.NoColor, SourceCLI
	}

	switch {
	case flags.DebugSet && flags.Debug:
		r.LogLevel, r.LogLevelSource = "debug", SourceCLI
	case !flags.DebugSet:
		if v, ok := envBool("PROMPTBOARD_DEBUG"); ok && v {
			r.LogLevel, r.LogLevelSource = "debug", SourceEnv
		}
	}

	if err := validate(r); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return r, nil
}

// pick returns the first non-empty of flag, env, file, def with its source.
func pick(flag, envKey, file, def string) (string, string) {
	if flag != "" {
		return flag, SourceCLI
	}
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v, SourceEnv
	}
	if file != "" {
		return file, SourceFile
	}
	return def, SourceDefault
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func validate(r *Resolved) error {
	u, err := url.Parse(r.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute http(s) URL, got %q", r.APIURL)
	}
	if r.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if r.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", r.RequestsPerSecond)
	}
	if !render.ValidFormat(r.Format) {
		return fmt.Errorf("invalid format %q (must be: auto, terminal, plain, json)", r.Format)
	}
	if !render.ValidTheme(r.Theme) {
		return fmt.Errorf("invalid theme %q (must be: default, orca, mono)", r.Theme)
	}
	if _, err := logging.ParseLevel(r.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}
