// Package config resolves promptboard settings.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--api-url, --theme, --format, --no-color, --debug)
//  2. Environment variables, including those loaded from .env
//  3. YAML config file (.promptboard.yaml in the working directory or
//     ~/.config/promptboard/.promptboard.yaml)
//  4. Hardcoded defaults
//
// # Environment Variables
//
//   - PROMPTBOARD_API_URL: contest API base URL
//   - PROMPTBOARD_THEME: default, orca or mono
//   - PROMPTBOARD_FORMAT: auto, terminal, plain or json
//   - PROMPTBOARD_NO_COLOR or NO_COLOR: disable colors
//   - PROMPTBOARD_LOG_LEVEL: debug, info, warn or error
//   - PROMPTBOARD_DEBUG: "true" or "1" forces debug logging
//
// Poll intervals are fixed and cannot be configured.
package config
