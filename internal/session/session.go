// Package session persists the signed-in participant between invocations.
//
// A Session is passed explicitly to whatever needs it. There is no package
// level current session.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("not logged in")

// FileName is the default session file inside the user config dir.
const FileName = "session.yaml"

// Session holds the credentials sent with every submission, plus the last
// attempt count the server reported.
type Session struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Uses     int    `yaml:"uses,omitempty"`
}

// Valid reports whether both fields are set.
func (s *Session) Valid() bool {
	return s != nil && strings.TrimSpace(s.Name) != "" && s.Password != ""
}

// Store reads and writes a Session at Path.
type Store struct {
	Path string
}

// DefaultPath returns <user config dir>/promptboard/session.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: locating config dir: %w", err)
	}
	return filepath.Join(dir, "promptboard", FileName), nil
}

// Load returns the stored session, or ErrNoSession when the file is missing
// or incomplete.
func (s Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session: reading %s: %w", s.Path, err)
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: parsing %s: %w", s.Path, err)
	}
	if !sess.Valid() {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Save writes sess with owner-only permissions.
func (s Store) Save(sess *Session) error {
	if !sess.Valid() {
		return errors.New("session: name and password are required")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("session: creating dir: %w", err)
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encoding: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("session: writing %s: %w", s.Path, err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(s.Path, 0o600)
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s Store) Clear() error {
	err := os.Remove(s.Path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("session: removing %s: %w", s.Path, err)
}
