// Package session persists the CLI login and language between runs.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const (
	dirName  = "librarian"
	fileName = "session.json"
)

type Session struct {
	Server    string    `json:"server,omitempty"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role,omitempty"`
	Language  string    `json:"language,omitempty"`
}

// Dir is $XDG_CONFIG_HOME/librarian, or the platform config dir.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "config dir")
	}
	return filepath.Join(base, dirName), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load returns an empty session when the file does not exist.
func Load(path string) (Session, error) {
	var s Session
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err = json.Unmarshal(data, &s); err != nil {
		return Session{}, errors.Wrapf(err, "decode %s", path)
	}
	return s, nil
}

func Save(path string, s Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LoggedIn reports whether the session holds a token that has not expired at now.
func (s Session) LoggedIn(now time.Time) bool {
	return s.Token != "" && (s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt))
}

func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}

// Logout drops the credentials and keeps preferences.
func (s Session) Logout() Session {
	return Session{Server: s.Server, Language: s.Language}
}
