// Package auth resolves the signed-in account whose cloud namespace the sync
// engine reads and writes. The CLI is not an identity provider; it trusts a
// session file written at sign-in time and only needs the stable user ID from
// it.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Session describes a signed-in account.
type Session struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// FileSession reads the session from a JSON file on every call, so an
// external sign-out (file removed) takes effect immediately.
type FileSession struct {
	Path string
}

// DefaultSessionPath returns the default location of the session file:
// ~/.config/autoledger/session.json
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "autoledger", "session.json"), nil
}

// CurrentUID returns the signed-in user's ID, or ("", false) when nobody is
// signed in. A missing file means signed out; a corrupt file is an error.
func (f *FileSession) CurrentUID() (string, bool, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading session file %q: %w", f.Path, err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, fmt.Errorf("parsing session file %q: %w", f.Path, err)
	}
	uid := strings.TrimSpace(s.UID)
	if uid == "" {
		return "", false, nil
	}
	return uid, true, nil
}

// Static is a fixed identity. An empty UID means signed out.
type Static struct {
	UID string
}

// CurrentUID implements the identity accessor for a fixed account.
func (s Static) CurrentUID() (string, bool, error) {
	if s.UID == "" {
		return "", false, nil
	}
	return s.UID, true, nil
}
