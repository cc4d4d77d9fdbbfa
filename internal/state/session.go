// Package state persists the running-session record under .raven/.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"raven/internal/config"
)

// SessionFileName is the name of the session state file
const SessionFileName = "session.json"

// Session records what `raven start` launched
type Session struct {
	Project   string    `json:"project"`
	Mode      string    `json:"mode"`
	Services  []string  `json:"services"`
	StartedAt time.Time `json:"started_at"`
}

// Save writes the session state to .raven/session.json
func Save(projectDir string, s *Session) error {
	stateDir := filepath.Join(projectDir, config.StateDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	path := filepath.Join(stateDir, SessionFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}

	return nil
}

// Load reads the session state. Returns (nil, nil) when no session exists.
func Load(projectDir string) (*Session, error) {
	path := filepath.Join(projectDir, config.StateDir, SessionFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}

	return &s, nil
}

// Clear removes the session state file. Missing file is not an error.
func Clear(projectDir string) error {
	path := filepath.Join(projectDir, config.StateDir, SessionFileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	return nil
}
