package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/planr/internal/logger"
)

const fileName = "cli-state.json"

// CLIState holds what the CLI remembers between runs.
type CLIState struct {
	// LastSession is the session most recently opened by new, resume or fill.
	LastSession string `json:"last_session"`
}

// Load reads the state from dataDir. A missing or unreadable file yields an
// empty state.
func Load(dataDir string) *CLIState {
	path := filepath.Join(dataDir, fileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read CLI state file: %v", err)
		}
		return &CLIState{}
	}

	var st CLIState
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("Failed to parse CLI state JSON: %v", err)
		return &CLIState{}
	}
	return &st
}

// Save writes the state to dataDir, creating it if needed.
func Save(dataDir string, st *CLIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling CLI state: %w", err)
	}

	path := filepath.Join(dataDir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing CLI state file: %w", err)
	}

	logger.Debug("CLI state saved to %s", path)
	return nil
}

// RememberSession records name as the last session. Failures are logged.
func RememberSession(dataDir, name string) {
	st := Load(dataDir)
	if st.LastSession == name {
		return
	}
	st.LastSession = name
	if err := Save(dataDir, st); err != nil {
		logger.Warn("Failed to remember session %s: %v", name, err)
	}
}
