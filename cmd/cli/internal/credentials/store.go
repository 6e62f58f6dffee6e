package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Sentinel errors
var (
	// ErrNoToken is returned when the token slot is empty.
	ErrNoToken = errors.New("no token stored")
)

const configFile = "config.json"

// Config represents the session file. It holds exactly one token slot.
type Config struct {
	Version int       `json:"version"`
	Token   string    `json:"token,omitempty"`
	SavedAt time.Time `json:"saved_at,omitzero"`
}

// Store persists the bearer token on the local filesystem.
type Store struct {
	baseDir string
}

// NewStore creates a new token store.
// If baseDir is empty, uses ~/.bloodlink/session/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".bloodlink", "session")
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := &Store{baseDir: baseDir}

	if err := store.ensureConfig(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("token store initialized")

	return store, nil
}

// LoadToken returns the persisted token or ErrNoToken.
func (s *Store) LoadToken() (string, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return "", err
	}

	if cfg.Token == "" {
		return "", ErrNoToken
	}

	return cfg.Token, nil
}

// SaveToken writes token into the slot, replacing any previous value.
func (s *Store) SaveToken(token string) error {
	if token == "" {
		return errors.New("token must not be empty")
	}

	cfg, _ := s.loadOrReset()

	cfg.Token = token
	cfg.SavedAt = time.Now().UTC()

	if err := s.saveConfig(cfg); err != nil {
		return err
	}

	log.Debug().Msg("token saved")

	return nil
}

// ClearToken empties the slot. Clearing an empty slot is not an error.
func (s *Store) ClearToken() error {
	cfg, reset := s.loadOrReset()

	if cfg.Token == "" && !reset {
		return nil
	}

	cfg.Token = ""
	cfg.SavedAt = time.Time{}

	if err := s.saveConfig(cfg); err != nil {
		return err
	}

	log.Debug().Msg("token cleared")

	return nil
}

// Path returns the location of the session file.
func (s *Store) Path() string {
	return filepath.Join(s.baseDir, configFile)
}

// ensureConfig creates an empty config if it doesn't exist.
func (s *Store) ensureConfig() error {
	if _, err := os.Stat(s.Path()); err == nil {
		return nil
	}

	return s.saveConfig(&Config{Version: 1})
}

// loadConfig reads the config file.
func (s *Store) loadConfig() (*Config, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &cfg, nil
}

// loadOrReset reads the config for a write. A file that cannot be read or
// parsed is replaced by an empty config, and reset reports that it was.
func (s *Store) loadOrReset() (cfg *Config, reset bool) {
	cfg, err := s.loadConfig()
	if err != nil {
		log.Debug().Err(err).Str("path", s.Path()).Msg("session file is unusable, replacing it")
		return &Config{Version: 1}, true
	}
	return cfg, false
}

// saveConfig writes the config file atomically.
func (s *Store) saveConfig(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	configPath := s.Path()
	tempPath := configPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, configPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session file: %w", err)
	}

	return nil
}
