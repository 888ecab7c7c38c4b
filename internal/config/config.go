// ABOUTME: Jacktrack configuration: JSON file, optional .env, and environment overrides.
// ABOUTME: Also opens the SQLite store the configuration points at.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/jacktrack/internal/storage"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDataDir   = "JACKTRACK_DATA_DIR"
	EnvUser      = "JACKTRACK_USER"
	EnvAddr      = "JACKTRACK_ADDR"
	EnvJWTSecret = "JACKTRACK_JWT_SECRET"
	EnvLogLevel  = "JACKTRACK_LOG_LEVEL"
)

// DefaultListenAddr is where the HTTP API listens when nothing is configured.
const DefaultListenAddr = ":8080"

// Config stores jacktrack configuration.
type Config struct {
	// DataDir is the root directory for data storage; jacktrack.db lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/jacktrack.
	DataDir string `json:"data_dir,omitempty"`

	// User is the username commands act as when --user is not given.
	User string `json:"user,omitempty"`

	// ListenAddr is the HTTP API listen address.
	ListenAddr string `json:"listen_addr,omitempty"`

	// JWTSecret signs and verifies API bearer tokens.
	JWTSecret string `json:"jwt_secret,omitempty"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the SQLite database path inside the data directory.
func (c *Config) GetDBPath() string {
	return filepath.Join(c.GetDataDir(), "jacktrack.db")
}

// GetListenAddr returns the API listen address, defaulting to :8080.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite database in the configured data directory.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.GetDBPath())
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "jacktrack", "config.json")
}

// Load reads the config file, loads a .env file from the working directory
// if there is one, and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile reads only the config file, without environment overrides.
// Use it when the result will be saved back.
func LoadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overwrites fields whose environment variable is set and non-empty.
func (c *Config) ApplyEnv() {
	for env, field := range map[string]*string{
		EnvDataDir:   &c.DataDir,
		EnvUser:      &c.User,
		EnvAddr:      &c.ListenAddr,
		EnvJWTSecret: &c.JWTSecret,
		EnvLogLevel:  &c.LogLevel,
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*field = v
		}
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
