// ABOUTME: Tests for jacktrack configuration management.
// ABOUTME: Covers load, save, defaults, environment overrides, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// isolate points config and cwd at fresh temp dirs and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, env := range []string{EnvDataDir, EnvUser, EnvAddr, EnvJWTSecret, EnvLogLevel} {
		t.Setenv(env, "")
	}
	t.Chdir(t.TempDir())
	return tmpDir
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/jacktrack-test"}
	if got := cfg.GetDataDir(); got != "/tmp/jacktrack-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/jacktrack-test")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/jacktrack-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "jacktrack-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestGetDBPath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/jt"}
	if got := cfg.GetDBPath(); got != "/tmp/jt/jacktrack.db" {
		t.Errorf("GetDBPath() = %q", got)
	}
}

func TestGetListenAddr(t *testing.T) {
	if got := (&Config{}).GetListenAddr(); got != DefaultListenAddr {
		t.Errorf("default GetListenAddr() = %q, want %q", got, DefaultListenAddr)
	}
	if got := (&Config{ListenAddr: "127.0.0.1:9000"}).GetListenAddr(); got != "127.0.0.1:9000" {
		t.Errorf("GetListenAddr() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/jacktrack", filepath.Join(home, "data/jacktrack")},
		{"data/jacktrack", "data/jacktrack"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.DataDir != "" || cfg.User != "" {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		DataDir:    "/tmp/jacktrack-data",
		User:       "jack",
		ListenAddr: ":9090",
		LogLevel:   "debug",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	if err := (&Config{User: "jack", DataDir: "/from/file"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	t.Setenv(EnvUser, "jill")
	t.Setenv(EnvJWTSecret, "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.User != "jill" {
		t.Errorf("User = %q, want env override jill", cfg.User)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.DataDir != "/from/file" {
		t.Errorf("DataDir = %q, want file value", cfg.DataDir)
	}

	raw, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if raw.User != "jack" {
		t.Errorf("LoadFile should ignore env, got User %q", raw.User)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	// godotenv sets variables with os.Setenv; register cleanup for it.
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)

	if err := os.WriteFile(".env", []byte(EnvLogLevel+"=warn\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn from .env", cfg.LogLevel)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	if err := (&Config{User: "jack"}).Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "jacktrack")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "jacktrack")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := isolate(t)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "jacktrack", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{DataDir: tmpDir}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer repo.Close()

	dbPath := filepath.Join(tmpDir, "jacktrack.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected jacktrack.db to be created")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
