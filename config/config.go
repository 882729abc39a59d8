// Package config loads aidbg settings from settings.toml with AIDBG_*
// environment overrides, and owns the shared debug logger.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type ProviderConfig struct {
	Type    string `toml:"type"`
	Model   string `toml:"model"`
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

type SessionConfig struct {
	ID      string `toml:"id,omitempty"`
	Persist bool   `toml:"persist"`
	Storage string `toml:"storage"` // "file" or "sqlite"
}

type Settings struct {
	DataDirectory string         `toml:"data_directory"`
	Provider      ProviderConfig `toml:"provider"`
	Session       SessionConfig  `toml:"session"`
	CustomPrompt  string         `toml:"custom_prompt,omitempty"`
}

type Config struct {
	DataDirectory string
	ProviderType  string
	Model         string
	APIKey        string
	BaseURL       string
	SessionID     string
	Persist       bool
	Storage       string
	CustomPrompt  string
	WorkDir       string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AIDBG_PROVIDER"); v != "" {
		c.ProviderType = v
	}
	if v := os.Getenv("AIDBG_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("AIDBG_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("AIDBG_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("AIDBG_DATA_DIR"); v != "" {
		c.DataDirectory = v
	}
	if v := os.Getenv("AIDBG_SESSION"); v != "" {
		c.SessionID = v
		c.Persist = true
	}
}

func CheckDebug() bool {
	debug := os.Getenv("AIDBG_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log can contain prompt text and evaluated values
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (AIDBG_DEBUG=%s) ===", os.Getenv("AIDBG_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Debugf writes to the debug log when AIDBG_DEBUG is set.
func Debugf(format string, args ...any) {
	if Debug && DebugLog != nil {
		DebugLog.Printf(format, args...)
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory: "~/.local/share/aidbg",
		ProviderType:  "ollama",
		BaseURL:       "http://localhost:11434",
		Model:         "llama3.1:latest",
		Storage:       "file",
	}

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		var settings Settings
		if _, err := toml.DecodeFile(settingsPath, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", settingsPath, err)
		}
		if settings.DataDirectory != "" {
			cfg.DataDirectory = settings.DataDirectory
		}
		if settings.Provider.Type != "" {
			cfg.ProviderType = settings.Provider.Type
		}
		if settings.Provider.Model != "" {
			cfg.Model = settings.Provider.Model
		}
		cfg.APIKey = settings.Provider.APIKey
		if settings.Provider.BaseURL != "" {
			cfg.BaseURL = settings.Provider.BaseURL
		}
		cfg.SessionID = settings.Session.ID
		cfg.Persist = settings.Session.Persist
		if settings.Session.Storage != "" {
			cfg.Storage = settings.Session.Storage
		}
		cfg.CustomPrompt = settings.CustomPrompt
	}

	cfg.applyEnvOverrides()

	if wd, err := os.Getwd(); err == nil {
		cfg.WorkDir = wd
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}
