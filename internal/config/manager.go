package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the user's persistent configuration preferences.
type Config struct {
	LLMProvider   string `json:"llm_provider,omitempty"`   // openai, anthropic, kimi, etc.
	APIKey        string `json:"api_key,omitempty"`        // The API key for the selected provider
	Model         string `json:"model,omitempty"`          // Default model name
	BaseURL       string `json:"base_url,omitempty"`       // Optional override for API base URL
	DataDir       string `json:"data_dir,omitempty"`       // Where the conversation store lives
	PromptsDir    string `json:"prompts_dir,omitempty"`    // Optional prompt overrides directory
	DefaultTenant string `json:"default_tenant,omitempty"` // Tenant used when none is given
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return &Manager{
		configDir: filepath.Join(configDir, "eventra"),
	}, nil
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// DefaultDataDir returns where the conversation database lives unless the
// config overrides it.
func (m *Manager) DefaultDataDir() string {
	return filepath.Join(m.configDir, "data")
}

// Load reads the configuration from disk.
// If the file does not exist, it returns an empty Config and no error.
func (m *Manager) Load() (*Config, error) {
	path := m.GetConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to disk, creating the directory if needed.
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.GetConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyToEnv populates provider environment variables from the config so
// the provider factory sees the user's saved choices. Explicit config wins
// over whatever is already in the shell environment.
func (cfg *Config) ApplyToEnv() {
	if cfg.LLMProvider != "" {
		os.Setenv("LLM_PROVIDER", cfg.LLMProvider)
	}
	if cfg.APIKey == "" {
		return
	}
	switch cfg.LLMProvider {
	case "openai":
		os.Setenv("OPENAI_API_KEY", cfg.APIKey)
		if cfg.Model != "" {
			os.Setenv("OPENAI_MODEL", cfg.Model)
		}
		if cfg.BaseURL != "" {
			os.Setenv("OPENAI_BASE_URL", cfg.BaseURL)
		}
	case "anthropic":
		os.Setenv("ANTHROPIC_API_KEY", cfg.APIKey)
		if cfg.Model != "" {
			os.Setenv("ANTHROPIC_MODEL", cfg.Model)
		}
	case "kimi":
		os.Setenv("KIMI_API_KEY", cfg.APIKey)
		if cfg.Model != "" {
			os.Setenv("KIMI_MODEL", cfg.Model)
		}
		if cfg.BaseURL != "" {
			os.Setenv("KIMI_BASE_URL", cfg.BaseURL)
		}
	case "gemini":
		os.Setenv("GEMINI_API_KEY", cfg.APIKey)
		if cfg.Model != "" {
			os.Setenv("GEMINI_MODEL", cfg.Model)
		}
	}
}
