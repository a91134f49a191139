package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	AppName string        `json:"app_name"`
	Version string        `json:"version"`
	Solver  SolverConfig  `json:"solver"`
	Logging LoggingConfig `json:"logging"`
	Storage StorageConfig `json:"storage"`
}

// SolverConfig contains evaluation and progress-reporting settings
type SolverConfig struct {
	ProgressIntervalMs int `json:"progress_interval_ms"`
	DefaultTimeoutMs   int `json:"default_timeout_ms"`
	MaxHeapSize        int `json:"max_heap_size"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level string `json:"level"`
	Path  string `json:"path"`
}

// StorageConfig contains the result ledger settings
type StorageConfig struct {
	DBPath string `json:"db_path"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".grundy", "data")

	return &Config{
		AppName: "grundy",
		Version: "1.0.0",
		Solver: SolverConfig{
			ProgressIntervalMs: 1000,
			DefaultTimeoutMs:   0, // no timeout
			MaxHeapSize:        100000,
		},
		Logging: LoggingConfig{
			Level: "info",
			Path:  filepath.Join(homeDir, ".grundy", "logs", "grundy.log"),
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(dataDir, "results.db"),
		},
	}
}

// LoadOrDefault loads configuration from file, or returns default if not found
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Solver.ProgressIntervalMs <= 0 {
		return fmt.Errorf("invalid progress_interval_ms: %d", c.Solver.ProgressIntervalMs)
	}

	if c.Solver.DefaultTimeoutMs < 0 {
		return fmt.Errorf("invalid default_timeout_ms: %d", c.Solver.DefaultTimeoutMs)
	}

	if c.Solver.MaxHeapSize <= 0 {
		return fmt.Errorf("invalid max_heap_size: %d", c.Solver.MaxHeapSize)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// EnsureDirectories creates all necessary directories
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Logging.Path),
		filepath.Dir(c.Storage.DBPath),
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
