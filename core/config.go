package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Analysis provider identifiers accepted in R42_PROVIDER.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Default limits for file intake and persistence.
// MaxFileSize matches the 50MB intake ceiling enforced before extraction.
// MaxContentChars bounds extracted report text handed to the analysis prompt.
const (
	DefaultMaxFileSizeMB   = 50
	DefaultMaxContentChars = 200000
	DefaultStoreQuotaBytes = 5 * 1024 * 1024
)

// Config holds all configuration values
type Config struct {
	// Analysis provider configuration
	Provider        string // "openai" or "anthropic"
	OpenAIAPIKey    string
	AnthropicAPIKey string
	Model           string // Optional model override for the selected provider

	// File intake limits
	MaxFileSize     int64 // Maximum upload size in bytes
	MaxContentChars int   // Character budget for extracted report text

	// Analysis behavior
	AnalysisTimeout time.Duration // Per-call deadline including the retry

	// Persistence
	DataDir         string // Directory holding the local store database
	StoreQuotaBytes int64  // Total byte quota for the local store

	// Optional platform context definitions (YAML)
	PlatformsFile string
}

// APIKey returns the credential for the configured provider, or "" if unset.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. The API key is not required here; the analysis client checks for
// it before making any network call so that upload and browse commands work
// without a credential.
func LoadConfig() (*Config, error) {
	provider := GetEnvOrDefault("R42_PROVIDER", ProviderOpenAI)
	if provider != ProviderOpenAI && provider != ProviderAnthropic {
		return nil, ErrUnknownProvider(provider)
	}

	dataDir := GetEnvOrDefault("R42_DATA_DIR", defaultDataDir())

	maxFileSizeMB := ParseInt64Env("R42_MAX_FILE_SIZE_MB", DefaultMaxFileSizeMB)
	if maxFileSizeMB <= 0 {
		return nil, fmt.Errorf("R42_MAX_FILE_SIZE_MB must be positive, got %d", maxFileSizeMB)
	}

	config := &Config{
		Provider:        provider,
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:           os.Getenv("R42_MODEL"),
		MaxFileSize:     maxFileSizeMB * 1024 * 1024,
		MaxContentChars: ParseIntEnv("R42_MAX_CONTENT_CHARS", DefaultMaxContentChars),
		AnalysisTimeout: ParseDurationEnv("R42_ANALYSIS_TIMEOUT_SECONDS", 60),
		DataDir:         dataDir,
		StoreQuotaBytes: ParseInt64Env("R42_STORE_QUOTA_BYTES", DefaultStoreQuotaBytes),
		PlatformsFile:   os.Getenv("R42_PLATFORMS_FILE"),
	}

	return config, nil
}

// defaultDataDir returns the per-user data directory for the local store.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".r42copilot"
	}
	return filepath.Join(home, ".r42copilot")
}
