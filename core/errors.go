package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeEnvFileMissing  = "ENV_FILE_MISSING"
	ErrCodeMissingAPIKey   = "MISSING_API_KEY"
	ErrCodeUnknownProvider = "UNKNOWN_PROVIDER"
	ErrCodeMissingConfig   = "MISSING_CONFIG"
)

// ErrEnvFileMissing returns an error for missing .env file
func ErrEnvFileMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeEnvFileMissing,
		Message: fmt.Sprintf("Configuration file not found: %s", path),
		Action:  "Copy example.env to .env and configure the required values",
	}
}

// ErrMissingAPIKey returns an error for a missing analysis provider credential
func ErrMissingAPIKey(provider string) *ConfigError {
	var action string
	switch provider {
	case "openai":
		action = "Set OPENAI_API_KEY in your .env file"
	case "anthropic":
		action = "Set ANTHROPIC_API_KEY in your .env file"
	default:
		action = fmt.Sprintf("Set the API key for provider %q in your .env file", provider)
	}
	return &ConfigError{
		Code:    ErrCodeMissingAPIKey,
		Message: fmt.Sprintf("Missing API key for analysis provider %q", provider),
		Action:  action,
	}
}

// ErrUnknownProvider returns an error for an unrecognized analysis provider name
func ErrUnknownProvider(provider string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeUnknownProvider,
		Message: fmt.Sprintf("Unknown analysis provider: %q", provider),
		Action:  "Set R42_PROVIDER to \"openai\" or \"anthropic\"",
	}
}

// ErrMissingConfig returns an error for missing required configuration
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file", varName),
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so
func IsConfigError(err error) (*ConfigError, bool) {
	if configErr, ok := err.(*ConfigError); ok {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
