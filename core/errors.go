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
	ErrCodeEnvFileMissing     = "ENV_FILE_MISSING"
	ErrCodeModelNotFound      = "MODEL_NOT_FOUND"
	ErrCodeInvalidModelPath   = "INVALID_MODEL_PATH"
	ErrCodeInvalidMetadata    = "INVALID_METADATA"
	ErrCodeInvalidBackend     = "INVALID_BACKEND"
	ErrCodeMissingRemoteURL   = "MISSING_REMOTE_URL"
	ErrCodeStagingUnwritable  = "STAGING_UNWRITABLE"
	ErrCodeMissingConfig      = "MISSING_CONFIG"
)

// ErrEnvFileMissing returns an error for missing .env file
func ErrEnvFileMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeEnvFileMissing,
		Message: fmt.Sprintf("Configuration file not found: %s", path),
		Action:  "Copy example.env to .env and configure the required values",
	}
}

// ErrModelNotFound returns an error for a missing classifier artifact
func ErrModelNotFound(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeModelNotFound,
		Message: fmt.Sprintf("Classifier model not found: %s", path),
		Action:  "Set MODEL_PATH to the exported ONNX model file",
	}
}

// ErrInvalidModelPath returns an error for an unusable model path
func ErrInvalidModelPath(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidModelPath,
		Message: fmt.Sprintf("Invalid MODEL_PATH '%s': %s", path, reason),
		Action:  "Set MODEL_PATH to a readable .onnx file",
	}
}

// ErrInvalidMetadata returns an error for unreadable or malformed model metadata
func ErrInvalidMetadata(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidMetadata,
		Message: fmt.Sprintf("Invalid model metadata '%s': %s", path, reason),
		Action:  "Set MODEL_METADATA_PATH to the metadata JSON exported with the model",
	}
}

// ErrInvalidBackend returns an error for an unknown inference backend name
func ErrInvalidBackend(name string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidBackend,
		Message: fmt.Sprintf("Unknown inference backend: %s", name),
		Action:  "Set INFERENCE_BACKEND to 'local' or 'remote'",
	}
}

// ErrMissingRemoteURL returns an error when the remote backend has no endpoint
func ErrMissingRemoteURL() *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingRemoteURL,
		Message: "Remote inference backend selected but no endpoint configured",
		Action:  "Set REMOTE_VISION_URL to an OpenAI-compatible vision endpoint",
	}
}

// ErrStagingUnwritable returns an error when the staging directory cannot be used
func ErrStagingUnwritable(dir string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeStagingUnwritable,
		Message: fmt.Sprintf("Staging directory %s is not writable: %s", dir, reason),
		Action:  "Set STAGING_DIR to a writable directory",
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
