package core

import (
	"strings"
	"time"
)

// Inference backend names accepted by INFERENCE_BACKEND.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config holds all configuration values
type Config struct {
	// Classifier Configuration
	ModelPath         string // Path to the exported ONNX classifier
	ModelMetadataPath string // Path to the metadata JSON (shapes, class list, image size)
	InferenceBackend  string // "local" (ONNX Runtime) or "remote" (OpenAI-compatible vision API)
	RunStartupTest    bool   // Run a warm-up inference after loading the model

	// Remote Backend Configuration (only used when InferenceBackend == "remote")
	RemoteVisionURL   string // OpenAI-compatible endpoint base URL
	RemoteVisionKey   string // API key for the remote endpoint
	RemoteVisionModel string // Model identifier sent to the remote endpoint

	// Staging Configuration
	StagingDir string // Directory for transient per-call image staging files

	// HTTP Server Configuration
	Host          string
	Port          int
	WebUIPassword string // Optional basic-auth password for the HTTP surface

	// Processing Configuration
	DiagnoseTimeout time.Duration // Per-call inference timeout
	ShutdownTimeout time.Duration // Graceful shutdown deadline
	MaxImageBytes   int64         // Upper bound on accepted upload size
	HistorySize     int           // Diagnosis records retained in the in-memory metrics store

	// Logging Configuration
	LogLevel string
	LogFile  string
}

// LoadConfig reads configuration from the environment, applying defaults for
// everything that is optional. It validates cross-field constraints (backend
// selection, remote endpoint presence) and returns a ConfigError on violation.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ModelPath:         GetEnvOrDefault("MODEL_PATH", "models/rice_leaf.onnx"),
		ModelMetadataPath: GetEnvOrDefault("MODEL_METADATA_PATH", "models/rice_leaf_metadata.json"),
		InferenceBackend:  strings.ToLower(GetEnvOrDefault("INFERENCE_BACKEND", BackendLocal)),
		RunStartupTest:    ParseBoolEnv("RUN_STARTUP_TEST", true),

		RemoteVisionURL:   GetEnvOrDefault("REMOTE_VISION_URL", ""),
		RemoteVisionKey:   GetEnvOrDefault("REMOTE_VISION_KEY", ""),
		RemoteVisionModel: GetEnvOrDefault("REMOTE_VISION_MODEL", "gpt-4o-mini"),

		StagingDir: GetEnvOrDefault("STAGING_DIR", "staging"),

		Host:          GetEnvOrDefault("HOST", "0.0.0.0"),
		Port:          ParseIntEnv("PORT", 8080),
		WebUIPassword: GetEnvOrDefault("WEBUI_PWD", ""),

		DiagnoseTimeout: ParseDurationEnv("DIAGNOSE_TIMEOUT", 60),
		ShutdownTimeout: ParseDurationEnv("SHUTDOWN_TIMEOUT", 30),
		MaxImageBytes:   int64(ParseIntEnv("MAX_IMAGE_MB", 10)) * 1024 * 1024,
		HistorySize:     ParseIntEnv("HISTORY_SIZE", 100),

		LogLevel: GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  GetEnvOrDefault("LOG_FILE", "ricedoctor.log"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that env parsing alone cannot catch.
func (c *Config) Validate() error {
	switch c.InferenceBackend {
	case BackendLocal, BackendRemote:
	default:
		return ErrInvalidBackend(c.InferenceBackend)
	}

	if c.InferenceBackend == BackendRemote && c.RemoteVisionURL == "" {
		return ErrMissingRemoteURL()
	}

	if c.ModelMetadataPath == "" {
		return ErrMissingConfig("MODEL_METADATA_PATH")
	}
	if c.InferenceBackend == BackendLocal && c.ModelPath == "" {
		return ErrMissingConfig("MODEL_PATH")
	}
	if c.StagingDir == "" {
		return ErrMissingConfig("STAGING_DIR")
	}

	return nil
}
