package validation

import (
	"fmt"
	"net/url"
	"strings"

	"ricedoctor/classifier"
	"ricedoctor/core"
	"ricedoctor/knowledge"
)

// ValidationResult represents the outcome of a single configuration check.
type ValidationResult struct {
	Status  StepStatus
	Message string
	Error   error
}

func passed(msg string) ValidationResult {
	return ValidationResult{Status: StepPassed, Message: msg}
}

func warned(msg string) ValidationResult {
	return ValidationResult{Status: StepWarning, Message: msg}
}

func failed(msg string, err error) ValidationResult {
	return ValidationResult{Status: StepFailed, Message: msg, Error: err}
}

// ConfigValidator checks the loaded configuration against the filesystem
// and the embedded knowledge base.
type ConfigValidator struct {
	cfg     *core.Config
	kb      *knowledge.Base
	envPath string
}

// NewConfigValidator creates a validator for cfg. The knowledge base may
// be nil, in which case the coverage check is skipped.
func NewConfigValidator(cfg *core.Config, kb *knowledge.Base) *ConfigValidator {
	return &ConfigValidator{
		cfg:     cfg,
		kb:      kb,
		envPath: ".env",
	}
}

// WithEnvPath sets a custom path for the .env file.
func (v *ConfigValidator) WithEnvPath(path string) *ConfigValidator {
	v.envPath = path
	return v
}

// CheckEnvFile reports whether the .env file exists. A missing file is a
// warning, not a failure: all settings have environment defaults.
func (v *ConfigValidator) CheckEnvFile() ValidationResult {
	if err := CheckFileExists(v.envPath); err != nil {
		return warned("No " + v.envPath + " file, using environment defaults")
	}
	return passed("Environment file found")
}

// CheckModelArtifact verifies the model file for the local backend. The
// remote backend needs no local artifact.
func (v *ConfigValidator) CheckModelArtifact() ValidationResult {
	if v.cfg.InferenceBackend != core.BackendLocal {
		return passed("Remote backend selected, no local artifact required")
	}
	if err := CheckFileExists(v.cfg.ModelPath); err != nil {
		return failed(
			"Model file missing. Set MODEL_PATH or place the exported classifier at "+v.cfg.ModelPath,
			core.ErrModelNotFound(v.cfg.ModelPath))
	}
	if err := CheckModelExtension(v.cfg.ModelPath); err != nil {
		return failed("Model file must be an ONNX export", core.ErrInvalidModelPath(v.cfg.ModelPath, err.Error()))
	}
	return passed("Model artifact found")
}

// CheckMetadata verifies that the metadata file parses and describes a
// usable classifier.
func (v *ConfigValidator) CheckMetadata() ValidationResult {
	meta, err := classifier.LoadMetadata(v.cfg.ModelMetadataPath)
	if err != nil {
		return failed(
			"Metadata missing or malformed. Set MODEL_METADATA_PATH to the exported metadata JSON",
			err)
	}
	if err := meta.Validate(); err != nil {
		return failed("Metadata is inconsistent", err)
	}
	return passed(fmt.Sprintf("Metadata valid (%d classes, %dpx input)", len(meta.Classes), meta.InputSize()))
}

// CheckKnowledgeCoverage warns about model classes that have no treatment
// record. Diagnoses for those classes still succeed but carry no advisory.
func (v *ConfigValidator) CheckKnowledgeCoverage() ValidationResult {
	if v.kb == nil {
		return passed("Knowledge base check skipped")
	}
	meta, err := classifier.LoadMetadata(v.cfg.ModelMetadataPath)
	if err != nil {
		return warned("Cannot check coverage without metadata")
	}

	var uncovered []string
	for _, class := range meta.Classes {
		if adv := v.kb.Lookup(class); !adv.Available {
			uncovered = append(uncovered, class)
		}
	}
	if len(uncovered) > 0 {
		return warned("No treatment record for: " + strings.Join(uncovered, ", "))
	}
	return passed(fmt.Sprintf("All %d classes have treatment records", len(meta.Classes)))
}

// CheckRemoteEndpoint verifies the remote vision endpoint configuration
// when the remote backend is selected.
func (v *ConfigValidator) CheckRemoteEndpoint() ValidationResult {
	if v.cfg.InferenceBackend != core.BackendRemote {
		return passed("Local backend selected, no remote endpoint required")
	}
	if v.cfg.RemoteVisionURL == "" {
		return failed(
			"REMOTE_VISION_URL required for the remote backend (e.g. https://api.openai.com/v1)",
			core.ErrMissingRemoteURL())
	}
	u, err := url.Parse(v.cfg.RemoteVisionURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return failed("Invalid remote endpoint URL: "+v.cfg.RemoteVisionURL,
			core.ErrMissingConfig("REMOTE_VISION_URL"))
	}
	if v.cfg.RemoteVisionKey == "" {
		return warned("REMOTE_VISION_KEY is empty, requests may be rejected")
	}
	return passed("Remote endpoint configured")
}

// CheckStagingDir verifies that the staging directory accepts writes.
func (v *ConfigValidator) CheckStagingDir() ValidationResult {
	if err := CheckDirWritable(v.cfg.StagingDir); err != nil {
		return failed(
			"Staging directory is not writable. Set STAGING_DIR to a writable location",
			core.ErrStagingUnwritable(v.cfg.StagingDir, err.Error()))
	}
	return passed("Staging directory writable")
}
