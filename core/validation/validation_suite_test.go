package validation

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ricedoctor/core"
	"ricedoctor/knowledge"
)

const metadataJSON = `{
	"input_shape": [1, 3, 224, 224],
	"output_shape": [1, 5],
	"classes": ["Bacterial Leaf Blight", "Brown Spot", "Khaira", "Leaf Blast", "Tungro"],
	"image_size": 224
}`

// writeFixtures lays out a valid local-backend configuration in dir and
// returns the matching Config.
func writeFixtures(t *testing.T, dir string) *core.Config {
	t.Helper()

	modelPath := filepath.Join(dir, "rice_leaf.onnx")
	if err := os.WriteFile(modelPath, []byte("onnx"), 0o600); err != nil {
		t.Fatal(err)
	}
	metaPath := filepath.Join(dir, "rice_leaf_metadata.json")
	if err := os.WriteFile(metaPath, []byte(metadataJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	return &core.Config{
		ModelPath:         modelPath,
		ModelMetadataPath: metaPath,
		InferenceBackend:  core.BackendLocal,
		StagingDir:        filepath.Join(dir, "staging"),
	}
}

func TestValidateAllChecksPass(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)

	var buf bytes.Buffer
	result := NewValidationSuite(cfg, knowledge.MustNewBase()).
		WithOutput(&buf).
		WithEnvPath(filepath.Join(dir, "nonexistent.env")).
		Validate()

	if !result.Success {
		t.Fatalf("Validate() failed: %+v", result.Steps)
	}
	if result.FailedSteps != 0 {
		t.Errorf("FailedSteps = %d, want 0", result.FailedSteps)
	}
	// Missing .env is a warning, never a failure.
	if result.Warnings == 0 {
		t.Error("missing env file should produce a warning")
	}
	if !strings.Contains(buf.String(), "Validation Passed") {
		t.Error("summary does not report success")
	}
}

func TestValidateMissingModelFails(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)
	cfg.ModelPath = filepath.Join(dir, "absent.onnx")

	result := NewValidationSuite(cfg, knowledge.MustNewBase()).
		WithShowProgress(false).
		Validate()

	if result.Success {
		t.Fatal("Validate() succeeded with a missing model file")
	}
	errs := result.GetErrors()
	if len(errs) == 0 {
		t.Fatal("GetErrors() returned nothing for a failed run")
	}
	if core.GetErrorCode(errs[0]) != core.ErrCodeModelNotFound {
		t.Errorf("error code = %s, want %s", core.GetErrorCode(errs[0]), core.ErrCodeModelNotFound)
	}
}

func TestValidateRemoteBackend(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		key       string
		wantOK    bool
		wantWarns bool
	}{
		{"configured endpoint", "https://api.example.com/v1", "sk-test", true, false},
		{"missing key warns", "https://api.example.com/v1", "", true, true},
		{"missing url fails", "", "sk-test", false, false},
		{"malformed url fails", "not-a-url", "sk-test", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := writeFixtures(t, dir)
			cfg.InferenceBackend = core.BackendRemote
			cfg.RemoteVisionURL = tt.url
			cfg.RemoteVisionKey = tt.key

			v := NewConfigValidator(cfg, nil)
			res := v.CheckRemoteEndpoint()

			switch {
			case tt.wantOK && tt.wantWarns:
				if res.Status != StepWarning {
					t.Errorf("status = %v, want warning", res.Status)
				}
			case tt.wantOK:
				if res.Status != StepPassed {
					t.Errorf("status = %v, want passed", res.Status)
				}
			default:
				if res.Status != StepFailed {
					t.Errorf("status = %v, want failed", res.Status)
				}
			}
		})
	}
}

func TestCheckKnowledgeCoverageWarnsOnGap(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)

	// Metadata with a class the knowledge base does not cover.
	gapped := strings.Replace(metadataJSON, `"Tungro"`, `"Sheath Rot"`, 1)
	if err := os.WriteFile(cfg.ModelMetadataPath, []byte(gapped), 0o600); err != nil {
		t.Fatal(err)
	}

	v := NewConfigValidator(cfg, knowledge.MustNewBase())
	res := v.CheckKnowledgeCoverage()

	if res.Status != StepWarning {
		t.Fatalf("status = %v, want warning", res.Status)
	}
	if !strings.Contains(res.Message, "Sheath Rot") {
		t.Errorf("warning message %q does not name the uncovered class", res.Message)
	}
}

func TestCheckStagingDirCreatesMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)
	cfg.StagingDir = filepath.Join(dir, "deep", "staging")

	v := NewConfigValidator(cfg, nil)
	if res := v.CheckStagingDir(); res.Status != StepPassed {
		t.Fatalf("status = %v, want passed (err: %v)", res.Status, res.Error)
	}
	if _, err := os.Stat(cfg.StagingDir); err != nil {
		t.Errorf("staging dir was not created: %v", err)
	}
}

func TestValidateFailFastStopsEarly(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)
	cfg.ModelPath = filepath.Join(dir, "absent.onnx")

	result := NewValidationSuite(cfg, nil).
		WithShowProgress(false).
		WithFailFast(true).
		Validate()

	if result.Success {
		t.Fatal("Validate() succeeded with a missing model file")
	}
	if result.TotalSteps >= 6 {
		t.Errorf("TotalSteps = %d, want fewer than 6 with fail-fast", result.TotalSteps)
	}
}
