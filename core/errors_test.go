package core

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigErrorMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        *ConfigError
		wantSubstr []string
	}{
		{
			name:       "message with action",
			err:        &ConfigError{Code: "X", Message: "something broke", Action: "fix it"},
			wantSubstr: []string{"something broke", "fix it"},
		},
		{
			name:       "message without action",
			err:        &ConfigError{Code: "X", Message: "something broke"},
			wantSubstr: []string{"something broke"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.wantSubstr {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, missing %q", msg, want)
				}
			}
		})
	}
}

func TestErrorConstructorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		code string
	}{
		{"env file missing", ErrEnvFileMissing(".env"), ErrCodeEnvFileMissing},
		{"model not found", ErrModelNotFound("models/rice_leaf.onnx"), ErrCodeModelNotFound},
		{"invalid model path", ErrInvalidModelPath("/dev/null", "not a file"), ErrCodeInvalidModelPath},
		{"invalid metadata", ErrInvalidMetadata("meta.json", "bad JSON"), ErrCodeInvalidMetadata},
		{"invalid backend", ErrInvalidBackend("quantum"), ErrCodeInvalidBackend},
		{"missing remote url", ErrMissingRemoteURL(), ErrCodeMissingRemoteURL},
		{"staging unwritable", ErrStagingUnwritable("/staging", "permission denied"), ErrCodeStagingUnwritable},
		{"missing config", ErrMissingConfig("MODEL_PATH"), ErrCodeMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Message is empty")
			}
			if tt.err.Action == "" {
				t.Error("Action is empty")
			}
		})
	}
}

func TestIsConfigError(t *testing.T) {
	cfgErr := ErrMissingConfig("MODEL_PATH")

	if got, ok := IsConfigError(cfgErr); !ok || got != cfgErr {
		t.Errorf("IsConfigError(ConfigError) = (%v, %v), want match", got, ok)
	}

	if _, ok := IsConfigError(errors.New("plain error")); ok {
		t.Error("IsConfigError(plain error) = true, want false")
	}

	if code := GetErrorCode(cfgErr); code != ErrCodeMissingConfig {
		t.Errorf("GetErrorCode() = %q, want %q", code, ErrCodeMissingConfig)
	}
	if code := GetErrorCode(errors.New("plain")); code != "" {
		t.Errorf("GetErrorCode(plain) = %q, want empty", code)
	}
}
