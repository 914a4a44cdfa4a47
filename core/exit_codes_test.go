package core

import "testing"

func TestExitCodeName(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{ExitCodeSuccess, "success"},
		{ExitCodeError, "error"},
		{ExitCodeSIGINT, "interrupted (SIGINT)"},
		{ExitCodeSIGTERM, "terminated (SIGTERM)"},
		{99, "unknown"},
	}

	for _, tt := range tests {
		if got := ExitCodeName(tt.code); got != tt.want {
			t.Errorf("ExitCodeName(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestIsSignalExit(t *testing.T) {
	if !IsSignalExit(ExitCodeSIGINT) || !IsSignalExit(ExitCodeSIGTERM) {
		t.Error("signal exit codes not recognized")
	}
	if IsSignalExit(ExitCodeSuccess) || IsSignalExit(ExitCodeError) {
		t.Error("non-signal exit codes misclassified")
	}
}
