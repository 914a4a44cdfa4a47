//go:build !windows

package main

import "testing"

func TestHandleServiceCommandNoArgs(t *testing.T) {
	if HandleServiceCommand(nil) {
		t.Error("HandleServiceCommand(nil) = true, want false")
	}
	if HandleServiceCommand([]string{}) {
		t.Error("HandleServiceCommand(empty) = true, want false")
	}
}

func TestHandleServiceCommandIgnoredOffWindows(t *testing.T) {
	for _, cmd := range []string{"install", "uninstall", "start", "stop", "restart"} {
		if HandleServiceCommand([]string{cmd}) {
			t.Errorf("HandleServiceCommand(%q) = true on non-Windows, want false", cmd)
		}
	}
}

func TestRunAsServiceOffWindows(t *testing.T) {
	ran, err := RunAsService()
	if ran {
		t.Error("RunAsService() ran = true on non-Windows, want false")
	}
	if err != nil {
		t.Errorf("RunAsService() error = %v, want nil", err)
	}
}
