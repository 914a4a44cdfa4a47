package diagnose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStageWritesUniqueFiles(t *testing.T) {
	dir := t.TempDir()

	first, err := Stage(dir, []byte("image-a"))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	second, err := Stage(dir, []byte("image-b"))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	if first.Path() == second.Path() {
		t.Error("two staged images share a path")
	}
	for _, staged := range []*Staged{first, second} {
		base := filepath.Base(staged.Path())
		if !strings.HasPrefix(base, "temp_") {
			t.Errorf("staged file %q lacks temp_ prefix", base)
		}
		if _, err := os.Stat(staged.Path()); err != nil {
			t.Errorf("staged file missing: %v", err)
		}
	}

	data, err := os.ReadFile(first.Path())
	if err != nil {
		t.Fatalf("reading staged file: %v", err)
	}
	if string(data) != "image-a" {
		t.Errorf("staged content = %q, want image-a", data)
	}
}

func TestStageCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "staging")

	staged, err := Stage(dir, []byte("image"))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if _, err := os.Stat(staged.Path()); err != nil {
		t.Errorf("staged file missing: %v", err)
	}
}

func TestStageRejectsEmptyData(t *testing.T) {
	if _, err := Stage(t.TempDir(), nil); err == nil {
		t.Error("Stage(nil) = nil error, want failure")
	}
}

func TestReleaseRemovesFile(t *testing.T) {
	staged, err := Stage(t.TempDir(), []byte("image"))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	if err := staged.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(staged.Path()); !os.IsNotExist(err) {
		t.Error("staged file still exists after Release")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	staged, err := Stage(t.TempDir(), []byte("image"))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	if err := staged.Release(); err != nil {
		t.Fatalf("first Release() error = %v", err)
	}
	if err := staged.Release(); err != nil {
		t.Errorf("second Release() error = %v, want nil", err)
	}
}

func TestReleaseToleratesExternalDeletion(t *testing.T) {
	staged, err := Stage(t.TempDir(), []byte("image"))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	if err := os.Remove(staged.Path()); err != nil {
		t.Fatalf("removing staged file: %v", err)
	}
	if err := staged.Release(); err != nil {
		t.Errorf("Release() after external delete error = %v, want nil", err)
	}
}
