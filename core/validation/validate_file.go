// Package validation runs the startup check suite: configuration files,
// model artifacts, staging directory, and knowledge base coverage, with
// colored progress output on the console.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CheckFileExists verifies that path exists and is a regular file.
func CheckFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file", path)
	}
	return nil
}

// CheckModelExtension verifies that the model artifact carries the
// expected .onnx extension.
func CheckModelExtension(path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".onnx" {
		return fmt.Errorf("model file %s does not have a .onnx extension", path)
	}
	return nil
}

// CheckDirWritable verifies that dir exists (creating it if needed) and
// accepts new files. The probe file is removed afterwards.
func CheckDirWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, "probe_*")
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("cannot remove probe file in %s: %w", dir, err)
	}
	return nil
}
