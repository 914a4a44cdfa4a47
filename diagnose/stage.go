// Package diagnose coordinates a single leaf diagnosis: staging the image
// for the inference backend, classification, top-1 interpretation, and the
// treatment advisory lookup.
package diagnose

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Staged is a transient on-disk copy of an in-memory image, required
// because the inference backend consumes a file path. It must be released
// on every exit path of the call that created it; Release is idempotent.
type Staged struct {
	path string

	mu       sync.Mutex
	released bool
}

// Stage writes imageData to a uniquely named file in dir. Each call gets
// its own path (concurrent diagnose calls never collide) and the temp_
// prefix lets the startup sweep remove files orphaned by a crash.
func Stage(dir string, imageData []byte) (*Staged, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("diagnose: no image data to stage")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("diagnose: creating staging dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("temp_%s.jpg", uuid.New().String()))
	if err := os.WriteFile(path, imageData, 0o600); err != nil {
		return nil, fmt.Errorf("diagnose: staging image: %w", err)
	}

	return &Staged{path: path}, nil
}

// Path returns the staged file's location.
func (s *Staged) Path() string {
	return s.path
}

// Release deletes the staged file. Safe to call more than once; a file
// already gone counts as released.
func (s *Staged) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("diagnose: releasing staged image: %w", err)
	}
	return nil
}
