package shutdown

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"ricedoctor/core"
)

// stagingPattern matches the temporary image files created while a
// diagnosis is in flight. Orphans only appear after a crash; normal
// operation removes each file when its diagnosis finishes.
const stagingPattern = "temp_*"

// CleanupStaging returns a shutdown function that sweeps orphaned staged
// images from dir. Individual removal failures are logged and skipped so
// the sweep never blocks the rest of the shutdown sequence.
func CleanupStaging(logger *zap.Logger, dir string) core.ShutdownFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context) error {
		matches, err := filepath.Glob(filepath.Join(dir, stagingPattern))
		if err != nil {
			logger.Warn("staging sweep glob failed",
				zap.String("dir", dir), zap.Error(err))
			return nil
		}

		removed := 0
		for _, path := range matches {
			select {
			case <-ctx.Done():
				logger.Warn("staging sweep cancelled",
					zap.Int("removed", removed),
					zap.Int("remaining", len(matches)-removed))
				return nil
			default:
			}

			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Warn("could not remove staged file",
					zap.String("path", path), zap.Error(err))
				continue
			}
			removed++
		}

		if removed > 0 {
			logger.Info("staging sweep complete",
				zap.String("dir", dir), zap.Int("removed", removed))
		}
		return nil
	}
}
