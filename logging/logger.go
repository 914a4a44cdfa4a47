package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the application logger: console plus rotating file, with
// caller annotations. In development mode the console output is colored and
// human-readable; in production both outputs are JSON.
//
// Callers should defer logger.Sync() before exit.
func NewLogger(level zapcore.Level, logFilePath string, isDev bool) *zap.Logger {
	core := NewMultiCore(level, logFilePath, isDev)
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// NewLoggerWithConfig is NewLogger with custom file rotation settings.
func NewLoggerWithConfig(level zapcore.Level, logFilePath string, isDev bool, fileConfig FileWriterConfig) *zap.Logger {
	core := NewMultiCoreWithWriters(
		level,
		zapcore.AddSync(os.Stdout),
		NewFileWriterWithConfig(logFilePath, fileConfig),
		isDev,
	)
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}
