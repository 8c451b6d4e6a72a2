package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger records structured run events. With no log file configured it
// discards everything.
type Logger struct {
	zap *zap.Logger
}

// NewLogger opens a JSON logger appending to path at the given level.
// An empty path returns a no-op logger.
func NewLogger(path, level string) (*Logger, error) {
	if path == "" {
		return NopLogger(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(f),
		lvl,
	)
	return &Logger{zap: zap.New(core)}, nil
}

// NopLogger returns a logger that discards all events.
func NopLogger() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// Close flushes buffered log entries.
func (l *Logger) Close() {
	if l != nil && l.zap != nil {
		_ = l.zap.Sync()
	}
}

// RunStarted records the start of a patch run.
func (l *Logger) RunStarted(documents int) {
	if l == nil || l.zap == nil {
		return
	}
	l.zap.Info("run started", zap.Int("documents", documents))
}

// DocumentApplied records a successfully applied edit document.
func (l *Logger) DocumentApplied(path string, edits int) {
	if l == nil || l.zap == nil {
		return
	}
	l.zap.Info("document applied", zap.String("path", path), zap.Int("edits", edits))
}

// DocumentFailed records an edit document that could not be applied.
func (l *Logger) DocumentFailed(path string, err error) {
	if l == nil || l.zap == nil {
		return
	}
	l.zap.Error("document failed", zap.String("path", path), zap.Error(err))
}

// OpenFailed records a document that could not be loaded.
func (l *Logger) OpenFailed(path string, err error) {
	if l == nil || l.zap == nil {
		return
	}
	l.zap.Warn("open failed", zap.String("path", path), zap.Error(err))
}

// FileSaved records a document written back to disk.
func (l *Logger) FileSaved(path string, backup bool) {
	if l == nil || l.zap == nil {
		return
	}
	l.zap.Info("file saved", zap.String("path", path), zap.Bool("backup", backup))
}

// RunFinished records the outcome of a patch run.
func (l *Logger) RunFinished(files, edits int, dryRun bool) {
	if l == nil || l.zap == nil {
		return
	}
	l.zap.Info("run finished",
		zap.Int("files", files),
		zap.Int("edits", edits),
		zap.Bool("dry_run", dryRun),
	)
}
