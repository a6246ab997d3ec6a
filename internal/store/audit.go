package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// AuditLog appends one timestamped line per mutating command. The file
// is a pure audit trail: append-only and never consulted by any command.
type AuditLog struct {
	path   string
	logger *slog.Logger
}

// NewAuditLog creates an audit log writing to path. An empty path
// disables auditing.
func NewAuditLog(path string, logger *slog.Logger) *AuditLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLog{path: path, logger: logger}
}

// Append writes one "[timestamp] action: details" line. Audit failures
// are logged and swallowed — they never fail the command that triggered
// them.
func (a *AuditLog) Append(action, details string) {
	if a.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		a.logger.Warn("audit: creating log directory", "error", err)
		return
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		a.logger.Warn("audit: opening log file", "error", err)
		return
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("[%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05"), action, details)
	if _, err := f.WriteString(line); err != nil {
		a.logger.Warn("audit: writing entry", "error", err)
	}
}
