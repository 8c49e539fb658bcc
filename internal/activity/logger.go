// Package activity maintains the append-only audit trail of everything the
// application does. Writes are best effort: a logging failure must never
// abort the action that triggered it, so append errors are reported to the
// process log only.
package activity

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gsales/gsales/internal/domain"
)

// Logger appends structured, timestamped entries to the activity log.
type Logger struct {
	store  domain.Store
	logger *slog.Logger
}

// NewLogger creates a new activity Logger.
func NewLogger(store domain.Store, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{store: store, logger: logger}
}

// Log appends an entry of the given type. Errors never reach the caller.
func (l *Logger) Log(eventType, message string) {
	entry := domain.NewLogEntry(eventType, message)
	if err := l.store.AppendLog(entry); err != nil {
		l.logger.Error("failed to append activity log entry",
			"type", eventType, "error", err)
	}
}

// Entries returns all log entries in insertion order.
func (l *Logger) Entries() ([]domain.LogEntry, error) {
	return l.store.Logs()
}

// Clear wipes the log collection, then records the clear itself; the
// clear-action entry is the only one that survives.
func (l *Logger) Clear() error {
	if err := l.store.Clear(domain.CollectionLogs); err != nil {
		return fmt.Errorf("failed to clear activity log: %w", err)
	}
	l.Log(domain.EventClearLogs, "User cleared logs")
	return nil
}

// ExportCSV serializes every log entry as CSV with an event,message,timestamp
// header. All fields are quoted with embedded quotes doubled, so messages
// containing quotes or newlines survive a round trip through any RFC 4180
// parser. Returns the text and the dated filename; the export itself is
// logged afterwards.
func (l *Logger) ExportCSV() (string, string, error) {
	entries, err := l.store.Logs()
	if err != nil {
		return "", "", fmt.Errorf("failed to read activity log: %w", err)
	}
	if len(entries) == 0 {
		return "", "", domain.ErrNoEntries
	}

	var b strings.Builder
	writeRow(&b, "event", "message", "timestamp")
	for _, e := range entries {
		writeRow(&b, e.Type, e.Message, e.Timestamp)
	}

	filename := fmt.Sprintf("Gsales_ActivityLog_%s.csv", time.Now().Format("2006-01-02"))
	l.Log(domain.EventExportCSV, "Exported CSV: "+filename)

	return b.String(), filename, nil
}

// WriteCSVFile exports the log and saves it into dir, returning the full
// path of the written file.
func (l *Logger) WriteCSVFile(dir string) (string, error) {
	csv, filename, err := l.ExportCSV()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func writeRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
