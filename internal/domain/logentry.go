package domain

import "time"

// Event type tags for activity log entries. The set is open ended; these
// constants cover the events the application itself emits.
const (
	EventSaleAdd     = "sale_add"
	EventSyncAttempt = "sync_attempt"
	EventSyncSuccess = "sync_success"
	EventSyncFail    = "sync_fail"
	EventSyncSummary = "sync_attempt_summary"
	EventReconnect   = "reconnect"
	EventExportCSV   = "export_csv"
	EventClearLogs   = "clear_logs"
)

// LogEntry is an immutable, append-only audit record of a significant action.
// Entries have no natural id; the store assigns an implicit sequence number.
type LogEntry struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"` // RFC 3339
}

// NewLogEntry builds an entry stamped with the current time.
func NewLogEntry(eventType, message string) LogEntry {
	return LogEntry{
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Time parses the entry timestamp. Entries with unparseable timestamps sort
// as the zero time.
func (e LogEntry) Time() time.Time {
	t, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
