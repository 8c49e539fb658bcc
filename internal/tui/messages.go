package tui

import (
	"github.com/gsales/gsales/internal/domain"
	"github.com/gsales/gsales/internal/netmon"
	"github.com/gsales/gsales/internal/syncer"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SalesLoadedMsg signals that the sales list has been loaded
type SalesLoadedMsg struct {
	Sales []domain.Sale
}

// LogsLoadedMsg signals that the activity log has been loaded
type LogsLoadedMsg struct {
	Entries []domain.LogEntry
}

// SaleRecordedMsg signals that a new sale was persisted
type SaleRecordedMsg struct {
	Sale *domain.Sale
}

// SyncDoneMsg signals that a sync pass finished. Silent passes (reconnect
// triggered) refresh the view without an interactive notice.
type SyncDoneMsg struct {
	Summary syncer.Summary
	Err     error
	Silent  bool
}

// ExportDoneMsg signals that the activity log was written to disk
type ExportDoneMsg struct {
	Path string
}

// LogsClearedMsg signals that the activity log was cleared
type LogsClearedMsg struct{}

// NetStatusMsg carries a connectivity transition from the monitor
type NetStatusMsg struct {
	Status netmon.Status
}
