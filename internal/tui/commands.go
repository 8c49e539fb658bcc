package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gsales/gsales/internal/activity"
	"github.com/gsales/gsales/internal/netmon"
	"github.com/gsales/gsales/internal/sales"
	"github.com/gsales/gsales/internal/syncer"
)

// Command factories for async operations

// LoadSalesCmd loads the sales list, most recent first
func LoadSalesCmd(svc *sales.Service) tea.Cmd {
	return func() tea.Msg {
		list, err := svc.List()
		if err != nil {
			return ErrMsg{Err: err, Context: "loading sales"}
		}
		return SalesLoadedMsg{Sales: list}
	}
}

// LoadLogsCmd loads the activity log
func LoadLogsCmd(act *activity.Logger) tea.Cmd {
	return func() tea.Msg {
		entries, err := act.Entries()
		if err != nil {
			return ErrMsg{Err: err, Context: "loading activity log"}
		}
		return LogsLoadedMsg{Entries: entries}
	}
}

// RecordSaleCmd validates and persists a new sale
func RecordSaleCmd(svc *sales.Service, item, qty, price string) tea.Cmd {
	return func() tea.Msg {
		sale, err := svc.Record(item, qty, price)
		if err != nil {
			return ErrMsg{Err: err, Context: "recording sale"}
		}
		return SaleRecordedMsg{Sale: sale}
	}
}

// SyncCmd runs one sync pass over the pending sales
func SyncCmd(engine *syncer.Engine, silent bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		summary, err := engine.SyncAll(ctx)
		return SyncDoneMsg{Summary: summary, Err: err, Silent: silent}
	}
}

// ExportCmd writes the activity log CSV into dir
func ExportCmd(act *activity.Logger, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := act.WriteCSVFile(dir)
		if err != nil {
			return ErrMsg{Err: err, Context: "exporting CSV"}
		}
		return ExportDoneMsg{Path: path}
	}
}

// ClearLogsCmd wipes the activity log
func ClearLogsCmd(act *activity.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := act.Clear(); err != nil {
			return ErrMsg{Err: err, Context: "clearing logs"}
		}
		return LogsClearedMsg{}
	}
}

// ListenNetCmd waits for the next connectivity transition. The command
// re-arms itself from Update on every NetStatusMsg.
func ListenNetCmd(monitor *netmon.Monitor) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-monitor.Events()
		if !ok {
			return nil
		}
		return NetStatusMsg{Status: status}
	}
}
