package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gsales/gsales/internal/domain"
	"github.com/gsales/gsales/internal/netmon"
	"github.com/gsales/gsales/internal/tui/styles"
)

const timeLayout = "2006-01-02 15:04:05"

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	switch m.State {
	case StateAdding:
		b.WriteString(m.form.view())
	case StateConfirmClear:
		b.WriteString(styles.ErrorStyle.Render("Clear all logs?"))
		b.WriteString(styles.DimStyle.Render("  y confirm · any other key cancel"))
	default:
		if m.Tab == TabSales {
			b.WriteString(m.salesView())
		} else {
			b.WriteString(m.activityView())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := styles.TitleStyle.Render(" G.sales ")

	salesTab := styles.InactiveTabStyle.Render("Sales")
	activityTab := styles.InactiveTabStyle.Render("Activity")
	if m.Tab == TabSales {
		salesTab = styles.ActiveTabStyle.Render("Sales")
	} else {
		activityTab = styles.ActiveTabStyle.Render("Activity")
	}

	var net string
	switch m.NetStatus {
	case netmon.StatusOnline:
		net = styles.OnlineBadge
	case netmon.StatusOffline:
		net = styles.OfflineBadge
	default:
		net = styles.UnknownBadge
	}

	lastSync := "Last sync: —"
	if m.HasSync {
		lastSync = "Last sync: " + m.LastSync.Local().Format(timeLayout)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		title, "  ", salesTab, activityTab, "   ",
		net, "  ", styles.DimStyle.Render(lastSync))
}

func (m Model) salesView() string {
	list := filterSales(m.Sales, m.query)
	if len(list) == 0 {
		if m.query != "" {
			return styles.DimStyle.Render("No sales match the filter.")
		}
		return styles.DimStyle.Render("No sales yet.")
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf(
		"%-24s %8s %12s %12s  %-19s %s",
		"Item", "Qty", "Price", "Total", "Timestamp", "Status")))
	b.WriteString("\n")

	for _, s := range list {
		badge := styles.PendingBadge
		if s.Synced {
			badge = styles.SyncedBadge
		}
		b.WriteString(fmt.Sprintf("%-24s %8s %12s %12s  %-19s %s\n",
			truncate(s.Item, 24),
			trimZeros(s.Qty),
			"₦"+fmt.Sprintf("%.2f", s.Price),
			"₦"+fmt.Sprintf("%.2f", s.Total()),
			s.CreatedTime().Local().Format(timeLayout),
			badge))
	}
	return b.String()
}

func (m Model) activityView() string {
	entries := filterLogs(m.Entries, m.query)
	if len(entries) == 0 {
		if m.query != "" {
			return styles.DimStyle.Render("No log entries match the filter.")
		}
		return styles.DimStyle.Render("No logs yet.")
	}

	// Display is newest first; storage order is insertion order
	sorted := make([]domain.LogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time().After(sorted[j].Time())
	})

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf(
		"%-24s %-50s %s", "Event", "Message", "Time")))
	b.WriteString("\n")

	for _, e := range sorted {
		ts := e.Timestamp
		if t := e.Time(); !t.IsZero() {
			ts = t.Local().Format(timeLayout)
		}
		b.WriteString(fmt.Sprintf("%-24s %-50s %s\n",
			eventEmoji(e.Type)+" "+e.Type,
			truncate(e.Message, 50),
			styles.DimStyle.Render(ts)))
	}
	return b.String()
}

func (m Model) statusView() string {
	if m.StatusMsg == "" {
		return ""
	}
	if m.StatusIsErr {
		return styles.ErrorStyle.Render(m.StatusMsg)
	}
	return styles.AccentStyle.Render(m.StatusMsg)
}

func (m Model) footerView() string {
	pending := 0
	for _, s := range m.Sales {
		if !s.Synced {
			pending++
		}
	}

	help := "a add · s sync · e export · tab switch · / filter · q quit"
	if m.Tab == TabActivity {
		help = "s sync · e export · C clear · tab switch · / filter · q quit"
	}
	if m.State == StateFiltering {
		help = "filter: " + m.filter.View()
	}

	left := styles.DimStyle.Render(help)
	right := styles.DimStyle.Render(fmt.Sprintf("%d pending", pending))
	if m.query != "" && m.State != StateFiltering {
		right = styles.AccentStyle.Render("filter: "+m.query) + "  " + right
	}
	return left + "   " + right
}

func eventEmoji(eventType string) string {
	switch {
	case strings.Contains(eventType, "sale"):
		return "📝"
	case strings.Contains(eventType, domain.EventSyncSuccess):
		return "✅"
	case strings.Contains(eventType, domain.EventSyncFail):
		return "⚠️"
	case strings.Contains(eventType, domain.EventReconnect):
		return "🔁"
	default:
		return "🌐"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return s[:max-1] + "…"
}

func trimZeros(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
