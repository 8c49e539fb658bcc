package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gsales/gsales/internal/domain"
)

func TestFilterSales(t *testing.T) {
	list := []domain.Sale{
		{ID: "1", Item: "Rice (local)"},
		{ID: "2", Item: "Beans"},
		{ID: "3", Item: "Brown rice"},
	}

	assert.Len(t, filterSales(list, ""), 3)

	matched := filterSales(list, "rice")
	ids := make([]string, 0, len(matched))
	for _, s := range matched {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"1", "3"}, ids)

	assert.Empty(t, filterSales(list, "garri"))
}

func TestFilterLogs(t *testing.T) {
	entries := []domain.LogEntry{
		{Type: domain.EventSaleAdd, Message: "New sale: Rice x2"},
		{Type: domain.EventSyncFail, Message: "Error syncing s_1"},
		{Type: domain.EventReconnect, Message: "Network reconnected"},
	}

	assert.Len(t, filterLogs(entries, ""), 3)

	matched := filterLogs(entries, "sync")
	assert.Len(t, matched, 2) // sync_fail type and "syncing" message

	matched = filterLogs(entries, "rice")
	assert.Len(t, matched, 1)
	assert.Equal(t, domain.EventSaleAdd, matched[0].Type)
}
