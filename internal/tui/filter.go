package tui

import (
	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/gsales/gsales/internal/domain"
)

// filterSales narrows the sales list to fuzzy matches on the item name,
// preserving match rank order.
func filterSales(list []domain.Sale, query string) []domain.Sale {
	if query == "" {
		return list
	}
	items := make([]string, len(list))
	for i, s := range list {
		items[i] = s.Item
	}
	matches := sahilm.Find(query, items)
	out := make([]domain.Sale, 0, len(matches))
	for _, m := range matches {
		out = append(out, list[m.Index])
	}
	return out
}

// filterLogs narrows the activity log to entries whose type or message
// fuzzy-matches the query, keeping the original order.
func filterLogs(entries []domain.LogEntry, query string) []domain.LogEntry {
	if query == "" {
		return entries
	}
	out := make([]domain.LogEntry, 0, len(entries))
	for _, e := range entries {
		if fuzzysearch.MatchNormalizedFold(query, e.Type) ||
			fuzzysearch.MatchNormalizedFold(query, e.Message) {
			out = append(out, e)
		}
	}
	return out
}
