package domain

// Collection names understood by the store.
const (
	CollectionSales = "sales"
	CollectionLogs  = "activity_log"
)

// Store is the persistence boundary for the two local collections. It is
// constructed once at startup and injected into every component that needs
// it; nothing else holds the database handle.
type Store interface {
	InsertSale(sale *Sale) error
	UpsertSale(sale *Sale) error
	Sales() ([]Sale, error)

	AppendLog(entry LogEntry) error
	Logs() ([]LogEntry, error)

	// Clear wipes a whole collection by name, failing with
	// ErrUnknownCollection for names that were never declared.
	Clear(collection string) error

	Close() error
}
