package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrDuplicateSale indicates an insert with an id already in the store
	ErrDuplicateSale = errors.New("sale id already exists")

	// ErrUnknownCollection indicates a store operation against a collection
	// that was never declared
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrEmptyItem indicates a sale with a blank item name
	ErrEmptyItem = errors.New("item name is empty")

	// ErrBadNumber indicates a qty or price that does not parse as a number
	ErrBadNumber = errors.New("not a valid number")

	// ErrServerOffline indicates the sync endpoint is unreachable
	ErrServerOffline = errors.New("sync server is unreachable")

	// ErrNotReady indicates a well-formed response that did not acknowledge
	// readiness
	ErrNotReady = errors.New("server did not acknowledge sale")

	// ErrSyncInFlight indicates a sync pass is already running
	ErrSyncInFlight = errors.New("sync pass already in progress")

	// ErrNoEntries indicates there is nothing in the activity log to export
	ErrNoEntries = errors.New("no log entries to export")
)
