// Package syncer reconciles locally recorded sales with the remote
// collaborator. Strictly one sale is in flight at a time, with a fixed pause
// between attempts and no backoff; failed sales simply stay pending for the
// next pass.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gsales/gsales/internal/activity"
	"github.com/gsales/gsales/internal/domain"
	"github.com/gsales/gsales/internal/marker"
)

const defaultPause = 200 * time.Millisecond

// Summary is the tally of one sync pass.
type Summary struct {
	Attempted int
	Synced    int
}

// String renders the tally the way it is surfaced to the user and the
// activity log.
func (s Summary) String() string {
	return fmt.Sprintf("%d of %d synced", s.Synced, s.Attempted)
}

// Remote is the delivery side of the engine; satisfied by *Client.
type Remote interface {
	Push(ctx context.Context, sale *domain.Sale) error
}

// Engine drives sync passes over the unsynced sales.
type Engine struct {
	store    domain.Store
	remote   Remote
	activity *activity.Logger
	marker   *marker.Marker
	logger   *slog.Logger
	pause    time.Duration

	// Single-flight guard: overlapping triggers (manual sync racing a
	// reconnect-triggered pass) coalesce instead of double-submitting.
	mu sync.Mutex
}

// NewEngine creates a sync engine. pause <= 0 selects the default 200ms
// inter-attempt pause.
func NewEngine(store domain.Store, remote Remote, act *activity.Logger, mk *marker.Marker, logger *slog.Logger, pause time.Duration) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if pause <= 0 {
		pause = defaultPause
	}
	return &Engine{
		store:    store,
		remote:   remote,
		activity: act,
		marker:   mk,
		logger:   logger,
		pause:    pause,
	}
}

// SyncOne attempts remote delivery of a single sale. On acknowledgment the
// sale is marked synced, persisted, and the last-sync marker updated. On any
// failure the sale stays pending and the reason is logged. A sale that is
// already synced is left untouched; the flag never reverts.
func (e *Engine) SyncOne(ctx context.Context, sale *domain.Sale) error {
	if sale.Synced {
		return nil
	}

	e.activity.Log(domain.EventSyncAttempt, "Attempting sync for "+sale.ID)

	if err := e.remote.Push(ctx, sale); err != nil {
		e.activity.Log(domain.EventSyncFail,
			fmt.Sprintf("Error syncing %s: %v", sale.ID, err))
		return err
	}

	sale.Synced = true
	if err := e.store.UpsertSale(sale); err != nil {
		// Acknowledged but not persisted: the sale will be re-sent next
		// pass, which the collaborator tolerates (delivery is keyed by id).
		sale.Synced = false
		e.activity.Log(domain.EventSyncFail,
			fmt.Sprintf("Error persisting %s after sync: %v", sale.ID, err))
		return fmt.Errorf("failed to persist synced sale: %w", err)
	}

	if err := e.marker.Set(time.Now()); err != nil {
		// Marker is advisory only; losing the update is not a sync failure.
		e.logger.Warn("failed to update last-sync marker", "error", err)
	}

	e.activity.Log(domain.EventSyncSuccess, "Sale "+sale.ID+" synced")
	e.logger.Info("sale synced", "sale_id", sale.ID)
	return nil
}

// SyncAll runs one pass over the currently unsynced sales, strictly
// sequentially with the fixed pause between attempts. With nothing to sync
// it returns immediately with an empty summary and writes no log entries;
// otherwise the pass ends with a sync_attempt_summary entry. A pass already
// in flight makes overlapping calls fail fast with ErrSyncInFlight.
func (e *Engine) SyncAll(ctx context.Context) (Summary, error) {
	if !e.mu.TryLock() {
		return Summary{}, domain.ErrSyncInFlight
	}
	defer e.mu.Unlock()

	all, err := e.store.Sales()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read sales: %w", err)
	}

	var pending []domain.Sale
	for _, sale := range all {
		if !sale.Synced {
			pending = append(pending, sale)
		}
	}
	if len(pending) == 0 {
		return Summary{}, nil
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt < pending[j].CreatedAt
	})

	summary := Summary{Attempted: len(pending)}
	for i := range pending {
		if err := e.SyncOne(ctx, &pending[i]); err == nil {
			summary.Synced++
		}

		if i < len(pending)-1 {
			select {
			case <-time.After(e.pause):
			case <-ctx.Done():
				// The pass stops early; whatever is left stays pending.
				e.finish(summary)
				return summary, ctx.Err()
			}
		}
	}

	e.finish(summary)
	return summary, nil
}

func (e *Engine) finish(summary Summary) {
	e.activity.Log(domain.EventSyncSummary, summary.String())
	e.logger.Info("sync pass complete",
		"attempted", summary.Attempted, "synced", summary.Synced)
}
