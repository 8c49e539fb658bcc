package sales_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsales/gsales/internal/activity"
	"github.com/gsales/gsales/internal/domain"
	"github.com/gsales/gsales/internal/log"
	"github.com/gsales/gsales/internal/sales"
	"github.com/gsales/gsales/internal/store"
)

func newTestService(t *testing.T) (*sales.Service, *store.Store, *activity.Logger) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	act := activity.NewLogger(st, log.NullLogger())
	return sales.NewService(st, act, log.NullLogger()), st, act
}

func TestRecord_CreatesUnsyncedSale(t *testing.T) {
	svc, st, _ := newTestService(t)

	sale, err := svc.Record("Rice", "2", "1500")
	require.NoError(t, err)

	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, "Rice", sale.Item)
	assert.Equal(t, 2.0, sale.Qty)
	assert.Equal(t, 1500.0, sale.Price)
	assert.False(t, sale.Synced)
	assert.InDelta(t, time.Now().UnixMilli(), sale.CreatedAt, 5000)

	// Persisted, and a sale_add entry was logged
	persisted, err := st.Sales()
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, sale.ID, persisted[0].ID)

	logs, err := st.Logs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.EventSaleAdd, logs[0].Type)
	assert.Contains(t, logs[0].Message, "Rice")
}

func TestRecord_TrimsItem(t *testing.T) {
	svc, _, _ := newTestService(t)

	sale, err := svc.Record("  Beans  ", "1", "200")
	require.NoError(t, err)
	assert.Equal(t, "Beans", sale.Item)
}

func TestRecord_EmptyItemRejected(t *testing.T) {
	svc, st, _ := newTestService(t)

	_, err := svc.Record("   ", "1", "200")
	assert.ErrorIs(t, err, domain.ErrEmptyItem)

	persisted, err := st.Sales()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestRecord_BadNumbersRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Record("Rice", "two", "1500")
	assert.ErrorIs(t, err, domain.ErrBadNumber)

	_, err = svc.Record("Rice", "2", "cheap")
	assert.ErrorIs(t, err, domain.ErrBadNumber)

	_, err = svc.Record("Rice", "NaN", "1500")
	assert.ErrorIs(t, err, domain.ErrBadNumber)
}

func TestRecord_RapidCallsGetDistinctIDs(t *testing.T) {
	svc, _, _ := newTestService(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sale, err := svc.Record("Rice", "1", "100")
		require.NoError(t, err)
		assert.False(t, seen[sale.ID], "duplicate id %s", sale.ID)
		seen[sale.ID] = true
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	svc, st, _ := newTestService(t)

	base := time.Now().UnixMilli()
	for i, item := range []string{"old", "mid", "new"} {
		require.NoError(t, st.InsertSale(&domain.Sale{
			ID:        item,
			Item:      item,
			Qty:       1,
			Price:     1,
			CreatedAt: base + int64(i*1000),
		}))
	}

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].Item)
	assert.Equal(t, "mid", list[1].Item)
	assert.Equal(t, "old", list[2].Item)
}

func TestPending_UnsyncedOldestFirst(t *testing.T) {
	svc, st, _ := newTestService(t)

	base := time.Now().UnixMilli()
	require.NoError(t, st.InsertSale(&domain.Sale{ID: "b", Item: "b", CreatedAt: base + 1000}))
	require.NoError(t, st.InsertSale(&domain.Sale{ID: "a", Item: "a", CreatedAt: base}))
	require.NoError(t, st.InsertSale(&domain.Sale{ID: "done", Item: "done", CreatedAt: base + 2000, Synced: true}))

	pending, err := svc.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, "b", pending[1].ID)
}
