package syncer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsales/gsales/internal/activity"
	"github.com/gsales/gsales/internal/domain"
	"github.com/gsales/gsales/internal/log"
	"github.com/gsales/gsales/internal/marker"
	"github.com/gsales/gsales/internal/store"
	"github.com/gsales/gsales/internal/syncer"
)

type fixture struct {
	engine *syncer.Engine
	store  *store.Store
	marker *marker.Marker
}

func newFixture(t *testing.T, endpoint string) *fixture {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mk := marker.New(filepath.Join(dir, "last_sync"))
	act := activity.NewLogger(st, log.NullLogger())
	client := syncer.NewClient(endpoint, 5*time.Second, log.NullLogger())
	engine := syncer.NewEngine(st, client, act, mk, log.NullLogger(), time.Millisecond)

	return &fixture{engine: engine, store: st, marker: mk}
}

func (f *fixture) addSale(t *testing.T, id string, synced bool) *domain.Sale {
	t.Helper()
	sale := &domain.Sale{
		ID:        id,
		Item:      "Rice",
		Qty:       2,
		Price:     1500,
		CreatedAt: time.Now().UnixMilli(),
		Synced:    synced,
	}
	require.NoError(t, f.store.InsertSale(sale))
	return sale
}

func (f *fixture) logsByType(t *testing.T, eventType string) []domain.LogEntry {
	t.Helper()
	all, err := f.store.Logs()
	require.NoError(t, err)
	var out []domain.LogEntry
	for _, e := range all {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func readyServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSyncOne_Success(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotForm = map[string]string{
			"id":        r.PostFormValue("id"),
			"item":      r.PostFormValue("item"),
			"qty":       r.PostFormValue("qty"),
			"price":     r.PostFormValue("price"),
			"createdAt": r.PostFormValue("createdAt"),
		}
		w.Write([]byte(`{"status":"ready"}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	sale := f.addSale(t, "s_1", false)

	before := time.Now()
	require.NoError(t, f.engine.SyncOne(context.Background(), sale))

	// The request carried every field
	assert.Equal(t, "s_1", gotForm["id"])
	assert.Equal(t, "Rice", gotForm["item"])
	assert.Equal(t, "2", gotForm["qty"])
	assert.Equal(t, "1500", gotForm["price"])
	assert.NotEmpty(t, gotForm["createdAt"])

	// Flag flipped and persisted
	assert.True(t, sale.Synced)
	persisted, err := f.store.Sales()
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.True(t, persisted[0].Synced)

	// Marker reflects the sync time
	ts, ok := f.marker.Get()
	require.True(t, ok)
	assert.WithinDuration(t, before, ts, 10*time.Second)

	// Audit trail: attempt then success, mentioning the sale id
	require.Len(t, f.logsByType(t, domain.EventSyncAttempt), 1)
	successes := f.logsByType(t, domain.EventSyncSuccess)
	require.Len(t, successes, 1)
	assert.Contains(t, successes[0].Message, "s_1")
}

func TestSyncOne_ServerNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"busy"}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	sale := f.addSale(t, "s_1", false)

	err := f.engine.SyncOne(context.Background(), sale)
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.False(t, sale.Synced)

	persisted, _ := f.store.Sales()
	assert.False(t, persisted[0].Synced)
	assert.Len(t, f.logsByType(t, domain.EventSyncFail), 1)

	_, ok := f.marker.Get()
	assert.False(t, ok, "marker must not move on failure")
}

func TestSyncOne_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	sale := f.addSale(t, "s_1", false)

	err := f.engine.SyncOne(context.Background(), sale)
	require.Error(t, err)
	assert.False(t, sale.Synced)
	assert.Len(t, f.logsByType(t, domain.EventSyncFail), 1)
}

func TestSyncOne_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`this is not json`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	sale := f.addSale(t, "s_1", false)

	err := f.engine.SyncOne(context.Background(), sale)
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.False(t, sale.Synced)
}

func TestSyncOne_Offline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // endpoint unreachable

	f := newFixture(t, srv.URL)
	sale := f.addSale(t, "s_1", false)

	err := f.engine.SyncOne(context.Background(), sale)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.False(t, sale.Synced)
	assert.Len(t, f.logsByType(t, domain.EventSyncFail), 1)
}

func TestSyncOne_AlreadySyncedIsNoOp(t *testing.T) {
	var hits atomic.Int64
	srv := readyServer(t, &hits)

	f := newFixture(t, srv.URL)
	sale := f.addSale(t, "s_1", true)

	require.NoError(t, f.engine.SyncOne(context.Background(), sale))

	assert.True(t, sale.Synced, "flag never reverts")
	assert.Zero(t, hits.Load(), "no request for an already-synced sale")

	logs, err := f.store.Logs()
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestSyncAll_AllAccepted(t *testing.T) {
	srv := readyServer(t, nil)
	f := newFixture(t, srv.URL)
	for _, id := range []string{"s_1", "s_2", "s_3"} {
		f.addSale(t, id, false)
	}

	summary, err := f.engine.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 3, summary.Synced)

	persisted, err := f.store.Sales()
	require.NoError(t, err)
	for _, s := range persisted {
		assert.True(t, s.Synced, "sale %s", s.ID)
	}

	summaries := f.logsByType(t, domain.EventSyncSummary)
	require.Len(t, summaries, 1)
	assert.Equal(t, "3 of 3 synced", summaries[0].Message)
}

func TestSyncAll_AllRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"busy"}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	for _, id := range []string{"s_1", "s_2", "s_3"} {
		f.addSale(t, id, false)
	}

	summary, err := f.engine.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 0, summary.Synced)

	persisted, err := f.store.Sales()
	require.NoError(t, err)
	for _, s := range persisted {
		assert.False(t, s.Synced, "sale %s stays pending", s.ID)
	}

	assert.Len(t, f.logsByType(t, domain.EventSyncFail), 3)
	summaries := f.logsByType(t, domain.EventSyncSummary)
	require.Len(t, summaries, 1)
	assert.Equal(t, "0 of 3 synced", summaries[0].Message)
}

func TestSyncAll_NothingToSync(t *testing.T) {
	var hits atomic.Int64
	srv := readyServer(t, &hits)

	f := newFixture(t, srv.URL)
	f.addSale(t, "s_1", true)

	summary, err := f.engine.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Attempted)
	assert.Zero(t, summary.Synced)
	assert.Zero(t, hits.Load(), "no network activity")

	logs, err := f.store.Logs()
	require.NoError(t, err)
	assert.Empty(t, logs, "no log entries for a no-op pass")
}

func TestSyncAll_OneRequestInFlight(t *testing.T) {
	var inFlight, maxInFlight atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			cur := maxInFlight.Load()
			if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		w.Write([]byte(`{"status":"ready"}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	for _, id := range []string{"s_1", "s_2", "s_3", "s_4"} {
		f.addSale(t, id, false)
	}

	_, err := f.engine.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), maxInFlight.Load(), "attempts are strictly sequential")
}

func TestSyncAll_OverlappingPassRejected(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		w.Write([]byte(`{"status":"ready"}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	f.addSale(t, "s_1", false)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := f.engine.SyncAll(context.Background())
		assert.NoError(t, err)
	}()

	// Wait until the first pass holds the guard mid-request
	<-entered

	_, err := f.engine.SyncAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrSyncInFlight)

	close(release)
	<-done
}
