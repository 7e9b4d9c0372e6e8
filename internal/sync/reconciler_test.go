package sync

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydayapp/myday/internal/auth"
	"github.com/mydayapp/myday/internal/common"
	"github.com/mydayapp/myday/internal/logging"
	"github.com/mydayapp/myday/internal/models"
	"github.com/mydayapp/myday/internal/remote"
	"github.com/mydayapp/myday/internal/repositories/entries"

	_ "modernc.org/sqlite"
)

// fakeGateway serves a fixed remote snapshot and records writes.
type fakeGateway struct {
	entries []remote.Entry
	listErr error
	putErr  error

	puts    []remote.Entry
	deletes []string

	// blockUntil, when set, delays ListEntries until the context is done.
	blockUntil bool
}

func (f *fakeGateway) ListEntries(ctx context.Context, userID string) ([]remote.Entry, error) {
	if f.blockUntil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeGateway) PutEntry(ctx context.Context, userID string, e remote.Entry) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, e)
	return nil
}

func (f *fakeGateway) DeleteEntry(ctx context.Context, userID string, remoteID string) error {
	f.deletes = append(f.deletes, remoteID)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupStore(t *testing.T) *entries.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  remote_id TEXT UNIQUE,
  title TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL DEFAULT '',
  date INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE TABLE deleted_entries (
  id INTEGER PRIMARY KEY,
  remote_id TEXT,
  title TEXT NOT NULL DEFAULT '',
  content TEXT NOT NULL DEFAULT '',
  date INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  deleted_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	return entries.NewStore(db, testLogger())
}

func signedIn(userID string) *auth.Session {
	s := &auth.Session{}
	s.Set(userID)
	return s
}

func TestSync_NoOpWhenSignedOut(t *testing.T) {
	store := setupStore(t)
	gw := &fakeGateway{entries: []remote.Entry{{RemoteID: "R1", UpdatedAt: 1, Date: 1}}}
	r := NewReconciler(store, gw, &auth.Session{}, testLogger())

	res, err := r.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Fetched)

	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSync_InsertsNewRemoteEntriesExactlyOnce(t *testing.T) {
	store := setupStore(t)
	gw := &fakeGateway{entries: []remote.Entry{
		{RemoteID: "R1", Title: "from cloud", Content: "body", Date: 100, UpdatedAt: 100},
	}}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())
	ctx := context.Background()

	res, err := r.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	// Second pass against the unchanged snapshot: no duplicate, no mutation.
	mutations := 0
	store.Subscribe(func(entries.Snapshot) { mutations++ })

	res, err = r.Sync(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Inserted)
	assert.Zero(t, res.Updated)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, mutations)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "from cloud", all[0].Title)
	assert.Equal(t, "R1", all[0].RemoteID)
}

func TestSync_RemoteNewerOverwritesLocal(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	local := &models.DiaryEntry{RemoteID: "R1", Title: "stale", Content: "old", Date: 50, UpdatedAt: 100}
	_, err := store.Insert(ctx, local)
	require.NoError(t, err)

	gw := &fakeGateway{entries: []remote.Entry{
		{RemoteID: "R1", Title: "fresh", Content: "new", Date: 60, UpdatedAt: 200},
	}}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	res, err := r.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	got, err := store.GetByID(ctx, local.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fresh", got.Title)
	assert.Equal(t, "new", got.Content)
	assert.Equal(t, int64(60), got.Date)
	assert.Equal(t, int64(200), got.UpdatedAt)
	assert.Equal(t, local.ID, got.ID) // same row, no duplicate
}

func TestSync_LocalNewerOrEqualWins(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	local := &models.DiaryEntry{RemoteID: "R1", Title: "mine", Date: 50, UpdatedAt: 300}
	_, err := store.Insert(ctx, local)
	require.NoError(t, err)

	gw := &fakeGateway{entries: []remote.Entry{
		{RemoteID: "R1", Title: "theirs", Date: 60, UpdatedAt: 200},
	}}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	res, err := r.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)

	got, err := store.GetByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)

	// Equal timestamps: local still wins.
	gw.entries[0].UpdatedAt = 300
	gw.entries[0].Title = "tied"
	_, err = r.Sync(ctx)
	require.NoError(t, err)

	got, err = store.GetByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
}

func TestSync_LocalOnlyEntriesUntouched(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, &models.DiaryEntry{Title: "draft", Date: 10, UpdatedAt: 10})
	require.NoError(t, err)

	gw := &fakeGateway{entries: []remote.Entry{
		{RemoteID: "R1", Title: "cloud", Date: 20, UpdatedAt: 20},
	}}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	_, err = r.Sync(ctx)
	require.NoError(t, err)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	var draft *models.DiaryEntry
	for i := range all {
		if all[i].RemoteID == "" {
			draft = &all[i]
		}
	}
	require.NotNil(t, draft)
	assert.Equal(t, "draft", draft.Title)
}

func TestSync_GatewayFailureSurfacesAsSyncError(t *testing.T) {
	store := setupStore(t)
	gw := &fakeGateway{listErr: common.ErrSync}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	_, err := r.Sync(context.Background())
	require.ErrorIs(t, err, common.ErrSync)

	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSyncAsync_DeliversOutcome(t *testing.T) {
	store := setupStore(t)
	gw := &fakeGateway{entries: []remote.Entry{{RemoteID: "R1", Date: 1, UpdatedAt: 1}}}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	outcome, ok := <-r.SyncAsync(context.Background())
	require.True(t, ok)
	require.NoError(t, outcome.Err)
	assert.Equal(t, 1, outcome.Result.Inserted)
}

func TestSyncAsync_CancelledResultDroppedSilently(t *testing.T) {
	store := setupStore(t)
	gw := &fakeGateway{blockUntil: true}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	out := r.SyncAsync(ctx)
	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok, "cancelled sync must not deliver an outcome")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancellation")
	}

	// No partial merge was applied.
	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPush_AssignsRemoteIDsToLocalOnlyEntries(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, &models.DiaryEntry{Title: "draft", Date: 10, UpdatedAt: 10})
	require.NoError(t, err)

	gw := &fakeGateway{}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	res, err := r.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pushed)
	require.Len(t, gw.puts, 1)
	assert.NotEmpty(t, gw.puts[0].RemoteID)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, gw.puts[0].RemoteID, all[0].RemoteID)

	// A second push with the remote now holding the document is a no-op.
	gw.entries = gw.puts
	gw.puts = nil
	res, err = r.Push(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Pushed)
	assert.Empty(t, gw.puts)
}

func TestPush_RetryAfterFailedPutKeepsRemoteID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, &models.DiaryEntry{Title: "draft", Date: 10, UpdatedAt: 10})
	require.NoError(t, err)

	gw := &fakeGateway{putErr: common.ErrSync}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	_, err = r.Push(ctx)
	require.ErrorIs(t, err, common.ErrSync)

	// The minted id was recorded before the failed remote write.
	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assigned := all[0].RemoteID
	require.NotEmpty(t, assigned)

	// The retry goes out under the same id, not a second one.
	gw.putErr = nil
	res, err := r.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pushed)
	require.Len(t, gw.puts, 1)
	assert.Equal(t, assigned, gw.puts[0].RemoteID)

	// Pulling the pushed document back does not duplicate the row.
	gw.entries = gw.puts
	_, err = r.Sync(ctx)
	require.NoError(t, err)
	all, err = store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, assigned, all[0].RemoteID)
}

func TestPush_WritesBackLocallyNewerEntries(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, &models.DiaryEntry{RemoteID: "R1", Title: "edited offline", Date: 10, UpdatedAt: 500})
	require.NoError(t, err)

	gw := &fakeGateway{entries: []remote.Entry{{RemoteID: "R1", Title: "old", Date: 10, UpdatedAt: 100}}}
	r := NewReconciler(store, gw, signedIn("u1"), testLogger())

	res, err := r.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pushed)
	require.Len(t, gw.puts, 1)
	assert.Equal(t, "edited offline", gw.puts[0].Title)
}

func TestPush_NoOpWhenSignedOut(t *testing.T) {
	store := setupStore(t)
	gw := &fakeGateway{}
	r := NewReconciler(store, gw, &auth.Session{}, testLogger())

	res, err := r.Push(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Pushed)
}
