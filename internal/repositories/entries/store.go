package entries

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/mydayapp/myday/internal/common"
	"github.com/mydayapp/myday/internal/dbx"
	"github.com/mydayapp/myday/internal/logging"
	"github.com/mydayapp/myday/internal/migrations"
	"github.com/mydayapp/myday/internal/models"
)

// Snapshot is the full ordered set of active entries, date descending with
// ties broken by id descending.
type Snapshot []models.DiaryEntry

// Subscriber receives the current snapshot after every committed mutation.
type Subscriber func(Snapshot)

// Store is the durable local entry store. It owns all local mutation: plain
// CRUD on the active table, the atomic soft-delete/restore moves between the
// active and deleted tables, and subscriber notification.
//
// The store expects a single logical writer per process; reads may be
// concurrent with reads. Subscribers are invoked synchronously on the
// mutating goroutine, after the mutation has committed.
type Store struct {
	db   *sql.DB
	repo *SQLiteRepository
	log  logging.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]Subscriber
}

// NewStore wraps an already-open (and migrated) database handle.
func NewStore(db *sql.DB, log logging.Logger) *Store {
	return &Store{
		db:   db,
		repo: NewSQLiteRepository(db),
		log:  log.With("component", "store"),
		subs: map[int]Subscriber{},
	}
}

// OpenDatabase opens the SQLite database at dsn, applies the embedded goose
// migrations, and returns a ready Store. The caller owns the teardown via
// Close.
func OpenDatabase(ctx context.Context, dsn string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", common.ErrStorage, err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: run migrations: %v", common.ErrStorage, err)
	}

	return NewStore(db, log), nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Subscribe registers fn to receive the snapshot after every committed
// mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(ctx context.Context) {
	snapshot, err := s.repo.All(ctx)
	if err != nil {
		// The mutation itself committed; subscribers keep their previous
		// snapshot until the next successful read.
		s.log.Error(ctx, "snapshot read for subscribers failed", "err", err)
		return
	}
	s.mu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}

// Insert stores a new entry and notifies subscribers.
func (s *Store) Insert(ctx context.Context, e *models.DiaryEntry) (int64, error) {
	id, err := s.repo.Insert(ctx, e)
	if err != nil {
		return 0, err
	}
	s.notify(ctx)
	return id, nil
}

// Update replaces the row keyed by e.ID and notifies subscribers.
func (s *Store) Update(ctx context.Context, e *models.DiaryEntry) error {
	if err := s.repo.Update(ctx, e); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// GetByID returns the active entry with the given id, or nil.
func (s *Store) GetByID(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByRemoteID returns the active entry with the given remote id, or nil.
func (s *Store) FindByRemoteID(ctx context.Context, remoteID string) (*models.DiaryEntry, error) {
	return s.repo.FindByRemoteID(ctx, remoteID)
}

// All returns the ordered active snapshot.
func (s *Store) All(ctx context.Context) (Snapshot, error) {
	return s.repo.All(ctx)
}

// ListDeleted returns the recently-deleted entries, newest first.
func (s *Store) ListDeleted(ctx context.Context) ([]models.DeletedEntry, error) {
	return s.repo.ListDeleted(ctx)
}

// GetDeletedByID returns the soft-deleted entry with the given id, or nil.
func (s *Store) GetDeletedByID(ctx context.Context, id int64) (*models.DeletedEntry, error) {
	return s.repo.GetDeletedByID(ctx, id)
}

// SoftDelete moves the entry with the given id from the active table into
// the deleted table in one transaction, stamping it with deletedAt. The
// entry is present in exactly one table at any observable point.
func (s *Store) SoftDelete(ctx context.Context, id int64, deletedAt int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		e, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("soft delete entry %d: %w", id, common.ErrNotFound)
		}
		de := &models.DeletedEntry{DiaryEntry: *e, DeletedAt: deletedAt}
		if err := repo.InsertDeleted(ctx, de); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// Restore moves a soft-deleted entry back into the active table, keeping its
// local id, remote id and timestamps.
func (s *Store) Restore(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		de, err := repo.GetDeletedByID(ctx, id)
		if err != nil {
			return err
		}
		if de == nil {
			return fmt.Errorf("restore entry %d: %w", id, common.ErrNotFound)
		}
		query := `INSERT INTO entries (id, remote_id, title, content, date, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, query,
			de.ID, remoteID(de.RemoteID), de.Title, de.Content, de.Date, de.UpdatedAt); err != nil {
			return fmt.Errorf("%w: restore entry: %v", common.ErrStorage, err)
		}
		return repo.RemoveDeleted(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// Purge permanently removes a soft-deleted entry. Scheduling of automatic
// purges after a retention window is an external concern.
func (s *Store) Purge(ctx context.Context, id int64) error {
	return s.repo.RemoveDeleted(ctx, id)
}

// WithinTx runs fn against a transactional repository and, on commit,
// notifies subscribers once with the resulting snapshot. The reconciler uses
// this so a merge pass is applied atomically and produces a single
// notification; a cancelled or failed merge applies nothing.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewSQLiteRepository(tx))
	})
	if err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}
