package entries

import (
	"context"

	"github.com/mydayapp/myday/internal/models"
)

// Repository describes row-level operations on the active and deleted entry
// tables. Implementations are backed by the local SQLite database and may be
// bound to either a plain connection or a transaction (dbx.DBTX).
//
// Lookup conventions: GetByID and FindByRemoteID return (nil, nil) when no
// row matches; mutations keyed by id return common.ErrNotFound when the row
// is missing.
type Repository interface {
	// Insert assigns a new local id and stores the entry in the active
	// table. The assigned id is returned and also written back to e.ID.
	// Entries without a remote id are valid (local-only).
	Insert(ctx context.Context, e *models.DiaryEntry) (int64, error)

	// Update replaces the full row keyed by e.ID.
	Update(ctx context.Context, e *models.DiaryEntry) error

	// Delete removes the active row. The soft-delete composition (moving
	// the row into the deleted table) is the store's responsibility.
	Delete(ctx context.Context, id int64) error

	// GetByID returns the active entry with the given local id.
	GetByID(ctx context.Context, id int64) (*models.DiaryEntry, error)

	// FindByRemoteID returns the active entry correlated with the given
	// remote document id. Backed by the unique index on remote_id so the
	// merge stays linear in the remote result size.
	FindByRemoteID(ctx context.Context, remoteID string) (*models.DiaryEntry, error)

	// All returns the active entries ordered by date descending, ties
	// broken by id descending.
	All(ctx context.Context) ([]models.DiaryEntry, error)

	// InsertDeleted stores a soft-deleted entry, keeping its local id.
	InsertDeleted(ctx context.Context, e *models.DeletedEntry) error

	// GetDeletedByID returns the soft-deleted entry with the given id.
	GetDeletedByID(ctx context.Context, id int64) (*models.DeletedEntry, error)

	// ListDeleted returns soft-deleted entries, most recently deleted first.
	ListDeleted(ctx context.Context) ([]models.DeletedEntry, error)

	// RemoveDeleted permanently removes a row from the deleted table.
	RemoveDeleted(ctx context.Context, id int64) error
}
