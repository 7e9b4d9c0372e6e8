// Package remote abstracts the cloud document store. The core only ever
// sees the Gateway interfaces; the CouchDB implementation lives alongside.
package remote

import (
	"context"

	"github.com/mydayapp/myday/internal/models"
)

// Entry is the wire form of one diary document in a user's entry
// collection. Timestamps are milliseconds since the Unix epoch.
type Entry struct {
	RemoteID  string
	Title     string
	Content   string
	Date      int64
	UpdatedAt int64
}

// EntryGateway is a thin interface over the remote document store, scoped
// to one user's entry sub-collection. The store is eventually consistent;
// calls may fail with transport errors that callers map to common.ErrSync.
type EntryGateway interface {
	// ListEntries fetches the full set of remote documents for the user.
	ListEntries(ctx context.Context, userID string) ([]Entry, error)

	// PutEntry creates or replaces the document identified by e.RemoteID.
	PutEntry(ctx context.Context, userID string, e Entry) error

	// DeleteEntry removes the document with the given remote id. Missing
	// documents are not an error; deletes are idempotent.
	DeleteEntry(ctx context.Context, userID string, remoteID string) error
}

// ProfileGateway reads and writes the user profile document in the users
// collection.
type ProfileGateway interface {
	GetProfile(ctx context.Context, uid string) (*models.User, error)
	PutProfile(ctx context.Context, u *models.User) error
}
