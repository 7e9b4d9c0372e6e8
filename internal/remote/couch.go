package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-kivik/kivik/v4"

	"github.com/mydayapp/myday/internal/common"
	"github.com/mydayapp/myday/internal/models"
)

// CouchGateway implements EntryGateway and ProfileGateway against CouchDB.
// Entries live in one database with per-user documents selected by user_id;
// profiles live in the users database keyed by uid.
type CouchGateway struct {
	client    *kivik.Client
	entriesDB string
	usersDB   string
}

// NewCouchGateway returns a gateway bound to the given kivik client and
// database names.
func NewCouchGateway(client *kivik.Client, entriesDB, usersDB string) *CouchGateway {
	return &CouchGateway{client: client, entriesDB: entriesDB, usersDB: usersDB}
}

// entryDoc is the CouchDB document for one diary entry.
type entryDoc struct {
	ID        string `json:"_id"`
	Rev       string `json:"_rev,omitempty"`
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Date      int64  `json:"date"`
	UpdatedAt int64  `json:"updatedAt"`
}

func entryDocID(remoteID string) string {
	return fmt.Sprintf("entry:%s", remoteID)
}

func (g *CouchGateway) ListEntries(ctx context.Context, userID string) ([]Entry, error) {
	db := g.client.DB(g.entriesDB)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"type":    "entry",
			"user_id": userID,
		},
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list entries: %v", common.ErrSync, err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var doc entryDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("%w: scan entry doc: %v", common.ErrSync, err)
		}
		result = append(result, Entry{
			RemoteID:  doc.ID[len("entry:"):],
			Title:     doc.Title,
			Content:   doc.Content,
			Date:      doc.Date,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list entries: %v", common.ErrSync, err)
	}
	return result, nil
}

func (g *CouchGateway) PutEntry(ctx context.Context, userID string, e Entry) error {
	db := g.client.DB(g.entriesDB)
	docID := entryDocID(e.RemoteID)

	doc := entryDoc{
		ID:        docID,
		Type:      "entry",
		UserID:    userID,
		Title:     e.Title,
		Content:   e.Content,
		Date:      e.Date,
		UpdatedAt: e.UpdatedAt,
	}

	// CouchDB requires the current revision to replace a document.
	var existing entryDoc
	if err := db.Get(ctx, docID).ScanDoc(&existing); err == nil {
		doc.Rev = existing.Rev
	} else if kivik.HTTPStatus(err) != http.StatusNotFound {
		return fmt.Errorf("%w: get entry doc: %v", common.ErrSync, err)
	}

	if _, err := db.Put(ctx, docID, doc); err != nil {
		return fmt.Errorf("%w: put entry doc: %v", common.ErrSync, err)
	}
	return nil
}

func (g *CouchGateway) DeleteEntry(ctx context.Context, userID string, remoteID string) error {
	db := g.client.DB(g.entriesDB)
	docID := entryDocID(remoteID)

	var existing entryDoc
	if err := db.Get(ctx, docID).ScanDoc(&existing); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("%w: get entry doc: %v", common.ErrSync, err)
	}

	if _, err := db.Delete(ctx, docID, existing.Rev); err != nil {
		return fmt.Errorf("%w: delete entry doc: %v", common.ErrSync, err)
	}
	return nil
}

// userDoc wraps the profile with CouchDB bookkeeping fields.
type userDoc struct {
	ID  string `json:"_id"`
	Rev string `json:"_rev,omitempty"`
	models.User
}

func userDocID(uid string) string {
	return fmt.Sprintf("user:%s", uid)
}

func (g *CouchGateway) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	db := g.client.DB(g.usersDB)

	var doc userDoc
	if err := db.Get(ctx, userDocID(uid)).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, fmt.Errorf("profile %s: %w", uid, common.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get profile: %v", common.ErrSync, err)
	}
	return &doc.User, nil
}

func (g *CouchGateway) PutProfile(ctx context.Context, u *models.User) error {
	db := g.client.DB(g.usersDB)
	docID := userDocID(u.UID)

	doc := userDoc{ID: docID, User: *u}

	var existing userDoc
	if err := db.Get(ctx, docID).ScanDoc(&existing); err == nil {
		doc.Rev = existing.Rev
	} else if kivik.HTTPStatus(err) != http.StatusNotFound {
		return fmt.Errorf("%w: get profile: %v", common.ErrSync, err)
	}

	if _, err := db.Put(ctx, docID, doc); err != nil {
		return fmt.Errorf("%w: put profile: %v", common.ErrSync, err)
	}
	return nil
}
