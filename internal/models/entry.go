// Package models defines the client-side data model for diary entries.
package models

import "time"

// UntitledPlaceholder is shown in place of an empty title. It is a display
// concern only and is never written to storage.
const UntitledPlaceholder = "Untitled"

// DiaryEntry is one diary record, persisted locally and mirrored to the
// user's remote entry collection. All timestamps are milliseconds since the
// Unix epoch, matching the wire format of the remote documents.
type DiaryEntry struct {
	// ID is the local identifier, assigned by the entry store on first
	// insert. Zero for entries not yet persisted locally.
	ID int64

	// RemoteID correlates this entry to a remote document. Empty until the
	// entry has been synced in either direction. It is the merge key; the
	// local ID never crosses the process boundary.
	RemoteID string

	Title   string
	Content string

	// Date is the entry's authored timestamp. Streak computation truncates
	// it to day granularity; storage keeps full precision.
	Date int64

	// UpdatedAt is the last modification time, used as the tiebreaker in
	// conflict resolution.
	UpdatedAt int64
}

// DeletedEntry is a soft-deleted diary entry held in the recently-deleted
// table until restored or purged.
type DeletedEntry struct {
	DiaryEntry

	// DeletedAt records when the entry was moved out of the active table.
	DeletedAt int64
}

// DisplayTitle returns the title, or a placeholder when it is empty.
func (e DiaryEntry) DisplayTitle() string {
	if e.Title == "" {
		return UntitledPlaceholder
	}
	return e.Title
}

// Day returns the entry date truncated to a day number (days since epoch).
func (e DiaryEntry) Day() int64 {
	return e.Date / int64(24*time.Hour/time.Millisecond)
}
