// Package services contains the application services of the diary client:
// entry authoring and lifecycle, derived statistics, and the user profile.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mydayapp/myday/internal/auth"
	"github.com/mydayapp/myday/internal/common"
	"github.com/mydayapp/myday/internal/logging"
	"github.com/mydayapp/myday/internal/models"
	"github.com/mydayapp/myday/internal/remote"
	"github.com/mydayapp/myday/internal/repositories/entries"
	"github.com/mydayapp/myday/internal/stats"
)

// Statistics is the aggregate view computed from the active snapshot.
type Statistics struct {
	Entries    int
	Words      int
	StreakDays int
}

// DiaryService defines entry authoring and lifecycle operations.
//
// Soft delete moves the entry into the recently-deleted set; Purge removes
// it permanently (and, when signed in, deletes the remote document too).
type DiaryService interface {
	Add(ctx context.Context, title, content string, date int64) (*models.DiaryEntry, error)
	List(ctx context.Context) ([]models.DiaryEntry, error)
	Get(ctx context.Context, id int64) (*models.DiaryEntry, error)
	Edit(ctx context.Context, id int64, title, content string, date int64) error
	Delete(ctx context.Context, id int64) error
	Deleted(ctx context.Context) ([]models.DeletedEntry, error)
	Restore(ctx context.Context, id int64) error
	Purge(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (Statistics, error)
}

type diaryService struct {
	store   *entries.Store
	gateway remote.EntryGateway
	session *auth.Session
	log     logging.Logger

	// now is a test seam for timestamps, milliseconds since epoch.
	now func() int64
}

// NewDiaryService constructs a DiaryService over the given store, gateway
// and session.
func NewDiaryService(store *entries.Store, gateway remote.EntryGateway, session *auth.Session, log logging.Logger) DiaryService {
	return &diaryService{
		store:   store,
		gateway: gateway,
		session: session,
		log:     log.With("component", "diary"),
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *diaryService) Add(ctx context.Context, title, content string, date int64) (*models.DiaryEntry, error) {
	now := s.now()
	if date == 0 {
		date = now
	}
	e := &models.DiaryEntry{Title: title, Content: content, Date: date, UpdatedAt: now}
	if _, err := s.store.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}
	return e, nil
}

func (s *diaryService) List(ctx context.Context) ([]models.DiaryEntry, error) {
	return s.store.All(ctx)
}

func (s *diaryService) Get(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("entry %d: %w", id, common.ErrNotFound)
	}
	return e, nil
}

func (s *diaryService) Edit(ctx context.Context, id int64, title, content string, date int64) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	e.Title = title
	e.Content = content
	if date != 0 {
		e.Date = date
	}
	e.UpdatedAt = s.now()
	if err := s.store.Update(ctx, e); err != nil {
		return fmt.Errorf("edit entry: %w", err)
	}
	return nil
}

func (s *diaryService) Delete(ctx context.Context, id int64) error {
	if err := s.store.SoftDelete(ctx, id, s.now()); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *diaryService) Deleted(ctx context.Context) ([]models.DeletedEntry, error) {
	return s.store.ListDeleted(ctx)
}

func (s *diaryService) Restore(ctx context.Context, id int64) error {
	if err := s.store.Restore(ctx, id); err != nil {
		return fmt.Errorf("restore entry: %w", err)
	}
	return nil
}

func (s *diaryService) Purge(ctx context.Context, id int64) error {
	target, err := s.store.GetDeletedByID(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("purge entry %d: %w", id, common.ErrNotFound)
	}

	if target.RemoteID != "" {
		if uid, ok := s.session.UserID(); ok {
			if err := s.gateway.DeleteEntry(ctx, uid, target.RemoteID); err != nil {
				return fmt.Errorf("purge remote document: %w", err)
			}
		} else {
			s.log.Warn(ctx, "purging synced entry while signed out, remote document kept",
				"id", id, "remote_id", target.RemoteID)
		}
	}

	if err := s.store.Purge(ctx, id); err != nil {
		return fmt.Errorf("purge entry: %w", err)
	}
	return nil
}

func (s *diaryService) Statistics(ctx context.Context) (Statistics, error) {
	snapshot, err := s.store.All(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return Statistics{
		Entries:    stats.EntryCount(snapshot),
		Words:      stats.WordCount(snapshot),
		StreakDays: stats.StreakDays(stats.DatesOf(snapshot)),
	}, nil
}
