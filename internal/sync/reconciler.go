// Package sync keeps the local entry store consistent with the user's
// remote entry collection. The pull pass (Sync) merges remote documents into
// the store with last-writer-wins precedence; the push pass (Push) writes
// local-only and locally-newer entries outward. Both are gated on an
// authenticated session and perform at most one remote round of calls per
// invocation; retry policy belongs to the caller.
package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mydayapp/myday/internal/auth"
	"github.com/mydayapp/myday/internal/logging"
	"github.com/mydayapp/myday/internal/models"
	"github.com/mydayapp/myday/internal/remote"
	"github.com/mydayapp/myday/internal/repositories/entries"
)

// Result summarizes one completed sync or push pass.
type Result struct {
	Fetched  int
	Inserted int
	Updated  int
	Skipped  int
	Pushed   int
}

// Reconciler merges the remote snapshot for the signed-in user into the
// entry store. It only reads and writes local rows through the store and
// only touches remote state through the gateway.
type Reconciler struct {
	store   *entries.Store
	gateway remote.EntryGateway
	session *auth.Session
	log     logging.Logger
}

func NewReconciler(store *entries.Store, gateway remote.EntryGateway, session *auth.Session, log logging.Logger) *Reconciler {
	return &Reconciler{store: store, gateway: gateway, session: session, log: log.With("component", "reconciler")}
}

// Sync pulls the full remote snapshot and merges it into the store.
//
// For each remote document: a local row is looked up by remote id; if none
// exists a new row is inserted; if one exists the remote document overwrites
// it only when its updatedAt is strictly newer (local wins ties, since local
// is the side the user is actively editing). Local-only rows are never
// touched. Running Sync twice against an unchanged remote snapshot performs
// zero local mutations on the second call.
//
// Sync is a no-op when the session is unauthenticated. A failed fetch
// surfaces as common.ErrSync; nothing has been applied locally in that case.
// The merge is applied in one transaction, so a cancelled or failed Sync
// never leaves a partial merge behind.
func (r *Reconciler) Sync(ctx context.Context) (Result, error) {
	uid, ok := r.session.UserID()
	if !ok {
		r.log.Debug(ctx, "sync skipped, not signed in")
		return Result{}, nil
	}

	// Fetch the complete remote set before any local row is inspected.
	remotes, err := r.gateway.ListEntries(ctx, uid)
	if err != nil {
		return Result{}, fmt.Errorf("fetch remote entries: %w", err)
	}

	res := Result{Fetched: len(remotes)}

	// Plan with read-only lookups first. An empty plan means an idempotent
	// pass: no transaction, no notification.
	plan := make([]remote.Entry, 0, len(remotes))
	for _, re := range remotes {
		local, err := r.store.FindByRemoteID(ctx, re.RemoteID)
		if err != nil {
			return Result{}, fmt.Errorf("lookup by remote id: %w", err)
		}
		if local == nil || re.UpdatedAt > local.UpdatedAt {
			plan = append(plan, re)
		} else {
			res.Skipped++
		}
	}

	if len(plan) == 0 {
		r.log.Debug(ctx, "sync pass clean", "fetched", res.Fetched)
		return res, nil
	}

	err = r.store.WithinTx(ctx, func(ctx context.Context, repo entries.Repository) error {
		for _, re := range plan {
			// Re-check inside the transaction; a concurrent local edit may
			// have won the race since planning.
			local, err := repo.FindByRemoteID(ctx, re.RemoteID)
			if err != nil {
				return err
			}
			switch {
			case local == nil:
				e := &models.DiaryEntry{
					RemoteID:  re.RemoteID,
					Title:     re.Title,
					Content:   re.Content,
					Date:      re.Date,
					UpdatedAt: re.UpdatedAt,
				}
				if _, err := repo.Insert(ctx, e); err != nil {
					return err
				}
				res.Inserted++
			case re.UpdatedAt > local.UpdatedAt:
				local.Title = re.Title
				local.Content = re.Content
				local.Date = re.Date
				local.UpdatedAt = re.UpdatedAt
				if err := repo.Update(ctx, local); err != nil {
					return err
				}
				res.Updated++
			default:
				res.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("apply merge: %w", err)
	}

	r.log.Info(ctx, "sync completed",
		"fetched", res.Fetched,
		"inserted", res.Inserted,
		"updated", res.Updated,
		"skipped", res.Skipped,
	)
	return res, nil
}

// SyncAsync runs Sync without blocking the caller. The result (or error) is
// delivered on the returned channel. If ctx is cancelled before the pass
// completes, the eventual outcome is dropped silently and no partial merge
// has been applied.
func (r *Reconciler) SyncAsync(ctx context.Context) <-chan SyncOutcome {
	out := make(chan SyncOutcome, 1)
	go func() {
		defer close(out)
		res, err := r.Sync(ctx)
		if ctx.Err() != nil {
			return
		}
		out <- SyncOutcome{Result: res, Err: err}
	}()
	return out
}

// SyncOutcome is the completion signal of an asynchronous sync pass.
type SyncOutcome struct {
	Result Result
	Err    error
}

// Push writes local entries outward: rows without a remote id are assigned a
// fresh document id and created remotely; synced rows are written back only
// when the local updatedAt is strictly newer than the remote document's.
//
// A minted id is recorded locally before the remote write, so an entry is
// assigned at most one remote id for its lifetime: if the remote write fails,
// the next push retries under the recorded id instead of minting another
// document.
//
// Push is a no-op when the session is unauthenticated.
func (r *Reconciler) Push(ctx context.Context) (Result, error) {
	uid, ok := r.session.UserID()
	if !ok {
		r.log.Debug(ctx, "push skipped, not signed in")
		return Result{}, nil
	}

	remotes, err := r.gateway.ListEntries(ctx, uid)
	if err != nil {
		return Result{}, fmt.Errorf("fetch remote entries: %w", err)
	}
	remoteUpdated := make(map[string]int64, len(remotes))
	for _, re := range remotes {
		remoteUpdated[re.RemoteID] = re.UpdatedAt
	}

	locals, err := r.store.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read local entries: %w", err)
	}

	res := Result{Fetched: len(remotes)}
	for i := range locals {
		e := locals[i]

		if e.RemoteID == "" {
			// Record the id before the remote write. A failed put leaves the
			// row with its id recorded; the retry goes out under the same id
			// rather than minting a second document.
			e.RemoteID = uuid.NewString()
			if err := r.store.Update(ctx, &e); err != nil {
				return res, fmt.Errorf("record remote id for entry %d: %w", e.ID, err)
			}
			if err := r.gateway.PutEntry(ctx, uid, toRemote(e)); err != nil {
				return res, fmt.Errorf("push new entry %d: %w", e.ID, err)
			}
			res.Pushed++
			continue
		}

		if ru, ok := remoteUpdated[e.RemoteID]; !ok || e.UpdatedAt > ru {
			if err := r.gateway.PutEntry(ctx, uid, toRemote(e)); err != nil {
				return res, fmt.Errorf("push entry %d: %w", e.ID, err)
			}
			res.Pushed++
		} else {
			res.Skipped++
		}
	}

	r.log.Info(ctx, "push completed", "pushed", res.Pushed, "skipped", res.Skipped)
	return res, nil
}

func toRemote(e models.DiaryEntry) remote.Entry {
	return remote.Entry{
		RemoteID:  e.RemoteID,
		Title:     e.Title,
		Content:   e.Content,
		Date:      e.Date,
		UpdatedAt: e.UpdatedAt,
	}
}
