package cli

import (
	"context"
	"fmt"
)

// Sync runs one pull pass and waits for its completion signal.
func (a *App) Sync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.SyncTimeout)
	defer cancel()

	outcome, ok := <-a.reconciler.SyncAsync(ctx)
	if !ok {
		printlnFn("Sync cancelled.")
		return nil
	}
	if outcome.Err != nil {
		return outcome.Err
	}
	res := outcome.Result
	printlnFn(fmt.Sprintf("Synced: %d fetched, %d new, %d updated.", res.Fetched, res.Inserted, res.Updated))
	return nil
}

// Push writes local-only and locally-newer entries to the remote collection.
func (a *App) Push(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.SyncTimeout)
	defer cancel()

	res, err := a.reconciler.Push(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Pushed %d entries.", res.Pushed))
	return nil
}

// syncInBackground kicks off a pull after sign-in without blocking the REPL.
// The outcome is logged; a failed pull leaves the last local snapshot as is.
func (a *App) syncInBackground(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.SyncTimeout)
	out := a.reconciler.SyncAsync(syncCtx)
	go func() {
		defer cancel()
		if outcome, ok := <-out; ok && outcome.Err != nil {
			a.log.Warn(syncCtx, "background sync failed", "err", outcome.Err)
		}
	}()
}
