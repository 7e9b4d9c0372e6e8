package cli

import (
	"context"
	"fmt"
)

func (a *App) Deleted(ctx context.Context) error {
	items, err := a.diary.Deleted(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printlnFn("Recently deleted is empty.")
		return nil
	}
	for _, e := range items {
		printlnFn(fmt.Sprintf("%4d  deleted %-12s %s", e.ID, formatDate(e.DeletedAt), e.DisplayTitle()))
	}
	return nil
}

func (a *App) Restore(ctx context.Context) error {
	id, err := a.promptID("Enter entry id to restore")
	if err != nil {
		return err
	}
	if err := a.diary.Restore(ctx, id); err != nil {
		return err
	}
	printlnFn("Restored.")
	return nil
}

func (a *App) Purge(ctx context.Context) error {
	id, err := a.promptID("Enter entry id to delete permanently")
	if err != nil {
		return err
	}
	if err := a.diary.Purge(ctx, id); err != nil {
		return err
	}
	printlnFn("Deleted permanently.")
	return nil
}
