package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title (may be empty)", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Enter text (empty line to finish):", os.Stdout)
	if err != nil {
		return err
	}

	e, err := a.diary.Add(ctx, title, content, 0)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Added entry %d.", e.ID))
	return nil
}

func (a *App) List(ctx context.Context) error {
	items, err := a.diary.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printlnFn("No entries yet.")
		return nil
	}
	for _, e := range items {
		synced := " "
		if e.RemoteID != "" {
			synced = "*"
		}
		printlnFn(fmt.Sprintf("%4d %s %-12s %s", e.ID, synced, formatDate(e.Date), e.DisplayTitle()))
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := a.promptID("Enter entry id to show")
	if err != nil {
		return err
	}
	e, err := a.diary.Get(ctx, id)
	if err != nil {
		return err
	}
	printlnFn(e.DisplayTitle())
	printlnFn(formatDate(e.Date))
	printlnFn(e.Content)
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	id, err := a.promptID("Enter entry id to edit")
	if err != nil {
		return err
	}
	e, err := a.diary.Get(ctx, id)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Editing %q", e.DisplayTitle()))

	title, err := getSimpleText(a.reader, "New title (may be empty)", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "New text (empty line to finish):", os.Stdout)
	if err != nil {
		return err
	}
	return a.diary.Edit(ctx, id, title, content, 0)
}

func (a *App) Delete(ctx context.Context) error {
	id, err := a.promptID("Enter entry id to delete")
	if err != nil {
		return err
	}
	if err := a.diary.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn("Moved to recently deleted.")
	return nil
}

func (a *App) promptID(prompt string) (int64, error) {
	raw, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// formatDate renders an entry date relative to the current day.
func formatDate(ms int64) string {
	t := time.UnixMilli(ms)
	now := time.Now()
	switch {
	case sameDay(t, now):
		return "today"
	case sameDay(t, now.AddDate(0, 0, -1)):
		return "yesterday"
	default:
		return t.Format("2 Jan 2006")
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
