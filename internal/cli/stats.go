package cli

import (
	"context"
	"fmt"
)

func (a *App) Stats(ctx context.Context) error {
	st, err := a.diary.Statistics(ctx)
	if err != nil {
		return err
	}
	noun := "entries"
	if st.Entries == 1 {
		noun = "entry"
	}
	printlnFn(fmt.Sprintf("%d %s, %d day streak, %d words", st.Entries, noun, st.StreakDays, st.Words))
	return nil
}
