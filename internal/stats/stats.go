// Package stats derives the numbers shown on the diary home screen from a
// snapshot of active entries. All functions are pure; deleted entries are
// excluded by construction because they never appear in the snapshot.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/mydayapp/myday/internal/models"
)

// millisPerDay is the day-truncation divisor for streak computation.
const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// nowMillis is a test seam for the current instant.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// EntryCount returns the number of entries in the snapshot.
func EntryCount(entries []models.DiaryEntry) int {
	return len(entries)
}

// WordCount sums the whitespace-delimited tokens of every entry's title and
// content. Empty tokens are discarded, so runs of whitespace count once.
func WordCount(entries []models.DiaryEntry) int {
	total := 0
	for _, e := range entries {
		total += len(strings.Fields(e.Title))
		total += len(strings.Fields(e.Content))
	}
	return total
}

// StreakDays returns the number of consecutive calendar days, ending today,
// that each contain at least one entry. A day is the entry date integer-
// divided by the milliseconds in a day. Without an entry today the streak is
// zero; there is no grace period.
func StreakDays(dates []int64) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[int64]struct{}, len(dates))
	days := make([]int64, 0, len(dates))
	for _, d := range dates {
		day := d / millisPerDay
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	today := nowMillis() / millisPerDay
	if _, ok := seen[today]; !ok {
		return 0
	}

	streak := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] == 1 {
			streak++
		} else {
			break
		}
	}
	return streak
}

// DatesOf extracts the entry dates for StreakDays.
func DatesOf(entries []models.DiaryEntry) []int64 {
	dates := make([]int64, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
	}
	return dates
}
