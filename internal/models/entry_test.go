package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Morning pages", DiaryEntry{Title: "Morning pages"}.DisplayTitle())
	assert.Equal(t, UntitledPlaceholder, DiaryEntry{}.DisplayTitle())
}

func TestDay(t *testing.T) {
	// Any instant within the same UTC day maps to the same day number.
	morning := time.Date(2024, 5, 20, 0, 0, 1, 0, time.UTC).UnixMilli()
	evening := time.Date(2024, 5, 20, 23, 59, 59, 0, time.UTC).UnixMilli()
	nextDay := time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC).UnixMilli()

	assert.Equal(t, DiaryEntry{Date: morning}.Day(), DiaryEntry{Date: evening}.Day())
	assert.Equal(t, DiaryEntry{Date: morning}.Day()+1, DiaryEntry{Date: nextDay}.Day())

	assert.Zero(t, DiaryEntry{}.Day())
}
