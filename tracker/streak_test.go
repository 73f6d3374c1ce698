package tracker

import (
	"testing"
	"time"

	"github.com/Luismorlan/newsreader/model"
	"github.com/stretchr/testify/assert"
)

func TestApplyStreak(t *testing.T) {
	today := model.DateOf(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	daysAgo := func(n int) *time.Time {
		d := today.AddDate(0, 0, -n)
		return &d
	}

	testCases := []struct {
		name        string
		streak      int
		lastRead    *time.Time
		wantStreak  int
		wantChanged bool
	}{
		{"first read", 0, nil, 1, true},
		{"same day", 4, daysAgo(0), 4, false},
		{"next day", 4, daysAgo(1), 5, true},
		{"gap of two days", 4, daysAgo(2), 1, true},
		{"long gap", 9, daysAgo(30), 1, true},
		{"last read in the future", 4, daysAgo(-1), 1, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := model.NewUserPreferences("u")
			p.ReadingStreak = tc.streak
			p.LastReadDate = tc.lastRead

			changed := ApplyStreak(p, today)

			assert.Equal(t, tc.wantChanged, changed)
			assert.Equal(t, tc.wantStreak, p.ReadingStreak)
			if assert.NotNil(t, p.LastReadDate) {
				assert.True(t, today.Equal(*p.LastReadDate))
			}
		})
	}
}
