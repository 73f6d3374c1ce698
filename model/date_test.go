package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 23:30 local on Oct 16 is still Oct 16 in that zone.
	ts := time.Date(2026, 10, 16, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), DateOf(ts))
}

func TestDaysBetween(t *testing.T) {
	d := DateOf(time.Date(2026, 3, 28, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, 0, DaysBetween(d, d))
	assert.Equal(t, 1, DaysBetween(d, d.AddDate(0, 0, 1)))
	assert.Equal(t, 5, DaysBetween(d, d.AddDate(0, 0, 5)))
	assert.Equal(t, -2, DaysBetween(d, d.AddDate(0, 0, -2)))
}

func TestNewUserPreferences(t *testing.T) {
	p := NewUserPreferences("u1")
	assert.Equal(t, "u1", p.UserID)
	assert.NotNil(t, p.FavoriteCategories)
	assert.Empty(t, p.FavoriteCategories)
	assert.Zero(t, p.ReadingStreak)
	assert.Nil(t, p.LastReadDate)

	p.FavoriteSources = nil
	p.Normalize()
	assert.NotNil(t, p.FavoriteSources)
}
