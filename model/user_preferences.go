package model

import (
	"time"

	"github.com/lib/pq"
)

/*

UserPreferences holds explicit favourites plus the computed reading streak.

UserID: primary key, one record per user, created lazily
FavoriteCategories / FavoriteSources: free text chosen by the user
ReadingStreak: consecutive calendar days with at least one tracked read
LastReadDate: calendar day of the last counted read, see DateOf
Version: bumped on every write, used for optimistic concurrency where the
backend has no row locks

*/

type UserPreferences struct {
	UserID             string         `gorm:"primaryKey" json:"-" bson:"_id"`
	FavoriteCategories pq.StringArray `gorm:"type:text[]" json:"favoriteCategories" bson:"favoriteCategories"`
	FavoriteSources    pq.StringArray `gorm:"type:text[]" json:"favoriteSources" bson:"favoriteSources"`
	ReadingStreak      int            `json:"readingStreak" bson:"readingStreak"`
	LastReadDate       *time.Time     `gorm:"type:date" json:"lastReadDate" bson:"lastReadDate"`
	Version            int64          `json:"-" bson:"version"`
	UpdatedAt          time.Time      `json:"-" bson:"updatedAt"`
}

// NewUserPreferences returns the default record for a user that has never
// read or configured anything.
func NewUserPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:             userID,
		FavoriteCategories: pq.StringArray{},
		FavoriteSources:    pq.StringArray{},
	}
}

// Normalize replaces nil favourites with empty lists so clients always get
// arrays back.
func (p *UserPreferences) Normalize() {
	if p.FavoriteCategories == nil {
		p.FavoriteCategories = pq.StringArray{}
	}
	if p.FavoriteSources == nil {
		p.FavoriteSources = pq.StringArray{}
	}
}
