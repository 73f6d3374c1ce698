package model

import "time"

/*

ReadingHistoryEntry records that a user opened an article.

There is at most one entry per (UserID, ArticleURL). ArticleURL duplicates
Article.Url so that backends can put a unique index on the pair.

*/

type ReadingHistoryEntry struct {
	Id         string    `gorm:"primaryKey" json:"id" bson:"_id"`
	UserID     string    `gorm:"uniqueIndex:idx_history_user_url" json:"-" bson:"userId"`
	ArticleURL string    `gorm:"uniqueIndex:idx_history_user_url" json:"-" bson:"articleUrl"`
	Article    Article   `gorm:"serializer:json;type:jsonb" json:"article" bson:"article"`
	ViewedAt   time.Time `gorm:"index" json:"viewedAt" bson:"viewedAt"`
}

func NewReadingHistoryEntry(userID string, article Article, viewedAt time.Time) *ReadingHistoryEntry {
	return &ReadingHistoryEntry{
		UserID:     userID,
		ArticleURL: article.Url,
		Article:    article,
		ViewedAt:   viewedAt,
	}
}
