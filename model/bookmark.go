package model

import "time"

/*

Bookmark is an article a user saved for later.

UserID: owner of the bookmark, immutable. Only the owner can delete it.
Article: snapshot at save time

*/

type Bookmark struct {
	Id        string    `gorm:"primaryKey" json:"id" bson:"_id"`
	UserID    string    `gorm:"index" json:"-" bson:"userId"`
	Article   Article   `gorm:"serializer:json;type:jsonb" json:"article" bson:"article"`
	CreatedAt time.Time `json:"-" bson:"createdAt"`
}
