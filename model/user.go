package model

import "time"

/*

User is a registered reader.

Id: primary key, a uuid assigned at registration
Email: unique login name, matched exactly as provided
PasswordHash: bcrypt hash, never serialized to clients

*/

type User struct {
	Id           string    `gorm:"primaryKey" json:"id" bson:"_id"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
}
