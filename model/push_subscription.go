package model

import "time"

// PushSubscription is a browser Web Push subscription, unique by endpoint.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint" bson:"_id"`
	Keys      PushKeys  `gorm:"embedded;embeddedPrefix:key_" json:"keys" bson:"keys"`
	CreatedAt time.Time `json:"-" bson:"createdAt"`
}

type PushKeys struct {
	P256dh string `json:"p256dh" bson:"p256dh"`
	Auth   string `json:"auth" bson:"auth"`
}
