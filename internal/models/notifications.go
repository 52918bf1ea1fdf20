package models

import "time"

// Notification is a persisted in-app notification record. The same
// payload is published to the user's redis channel and handed to the
// push gateway.
type Notification struct {
	ID        string            `bson:"_id" json:"id"`
	UserID    string            `bson:"user_id" json:"user_id"`
	Type      string            `bson:"type" json:"type"`
	Title     string            `bson:"title" json:"title"`
	Body      string            `bson:"body" json:"body"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
