package models

import "time"

// Comment is attached to a task or to one of its instances.
type Comment struct {
	ID         string    `bson:"_id" json:"id"`
	TaskID     string    `bson:"task_id" json:"task_id"`
	InstanceID string    `bson:"instance_id,omitempty" json:"instance_id,omitempty"`
	AuthorID   string    `bson:"author_id" json:"author_id"`
	AuthorName string    `bson:"-" json:"author_name,omitempty"`
	Text       string    `bson:"text" json:"text"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
