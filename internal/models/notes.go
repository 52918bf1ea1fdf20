package models

import "time"

// Note is a free-form shared note.
type Note struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Contents  string    `bson:"contents" json:"contents"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	Pinned    bool      `bson:"pinned" json:"pinned"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NoteUpdate is used for partial note updates.
type NoteUpdate struct {
	Title    *string `json:"title"`
	Contents *string `json:"contents"`
	Pinned   *bool   `json:"pinned"`
}
