package models

import "time"

// Video is a media object stored in S3 and shared between the couple.
type Video struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	UploadedBy  string    `bson:"uploaded_by" json:"uploaded_by"`
	S3Key       string    `bson:"s3_key" json:"-"`
	ContentType string    `bson:"content_type" json:"content_type"`
	SizeBytes   int64     `bson:"size_bytes" json:"size_bytes"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
