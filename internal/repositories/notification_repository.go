package repositories

import (
	"context"
	"fmt"
	"time"

	"duet-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository persists in-app notification records.
type NotificationRepository struct {
	col *mongo.Collection
}

// NewNotificationRepository creates a NotificationRepository bound to the
// shared database.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{col: DBS.MongoDB.Collection("notifications")}
}

// Insert stores a notification record.
func (r *NotificationRepository) Insert(ctx context.Context, notification *models.Notification) error {
	if _, err := r.col.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// FindForUser lists a user's notifications, newest first.
func (r *NotificationRepository) FindForUser(ctx context.Context, userID string, includeRead bool, limit int64) ([]models.Notification, error) {
	filter := bson.M{"user_id": userID}
	if !includeRead {
		filter["read"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a single notification as read, scoped to its owner.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": notificationID, "user_id": userID},
		bson.M{"$set": bson.M{"read": true, "read_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("notification not found or not owned by user")
	}
	return nil
}
