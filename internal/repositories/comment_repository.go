package repositories

import (
	"context"
	"fmt"

	"duet-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository provides persistence for task comments.
type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{col: DBS.MongoDB.Collection("comments")}
}

func (r *CommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if _, err := r.col.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// FindForTask lists a task's comments oldest first. instanceID narrows to an
// instance's thread when non-empty.
func (r *CommentRepository) FindForTask(ctx context.Context, taskID, instanceID string) ([]models.Comment, error) {
	filter := bson.M{"task_id": taskID}
	if instanceID != "" {
		filter["instance_id"] = instanceID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, commentID, authorID string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": commentID, "author_id": authorID})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("comment not found or not owned by user")
	}
	return nil
}

// DeleteForTask removes every comment attached to a task.
func (r *CommentRepository) DeleteForTask(ctx context.Context, taskID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"task_id": taskID}); err != nil {
		return fmt.Errorf("failed to delete task comments: %w", err)
	}
	return nil
}
