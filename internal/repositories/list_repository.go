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

// ListRepository provides persistence for shared checklists.
type ListRepository struct {
	col *mongo.Collection
}

func NewListRepository() *ListRepository {
	return &ListRepository{col: DBS.MongoDB.Collection("lists")}
}

func (r *ListRepository) FindByID(ctx context.Context, listID string) (*models.List, error) {
	var list models.List
	err := r.col.FindOne(ctx, bson.M{"_id": listID}).Decode(&list)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("list with id %s not found", listID)
		}
		return nil, fmt.Errorf("failed to fetch list: %w", err)
	}
	return &list, nil
}

func (r *ListRepository) FindForCouple(ctx context.Context, ownerIDs []string) ([]models.List, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": bson.M{"$in": ownerIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer cursor.Close(ctx)

	var lists []models.List
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode lists: %w", err)
	}
	return lists, nil
}

func (r *ListRepository) Insert(ctx context.Context, list *models.List) error {
	if _, err := r.col.InsertOne(ctx, list); err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

func (r *ListRepository) Save(ctx context.Context, list *models.List) error {
	list.UpdatedAt = time.Now()
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": list.ID}, list); err != nil {
		return fmt.Errorf("failed to save list: %w", err)
	}
	return nil
}

func (r *ListRepository) Delete(ctx context.Context, listID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": listID}); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}
