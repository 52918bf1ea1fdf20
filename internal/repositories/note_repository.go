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

// NoteRepository provides persistence for shared notes.
type NoteRepository struct {
	col *mongo.Collection
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{col: DBS.MongoDB.Collection("notes")}
}

func (r *NoteRepository) FindByID(ctx context.Context, noteID string) (*models.Note, error) {
	var note models.Note
	err := r.col.FindOne(ctx, bson.M{"_id": noteID}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("note with id %s not found", noteID)
		}
		return nil, fmt.Errorf("failed to fetch note: %w", err)
	}
	return &note, nil
}

// FindForCouple lists notes owned by either member, pinned first.
func (r *NoteRepository) FindForCouple(ctx context.Context, ownerIDs []string) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "pinned", Value: -1},
		{Key: "updated_at", Value: -1},
	})
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": bson.M{"$in": ownerIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Insert(ctx context.Context, note *models.Note) error {
	if _, err := r.col.InsertOne(ctx, note); err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

func (r *NoteRepository) Save(ctx context.Context, note *models.Note) error {
	note.UpdatedAt = time.Now()
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": note.ID}, note); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, noteID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": noteID}); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
