package repositories

import (
	"context"
	"fmt"
	"time"

	"duet-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository provides persistence for user accounts.
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a UserRepository bound to the shared database.
func NewUserRepository() *UserRepository {
	return &UserRepository{col: DBS.MongoDB.Collection("users")}
}

// FindByID loads a user by id.
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user with id %s not found", userID)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// FindByEmail loads a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// Save replaces the whole user document.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// LinkPartners sets the mutual partner reference on both users.
func (r *UserRepository) LinkPartners(ctx context.Context, userID, partnerID string) error {
	now := time.Now()
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"partner_user_id": partnerID, "updated_at": now}}); err != nil {
		return fmt.Errorf("failed to link partner: %w", err)
	}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": partnerID},
		bson.M{"$set": bson.M{"partner_user_id": userID, "updated_at": now}}); err != nil {
		return fmt.Errorf("failed to link partner: %w", err)
	}
	return nil
}
