package repositories

import (
	"context"
	"fmt"
	"io"
	"time"

	"duet-server/configs"
	"duet-server/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VideoRepository persists video metadata in mongo and the objects
// themselves in S3.
type VideoRepository struct {
	col     *mongo.Collection
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewVideoRepository() *VideoRepository {
	return &VideoRepository{
		col:     DBS.MongoDB.Collection("videos"),
		s3:      DBS.S3,
		presign: s3.NewPresignClient(DBS.S3),
		bucket:  configs.Configs.S3.BucketName,
	}
}

func (r *VideoRepository) FindByID(ctx context.Context, videoID string) (*models.Video, error) {
	var video models.Video
	err := r.col.FindOne(ctx, bson.M{"_id": videoID}).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("video with id %s not found", videoID)
		}
		return nil, fmt.Errorf("failed to fetch video: %w", err)
	}
	return &video, nil
}

func (r *VideoRepository) FindForCouple(ctx context.Context, ownerIDs []string) ([]models.Video, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": bson.M{"$in": ownerIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer cursor.Close(ctx)

	var videos []models.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}
	return videos, nil
}

func (r *VideoRepository) Insert(ctx context.Context, video *models.Video) error {
	if _, err := r.col.InsertOne(ctx, video); err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, videoID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": videoID}); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// UploadObject streams the video body to S3 under key.
func (r *VideoRepository) UploadObject(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := r.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// PresignDownload returns a time-limited GET URL for the object.
func (r *VideoRepository) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}

// DeleteObject removes the object from S3.
func (r *VideoRepository) DeleteObject(ctx context.Context, key string) error {
	_, err := r.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
