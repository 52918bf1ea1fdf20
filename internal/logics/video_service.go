package logics

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"duet-server/internal/models"
	"duet-server/internal/repositories"
	"duet-server/internal/utils"
	apperrors "duet-server/pkg/errors"

	"go.uber.org/zap"
)

const downloadURLTTL = 15 * time.Minute

// VideoService manages shared videos: metadata in mongo, objects in S3.
type VideoService struct {
	videos *repositories.VideoRepository
	users  UserStore
	logger *zap.Logger
}

func NewVideoService(videos *repositories.VideoRepository, users UserStore, logger *zap.Logger) *VideoService {
	return &VideoService{videos: videos, users: users, logger: logger}
}

// UploadVideo stores the object and its metadata. SizeBytes is taken from
// the request's content length.
func (vs *VideoService) UploadVideo(ctx context.Context, actorID, title, contentType string, size int64, body io.Reader) (*models.Video, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "video title is required", nil)
	}
	if body == nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "video body is required", nil)
	}

	videoID, err := utils.GenerateUniqueID("VD")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate video id")
	}

	key := fmt.Sprintf("videos/%s/%s", actorID, videoID)
	if err := vs.videos.UploadObject(ctx, key, contentType, body); err != nil {
		return nil, apperrors.Wrap(err, "failed to upload video")
	}

	video := &models.Video{
		ID:          videoID,
		Title:       title,
		OwnerID:     actorID,
		UploadedBy:  actorID,
		S3Key:       key,
		ContentType: contentType,
		SizeBytes:   size,
		CreatedAt:   time.Now(),
	}

	if err := vs.videos.Insert(ctx, video); err != nil {
		// The object is already in S3; try to clean it up.
		if delErr := vs.videos.DeleteObject(ctx, key); delErr != nil {
			vs.logger.Warn("Failed to clean up orphaned video object",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, apperrors.Wrap(err, "failed to save video metadata")
	}
	return video, nil
}

func (vs *VideoService) ListVideos(ctx context.Context, actorID string) ([]models.Video, error) {
	ids, err := coupleIDs(ctx, vs.users, actorID)
	if err != nil {
		return nil, err
	}

	videos, err := vs.videos.FindForCouple(ctx, ids)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list videos")
	}
	return videos, nil
}

// DownloadURL returns a time-limited presigned URL for the video object.
func (vs *VideoService) DownloadURL(ctx context.Context, actorID, videoID string) (string, error) {
	video, err := vs.getAuthorized(ctx, actorID, videoID)
	if err != nil {
		return "", err
	}

	url, err := vs.videos.PresignDownload(ctx, video.S3Key, downloadURLTTL)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to presign download")
	}
	return url, nil
}

// DeleteVideo removes the metadata and the stored object.
func (vs *VideoService) DeleteVideo(ctx context.Context, actorID, videoID string) error {
	video, err := vs.getAuthorized(ctx, actorID, videoID)
	if err != nil {
		return err
	}

	if err := vs.videos.Delete(ctx, videoID); err != nil {
		return apperrors.Wrap(err, "failed to delete video")
	}
	if err := vs.videos.DeleteObject(ctx, video.S3Key); err != nil {
		vs.logger.Warn("Failed to delete video object",
			zap.String("key", video.S3Key), zap.Error(err))
	}
	return nil
}

func (vs *VideoService) getAuthorized(ctx context.Context, actorID, videoID string) (*models.Video, error) {
	video, err := vs.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "video not found", err)
	}

	ids, err := coupleIDs(ctx, vs.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := ensureMember(ids, video.OwnerID); err != nil {
		return nil, err
	}
	return video, nil
}
