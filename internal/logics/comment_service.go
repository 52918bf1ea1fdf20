package logics

import (
	"context"
	"strings"
	"time"

	"duet-server/internal/models"
	"duet-server/internal/repositories"
	"duet-server/internal/utils"
	apperrors "duet-server/pkg/errors"
)

// CommentService manages comments on tasks and task instances.
type CommentService struct {
	comments *repositories.CommentRepository
	tasks    TaskStore
	users    UserStore
	push     *PushService
}

func NewCommentService(comments *repositories.CommentRepository, tasks TaskStore, users UserStore, push *PushService) *CommentService {
	return &CommentService{comments: comments, tasks: tasks, users: users, push: push}
}

// AddComment attaches a comment to a task, or to one of its instances when
// instanceID is non-empty. The other member is notified.
func (cs *CommentService) AddComment(ctx context.Context, actorID, taskID, instanceID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "comment text is required", nil)
	}

	task, err := cs.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}

	ids, err := coupleIDs(ctx, cs.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := ensureMember(ids, task.OwnerID); err != nil {
		return nil, err
	}

	if instanceID != "" {
		found := false
		for i := range task.Instances {
			if task.Instances[i].ID == instanceID {
				found = true
				break
			}
		}
		if !found {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task instance not found", nil)
		}
	}

	commentID, err := utils.GenerateUniqueID("CM")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate comment id")
	}

	comment := &models.Comment{
		ID:         commentID,
		TaskID:     taskID,
		InstanceID: instanceID,
		AuthorID:   actorID,
		Text:       text,
		CreatedAt:  time.Now(),
	}

	if err := cs.comments.Insert(ctx, comment); err != nil {
		return nil, apperrors.Wrap(err, "failed to add comment")
	}

	if cs.push != nil {
		author, err := cs.users.FindByID(ctx, actorID)
		if err == nil {
			comment.AuthorName = author.Name
			for _, id := range ids {
				if id == actorID {
					continue
				}
				cs.push.Notify(ctx, []string{id}, EventNewComment,
					MessageParams{TaskTitle: task.Title, ActorName: author.Name},
					map[string]string{"type": string(EventNewComment), "task_id": taskID, "comment_id": commentID})
			}
		}
	}
	return comment, nil
}

// ListComments returns a task's comments with author names resolved.
func (cs *CommentService) ListComments(ctx context.Context, actorID, taskID, instanceID string) ([]models.Comment, error) {
	task, err := cs.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}

	ids, err := coupleIDs(ctx, cs.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := ensureMember(ids, task.OwnerID); err != nil {
		return nil, err
	}

	comments, err := cs.comments.FindForTask(ctx, taskID, instanceID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list comments")
	}

	names := map[string]string{}
	for i := range comments {
		authorID := comments[i].AuthorID
		name, ok := names[authorID]
		if !ok {
			if author, err := cs.users.FindByID(ctx, authorID); err == nil {
				name = author.Name
			}
			names[authorID] = name
		}
		comments[i].AuthorName = name
	}
	return comments, nil
}

// DeleteComment removes the actor's own comment.
func (cs *CommentService) DeleteComment(ctx context.Context, actorID, commentID string) error {
	if err := cs.comments.Delete(ctx, commentID, actorID); err != nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "comment not found", err)
	}
	return nil
}
