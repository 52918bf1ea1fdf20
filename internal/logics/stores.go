package logics

import (
	"context"
	"time"

	"duet-server/internal/models"
)

// TaskStore is the narrow persistence surface the lifecycle engine needs.
// Implemented by repositories.TaskRepository.
type TaskStore interface {
	FindByID(ctx context.Context, taskID string) (*models.Task, error)
	FindByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
	FindActiveTemplated(ctx context.Context) ([]models.Task, error)
	FindNearDue(ctx context.Context, now time.Time, window time.Duration) ([]models.Task, error)
	FindForCouple(ctx context.Context, userIDs []string) ([]models.Task, error)
	Insert(ctx context.Context, task *models.Task) error
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, taskID string) error
	AddSubtaskCompletedBy(ctx context.Context, taskID, subtaskID, userID string) error
	PullSubtaskCompletedBy(ctx context.Context, taskID, subtaskID, userID string) error
	UpdateSubtaskStatus(ctx context.Context, taskID, subtaskID string, upd models.SubtaskStatusUpdate) (models.TaskStatus, error)
}

// UserStore resolves user accounts. Implemented by repositories.UserRepository.
type UserStore interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
}

// NotificationStore persists in-app notification records.
type NotificationStore interface {
	Insert(ctx context.Context, notification *models.Notification) error
}

// PushDispatcher hands a push message to the external gateway.
// Implemented by utils.PushGateway.
type PushDispatcher interface {
	SendPush(ctx context.Context, tokens []string, title, body string, data map[string]string, userIDs []string, groupID string) error
}
