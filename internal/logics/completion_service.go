package logics

import (
	"context"
	"time"

	"duet-server/internal/models"
	apperrors "duet-server/pkg/errors"

	"go.uber.org/zap"
)

// CompletionService applies user-requested status changes to subtasks:
// authorization, joint-completion bookkeeping, task status aggregation,
// recurring-task regeneration and the partner notification.
type CompletionService struct {
	tasks  TaskStore
	users  UserStore
	push   *PushService
	logger *zap.Logger
}

// NewCompletionService creates a new CompletionService.
func NewCompletionService(tasks TaskStore, users UserStore, push *PushService, logger *zap.Logger) *CompletionService {
	return &CompletionService{
		tasks:  tasks,
		users:  users,
		push:   push,
		logger: logger,
	}
}

// SetSubtaskStatus handles a complete/reopen request from actorID on the
// given subtask. Validation failures return before any state mutation.
func (s *CompletionService) SetSubtaskStatus(ctx context.Context, taskID, subtaskID, actorID string, requested models.SubtaskStatus) (*models.Task, error) {
	if requested != models.SubtaskStatusPending && requested != models.SubtaskStatusCompleted {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "requested status must be pending or completed", nil)
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}

	sub := task.FindSubtask(subtaskID)
	if sub == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "subtask not found", nil)
	}

	owner, partnerID, err := resolveCouple(ctx, s.users, task.OwnerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to resolve task owner")
	}

	if actorID != owner.ID && (partnerID == "" || actorID != partnerID) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "only the task owner or their partner may change subtask status", nil)
	}

	// Expired is absorbing; requests against it are rejected outright.
	if sub.Status == models.SubtaskStatusExpired {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "subtask has expired and can no longer change status", nil)
	}

	effective := task.EffectiveAssignment(sub)

	if requested == models.SubtaskStatusCompleted {
		switch effective {
		case models.AssignmentMe:
			if actorID != owner.ID {
				return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "subtask is assigned to the owner only", nil)
			}
		case models.AssignmentPartner:
			if actorID != partnerID {
				return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "subtask is assigned to the partner only", nil)
			}
		case models.AssignmentBoth:
			if partnerID == "" {
				return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "joint completion requires a connected partner", nil)
			}
		}
	}

	now := time.Now()

	// completed_by membership goes through the atomic array operations so
	// two near-simultaneous acknowledgements cannot lose an update.
	if requested == models.SubtaskStatusCompleted {
		if err := s.tasks.AddSubtaskCompletedBy(ctx, task.ID, sub.ID, actorID); err != nil {
			return nil, apperrors.Wrap(err, "failed to record completion")
		}
	} else if effective == models.AssignmentBoth {
		if err := s.tasks.PullSubtaskCompletedBy(ctx, task.ID, sub.ID, actorID); err != nil {
			return nil, apperrors.Wrap(err, "failed to record reopen")
		}
	}

	// Re-read so the derived status is computed over every acknowledgement
	// that has landed, including ones written after the first read.
	task, err = s.tasks.FindByID(ctx, task.ID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}
	sub = task.FindSubtask(subtaskID)
	if sub == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "subtask not found", nil)
	}

	deriveSubtaskState(sub, effective, actorID, owner.ID, partnerID, requested, now)
	task.Status = ComputeTaskStatus(task.Subtasks)

	// The write targets only this subtask's derived fields, never the
	// membership array, so the other member's concurrent acknowledgement
	// survives it. The returned prior status makes the terminal-transition
	// check below race-safe: exactly one writer observes active→terminal.
	prevStatus, err := s.tasks.UpdateSubtaskStatus(ctx, task.ID, sub.ID, models.SubtaskStatusUpdate{
		Status:           sub.Status,
		CompletedAt:      sub.CompletedAt,
		UpdatedBy:        sub.UpdatedBy,
		ResetCompletedBy: requested == models.SubtaskStatusPending && effective != models.AssignmentBoth,
		TaskStatus:       task.Status,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to save subtask status")
	}

	if prevStatus == models.TaskStatusActive && task.Status != models.TaskStatusActive {
		if err := s.regenerate(ctx, task, now); err != nil {
			s.logger.Error("completion: regeneration failed",
				zap.String("task_id", task.ID),
				zap.Error(err))
		}
	}

	s.notifyOtherParty(ctx, task, sub, actorID, owner, partnerID)

	return task, nil
}

func (s *CompletionService) regenerate(ctx context.Context, task *models.Task, now time.Time) error {
	successor, err := BuildSuccessorTask(task, now)
	if err != nil {
		return err
	}
	if successor == nil {
		return nil
	}
	if err := s.tasks.Insert(ctx, successor); err != nil {
		return err
	}
	s.logger.Info("recurring task regenerated",
		zap.String("task_id", task.ID),
		zap.String("successor_id", successor.ID))
	return nil
}

// notifyOtherParty tells the non-acting member about the change. Push is
// best-effort and never affects the already-committed state change.
func (s *CompletionService) notifyOtherParty(ctx context.Context, task *models.Task, sub *models.Subtask, actorID string, owner *models.User, partnerID string) {
	var other string
	if actorID == owner.ID {
		other = partnerID
	} else {
		other = owner.ID
	}
	if other == "" {
		return
	}

	actorName := owner.Name
	if actorID != owner.ID {
		if actor, err := s.users.FindByID(ctx, actorID); err == nil {
			actorName = actor.Name
		} else {
			actorName = "Your partner"
		}
	}

	s.push.Notify(ctx, []string{other}, EventSubtaskStatus, MessageParams{
		TaskTitle:    task.Title,
		SubtaskTitle: sub.Title,
		ActorName:    actorName,
		NewStatus:    sub.Status,
	}, map[string]string{
		"type":       string(EventSubtaskStatus),
		"task_id":    task.ID,
		"subtask_id": sub.ID,
		"is_active":  boolString(task.Status == models.TaskStatusActive),
	})
}

// deriveSubtaskState is the completion state machine proper. It runs over
// a freshly loaded subtask whose completed_by already reflects the atomic
// membership operation, so joint status is derived purely from what the
// store holds. Callers validate authorization and assignment first.
func deriveSubtaskState(sub *models.Subtask, effective models.Assignment, actorID, ownerID, partnerID string, requested models.SubtaskStatus, now time.Time) {
	sub.UpdatedBy = actorID

	if requested == models.SubtaskStatusCompleted {
		if effective == models.AssignmentBoth {
			if sub.HasCompletedBy(ownerID) && partnerID != "" && sub.HasCompletedBy(partnerID) {
				sub.Status = models.SubtaskStatusCompleted
				sub.CompletedAt = &now
			} else {
				sub.Status = models.SubtaskStatusPartiallyComplete
				sub.CompletedAt = nil
			}
			return
		}

		sub.Status = models.SubtaskStatusCompleted
		sub.CompletedAt = &now
		return
	}

	// Reopen. The actor's membership entry is already pulled under "both".
	sub.CompletedAt = nil
	if effective == models.AssignmentBoth {
		if len(sub.CompletedBy) > 0 {
			sub.Status = models.SubtaskStatusPartiallyComplete
		} else {
			sub.Status = models.SubtaskStatusPending
		}
		return
	}

	sub.Status = models.SubtaskStatusPending
	sub.CompletedBy = nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
