package logics

import (
	"context"
	"strings"
	"time"

	"duet-server/internal/models"
	"duet-server/internal/utils"
	apperrors "duet-server/pkg/errors"

	"go.uber.org/zap"
)

// TaskService provides CRUD over tasks and their subtasks. Status is never
// set directly here; it is always recomputed from subtask states.
type TaskService struct {
	tasks  TaskStore
	users  UserStore
	logger *zap.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, users UserStore, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		logger: logger,
	}
}

// SubtaskInput is the payload for creating or editing a subtask.
type SubtaskInput struct {
	Title      string            `json:"title"`
	Assignment models.Assignment `json:"assignment"`
	DueAt      time.Time         `json:"due_at"`
}

// CreateTaskInput is the payload for creating a task.
type CreateTaskInput struct {
	Title      string                     `json:"title"`
	Priority   int                        `json:"priority"`
	Frequency  models.Frequency           `json:"frequency"`
	Assignment models.Assignment          `json:"assignment"`
	Subtasks   []SubtaskInput             `json:"subtasks"`
	Template   *models.RecurrenceTemplate `json:"template"`
}

// CreateTask validates and stores a new task owned by actorID.
func (ts *TaskService) CreateTask(ctx context.Context, actorID string, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "task title is required", nil)
	}

	taskID, err := utils.GenerateUniqueID("TK")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate task id")
	}

	frequency := input.Frequency
	if frequency == "" {
		frequency = models.FrequencyOnce
	}

	now := time.Now()
	task := &models.Task{
		ID:         taskID,
		Title:      input.Title,
		OwnerID:    actorID,
		CreatedBy:  actorID,
		Priority:   input.Priority,
		Frequency:  frequency,
		Assignment: input.Assignment,
		Template:   input.Template,
		Subtasks:   []models.Subtask{},
		Instances:  []models.TaskInstance{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, in := range input.Subtasks {
		sub, err := newSubtask(in)
		if err != nil {
			return nil, err
		}
		task.Subtasks = append(task.Subtasks, *sub)
	}

	task.Status = ComputeTaskStatus(task.Subtasks)
	task.NextDue = earliestDue(task.Subtasks)

	if err := ts.tasks.Insert(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to create task")
	}
	return task, nil
}

// GetTask retrieves a task the actor may see.
func (ts *TaskService) GetTask(ctx context.Context, actorID, taskID string) (*models.Task, error) {
	task, err := ts.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}
	if err := ts.authorize(ctx, task, actorID); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks lists the couple's tasks, soonest due first.
func (ts *TaskService) ListTasks(ctx context.Context, actorID string) ([]models.Task, error) {
	actor, err := ts.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "user not found", err)
	}

	ids := []string{actor.ID}
	if actor.HasPartner() {
		ids = append(ids, actor.PartnerUserID)
	}

	tasks, err := ts.tasks.FindForCouple(ctx, ids)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tasks")
	}
	return tasks, nil
}

// UpdateTask applies a partial update to task fields. Status is excluded
// on purpose; it only moves through subtask mutation.
func (ts *TaskService) UpdateTask(ctx context.Context, actorID, taskID string, updates models.TaskUpdate) (*models.Task, error) {
	task, err := ts.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}
	if err := ts.authorize(ctx, task, actorID); err != nil {
		return nil, err
	}

	if updates.Title != nil && *updates.Title != "" {
		task.Title = *updates.Title
	}
	if updates.Priority != nil {
		task.Priority = *updates.Priority
	}
	if updates.Frequency != nil {
		task.Frequency = *updates.Frequency
	}
	if updates.Assignment != nil {
		task.Assignment = *updates.Assignment
	}

	if err := ts.tasks.Save(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to update task")
	}
	return task, nil
}

// SetTemplate attaches or replaces the task's recurrence template.
func (ts *TaskService) SetTemplate(ctx context.Context, actorID, taskID string, tmpl *models.RecurrenceTemplate) (*models.Task, error) {
	task, err := ts.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}
	if err := ts.authorize(ctx, task, actorID); err != nil {
		return nil, err
	}

	if tmpl != nil && tmpl.DefaultTimeHHMM != "" {
		if _, _, err := parseHHMM(tmpl.DefaultTimeHHMM); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "template default_time must be HH:MM", err)
		}
	}

	task.Template = tmpl
	if err := ts.tasks.Save(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to update template")
	}
	return task, nil
}

// DeleteTask removes a task.
func (ts *TaskService) DeleteTask(ctx context.Context, actorID, taskID string) error {
	task, err := ts.tasks.FindByID(ctx, taskID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}
	if err := ts.authorize(ctx, task, actorID); err != nil {
		return err
	}
	if err := ts.tasks.Delete(ctx, taskID); err != nil {
		return apperrors.Wrap(err, "failed to delete task")
	}
	return nil
}

// AddSubtask appends a new subtask and refreshes derived state.
func (ts *TaskService) AddSubtask(ctx context.Context, actorID, taskID string, input SubtaskInput) (*models.Task, error) {
	task, err := ts.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}
	if err := ts.authorize(ctx, task, actorID); err != nil {
		return nil, err
	}

	sub, err := newSubtask(input)
	if err != nil {
		return nil, err
	}
	sub.UpdatedBy = actorID
	task.Subtasks = append(task.Subtasks, *sub)

	ts.refreshDerived(task)
	if err := ts.tasks.Save(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to add subtask")
	}
	return task, nil
}

// UpdateSubtask edits a subtask's title, assignment or due time. Reminder
// marks are deliberately left alone: fire-once survives due-date edits.
func (ts *TaskService) UpdateSubtask(ctx context.Context, actorID, taskID, subtaskID string, input SubtaskInput) (*models.Task, error) {
	task, err := ts.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}
	if err := ts.authorize(ctx, task, actorID); err != nil {
		return nil, err
	}

	sub := task.FindSubtask(subtaskID)
	if sub == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "subtask not found", nil)
	}

	if strings.TrimSpace(input.Title) != "" {
		sub.Title = input.Title
	}
	if input.Assignment != "" {
		sub.Assignment = input.Assignment
	}
	if !input.DueAt.IsZero() {
		sub.DueAt = input.DueAt
	}
	sub.UpdatedBy = actorID

	ts.refreshDerived(task)
	if err := ts.tasks.Save(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to update subtask")
	}
	return task, nil
}

// DeleteSubtask removes a subtask and refreshes derived state.
func (ts *TaskService) DeleteSubtask(ctx context.Context, actorID, taskID, subtaskID string) (*models.Task, error) {
	task, err := ts.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "task not found", err)
	}
	if err := ts.authorize(ctx, task, actorID); err != nil {
		return nil, err
	}

	kept := task.Subtasks[:0:0]
	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			found = true
			continue
		}
		kept = append(kept, task.Subtasks[i])
	}
	if !found {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "subtask not found", nil)
	}
	task.Subtasks = kept

	ts.refreshDerived(task)
	if err := ts.tasks.Save(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to delete subtask")
	}
	return task, nil
}

func (ts *TaskService) refreshDerived(task *models.Task) {
	task.Status = ComputeTaskStatus(task.Subtasks)
	task.NextDue = earliestDue(task.Subtasks)
}

// authorize verifies that the actor is the owner or the owner's partner.
func (ts *TaskService) authorize(ctx context.Context, task *models.Task, actorID string) error {
	if actorID == task.OwnerID {
		return nil
	}
	owner, err := ts.users.FindByID(ctx, task.OwnerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to resolve task owner")
	}
	if owner.HasPartner() && owner.PartnerUserID == actorID {
		return nil
	}
	return apperrors.NewAppError(apperrors.ErrUnauthorized, "you do not have access to this task", nil)
}

func newSubtask(input SubtaskInput) (*models.Subtask, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "subtask title is required", nil)
	}
	if input.DueAt.IsZero() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "subtask due time is required", nil)
	}

	subID, err := utils.GenerateUniqueID("ST")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate subtask id")
	}

	return &models.Subtask{
		ID:            subID,
		Title:         input.Title,
		Assignment:    input.Assignment,
		Status:        models.SubtaskStatusPending,
		DueAt:         input.DueAt,
		CompletedBy:   []string{},
		RemindersSent: map[string]bool{},
	}, nil
}
