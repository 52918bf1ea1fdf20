package logics

import (
	"context"
	"fmt"
	"time"

	"duet-server/internal/models"
	"duet-server/internal/utils"

	"go.uber.org/zap"
)

const (
	// templateLookaheadDays is the materialization window: today through
	// +7 days inclusive.
	templateLookaheadDays = 7
	// nearDueWindow is how far ahead the short-cycle pass looks for
	// upcoming instances.
	nearDueWindow = 15 * time.Minute
)

// TemplateSchedulerService materializes instances for tasks driven by a
// recurrence template and fires "upcoming" pushes for near-due tasks.
type TemplateSchedulerService struct {
	tasks  TaskStore
	users  UserStore
	push   *PushService
	logger *zap.Logger
}

// NewTemplateSchedulerService creates a new TemplateSchedulerService.
func NewTemplateSchedulerService(tasks TaskStore, users UserStore, push *PushService, logger *zap.Logger) *TemplateSchedulerService {
	return &TemplateSchedulerService{
		tasks:  tasks,
		users:  users,
		push:   push,
		logger: logger,
	}
}

// MaterializeInstances creates missing instances for every task with an
// active, non-one-time template in the lookahead window. A failing task is
// logged and skipped.
func (s *TemplateSchedulerService) MaterializeInstances(ctx context.Context, now time.Time) {
	tasks, err := s.tasks.FindActiveTemplated(ctx)
	if err != nil {
		s.logger.Error("template pass: failed to load templated tasks", zap.Error(err))
		return
	}

	for i := range tasks {
		if err := s.materializeTask(ctx, &tasks[i], now); err != nil {
			s.logger.Error("template pass: task materialization failed",
				zap.String("task_id", tasks[i].ID),
				zap.Error(err))
		}
	}
}

func (s *TemplateSchedulerService) materializeTask(ctx context.Context, task *models.Task, now time.Time) error {
	tmpl := task.Template
	if tmpl == nil || !tmpl.Active || tmpl.Kind == models.RecurrenceOneTime {
		return nil
	}

	hour, minute, err := parseHHMM(tmpl.DefaultTimeHHMM)
	if err != nil {
		return fmt.Errorf("invalid template time %q: %w", tmpl.DefaultTimeHHMM, err)
	}

	created := 0
	for offset := 0; offset <= templateLookaheadDays; offset++ {
		day := now.AddDate(0, 0, offset)
		if !templateDayMatches(tmpl.Kind, day, task.CreatedAt) {
			continue
		}

		due := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
		if instanceExistsOn(task, due) {
			continue
		}

		instance, err := buildInstance(tmpl, due, now)
		if err != nil {
			return err
		}
		task.Instances = append(task.Instances, *instance)
		created++
	}

	if created == 0 {
		return nil
	}

	task.NextDue = nextUpcomingInstanceDue(task, now)
	if err := s.tasks.Save(ctx, task); err != nil {
		return err
	}

	s.logger.Info("template instances materialized",
		zap.String("task_id", task.ID),
		zap.Int("created", created))
	return nil
}

// NearDueSweep sends one "upcoming" push for every task whose next_due
// falls within the next 15 minutes. The push is deduplicated by recording
// the next_due value it was sent for.
func (s *TemplateSchedulerService) NearDueSweep(ctx context.Context, now time.Time) {
	tasks, err := s.tasks.FindNearDue(ctx, now, nearDueWindow)
	if err != nil {
		s.logger.Error("near-due pass: failed to load tasks", zap.Error(err))
		return
	}

	for i := range tasks {
		if err := s.notifyUpcoming(ctx, &tasks[i], now); err != nil {
			s.logger.Error("near-due pass: notification failed",
				zap.String("task_id", tasks[i].ID),
				zap.Error(err))
		}
	}
}

func (s *TemplateSchedulerService) notifyUpcoming(ctx context.Context, task *models.Task, now time.Time) error {
	if task.NextDue == nil {
		return nil
	}
	if task.UpcomingPushDue != nil && task.UpcomingPushDue.Equal(*task.NextDue) {
		return nil
	}

	owner, partnerID, err := resolveCouple(ctx, s.users, task.OwnerID)
	if err != nil {
		return err
	}

	// Instances carry no per-subtask assignment; routing follows the
	// task-level default.
	var recipients []string
	switch task.EffectiveAssignment(nil) {
	case models.AssignmentMe:
		recipients = []string{owner.ID}
	case models.AssignmentPartner:
		if partnerID != "" {
			recipients = []string{partnerID}
		}
	default:
		recipients = []string{owner.ID}
		if partnerID != "" {
			recipients = append(recipients, partnerID)
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	// Persist the dedup mark before the push counts as sent.
	task.UpcomingPushDue = task.NextDue
	if err := s.tasks.Save(ctx, task); err != nil {
		return err
	}

	minutes := int(task.NextDue.Sub(now).Minutes())
	s.push.Notify(ctx, recipients, EventUpcomingTask, MessageParams{
		TaskTitle:   task.Title,
		MinutesLeft: minutes,
	}, map[string]string{
		"type":      string(EventUpcomingTask),
		"task_id":   task.ID,
		"is_active": "true",
	})

	return nil
}

func buildInstance(tmpl *models.RecurrenceTemplate, due, now time.Time) (*models.TaskInstance, error) {
	instanceID, err := utils.GenerateUniqueID("IN")
	if err != nil {
		return nil, err
	}

	subtasks := make([]models.Subtask, 0, len(tmpl.Blueprints))
	for _, bp := range tmpl.Blueprints {
		subID, err := utils.GenerateUniqueID("ST")
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, models.Subtask{
			ID:            subID,
			Title:         bp.Title,
			Assignment:    bp.Assignment,
			Status:        models.SubtaskStatusPending,
			DueAt:         due,
			CompletedBy:   []string{},
			RemindersSent: map[string]bool{},
		})
	}

	return &models.TaskInstance{
		ID:        instanceID,
		DueAt:     due,
		Status:    models.SubtaskStatusPending,
		Subtasks:  subtasks,
		CreatedAt: now,
	}, nil
}

// templateDayMatches decides whether a template produces an instance on
// the given calendar day.
func templateDayMatches(kind models.RecurrenceKind, day, createdAt time.Time) bool {
	switch kind {
	case models.RecurrenceDaily, models.RecurrenceUntilOff:
		return true
	case models.RecurrenceWeekly:
		return day.Weekday() == createdAt.Weekday()
	case models.RecurrenceMonthly:
		return day.Day() == createdAt.Day()
	default:
		return false
	}
}

// instanceExistsOn dedups by calendar day, not exact timestamp.
func instanceExistsOn(task *models.Task, due time.Time) bool {
	for i := range task.Instances {
		if sameCalendarDay(task.Instances[i].DueAt, due) {
			return true
		}
	}
	return false
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// nextUpcomingInstanceDue returns the soonest instance due time at or
// after now; next_due is a cache of the soonest upcoming occurrence.
func nextUpcomingInstanceDue(task *models.Task, now time.Time) *time.Time {
	var soonest *time.Time
	for i := range task.Instances {
		due := task.Instances[i].DueAt
		if due.Before(now) {
			continue
		}
		if soonest == nil || due.Before(*soonest) {
			soonest = &due
		}
	}
	return soonest
}

func parseHHMM(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
