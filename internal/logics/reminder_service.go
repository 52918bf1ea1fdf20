package logics

import (
	"context"
	"strconv"
	"time"

	"duet-server/internal/models"

	"go.uber.org/zap"
)

// ReminderThresholds are the minutes-before-due marks a reminder fires at.
var ReminderThresholds = []int{180, 60, 20}

// reminderWindowSlack is the inclusive half-width of the firing window in
// minutes: threshold k fires while (due - now) is within [k-1, k+1].
const reminderWindowSlack = 1

// DueReminderKeys returns the threshold keys that newly enter their firing
// window at the given instant. A key already true in sent is permanently
// skipped, even if a manual due-date edit moves the window back into range.
func DueReminderKeys(now, due time.Time, sent map[string]bool) []string {
	remaining := due.Sub(now).Minutes()

	var keys []string
	for _, threshold := range ReminderThresholds {
		key := strconv.Itoa(threshold)
		if sent[key] {
			continue
		}
		if remaining >= float64(threshold-reminderWindowSlack) && remaining <= float64(threshold+reminderWindowSlack) {
			keys = append(keys, key)
		}
	}
	return keys
}

// firedReminder pairs a subtask with the threshold keys that fired for it.
type firedReminder struct {
	subtask *models.Subtask
	keys    []string
}

// ReminderService runs the periodic reminder/expiry sweep over active
// tasks: it expires overdue subtasks, marks newly due reminder thresholds,
// recomputes task status, regenerates recurring tasks on terminal
// transitions, and dispatches reminder pushes.
type ReminderService struct {
	tasks  TaskStore
	users  UserStore
	push   *PushService
	logger *zap.Logger
}

// NewReminderService creates a new ReminderService.
func NewReminderService(tasks TaskStore, users UserStore, push *PushService, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		tasks:  tasks,
		users:  users,
		push:   push,
		logger: logger,
	}
}

// RunSweep processes every active task once. A failing task is logged and
// skipped; it never aborts the rest of the pass.
func (s *ReminderService) RunSweep(ctx context.Context, now time.Time) {
	tasks, err := s.tasks.FindByStatus(ctx, models.TaskStatusActive)
	if err != nil {
		s.logger.Error("reminder sweep: failed to load active tasks", zap.Error(err))
		return
	}

	for i := range tasks {
		if err := s.processTask(ctx, &tasks[i], now); err != nil {
			s.logger.Error("reminder sweep: task processing failed",
				zap.String("task_id", tasks[i].ID),
				zap.Error(err))
		}
	}
}

func (s *ReminderService) processTask(ctx context.Context, task *models.Task, now time.Time) error {
	owner, partnerID, err := resolveCouple(ctx, s.users, task.OwnerID)
	if err != nil {
		return err
	}

	changed := false
	var fired []firedReminder

	for i := range task.Subtasks {
		sub := &task.Subtasks[i]

		// Expiry first: a subtask is expired only once its due time is
		// strictly in the past, and it never reverts.
		if !sub.Status.Terminal() && now.After(sub.DueAt) {
			sub.Status = models.SubtaskStatusExpired
			changed = true
			continue
		}

		if sub.Status.Terminal() {
			continue
		}

		keys := DueReminderKeys(now, sub.DueAt, sub.RemindersSent)
		if len(keys) == 0 {
			continue
		}

		// Mark eagerly, before dispatch. Push delivery failures never
		// roll the marks back.
		if sub.RemindersSent == nil {
			sub.RemindersSent = make(map[string]bool)
		}
		for _, key := range keys {
			sub.RemindersSent[key] = true
		}
		changed = true
		fired = append(fired, firedReminder{subtask: sub, keys: keys})
	}

	prevStatus := task.Status
	task.Status = ComputeTaskStatus(task.Subtasks)
	if task.Status != prevStatus {
		changed = true
	}

	if changed {
		// State must be persisted before any notification counts as sent.
		if err := s.tasks.Save(ctx, task); err != nil {
			return err
		}
	}

	// Terminal transition regenerates Daily/Weekly tasks exactly once.
	if prevStatus == models.TaskStatusActive && task.Status != models.TaskStatusActive {
		if err := s.regenerate(ctx, task, now); err != nil {
			s.logger.Error("reminder sweep: regeneration failed",
				zap.String("task_id", task.ID),
				zap.Error(err))
		}
	}

	for _, f := range fired {
		recipients := reminderRecipients(task, f.subtask, owner, partnerID)
		if len(recipients) == 0 {
			continue
		}
		minutes, _ := strconv.Atoi(f.keys[0])
		s.push.Notify(ctx, recipients, EventSubtaskReminder, MessageParams{
			TaskTitle:    task.Title,
			SubtaskTitle: f.subtask.Title,
			MinutesLeft:  minutes,
		}, map[string]string{
			"type":       string(EventSubtaskReminder),
			"task_id":    task.ID,
			"subtask_id": f.subtask.ID,
			"is_active":  "true",
		})
	}

	return nil
}

func (s *ReminderService) regenerate(ctx context.Context, task *models.Task, now time.Time) error {
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
		zap.String("successor_id", successor.ID),
		zap.String("frequency", string(task.Frequency)))
	return nil
}

// reminderRecipients resolves who a subtask reminder is addressed to.
// Under "both" with a partially complete subtask only the parties that
// have not yet acknowledged are notified.
func reminderRecipients(task *models.Task, sub *models.Subtask, owner *models.User, partnerID string) []string {
	switch task.EffectiveAssignment(sub) {
	case models.AssignmentMe:
		return []string{owner.ID}
	case models.AssignmentPartner:
		if partnerID == "" {
			return nil
		}
		return []string{partnerID}
	default:
		candidates := []string{owner.ID}
		if partnerID != "" {
			candidates = append(candidates, partnerID)
		}
		if sub.Status != models.SubtaskStatusPartiallyComplete {
			return candidates
		}
		var stragglers []string
		for _, id := range candidates {
			if !sub.HasCompletedBy(id) {
				stragglers = append(stragglers, id)
			}
		}
		return stragglers
	}
}

// resolveCouple loads the task owner and resolves the linked partner id.
func resolveCouple(ctx context.Context, users UserStore, ownerID string) (*models.User, string, error) {
	owner, err := users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}
	return owner, owner.PartnerUserID, nil
}
