package logics

import (
	"context"
	"testing"
	"time"

	"duet-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDueReminderKeys(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		minutes   float64
		sent      map[string]bool
		expected  []string
	}{
		{name: "exactly 180 minutes", minutes: 180, expected: []string{"180"}},
		{name: "lower edge of 180 window", minutes: 179, expected: []string{"180"}},
		{name: "upper edge of 180 window", minutes: 181, expected: []string{"180"}},
		{name: "just outside 180 window", minutes: 182, expected: nil},
		{name: "exactly 60 minutes", minutes: 60, expected: []string{"60"}},
		{name: "exactly 20 minutes", minutes: 20, expected: []string{"20"}},
		{name: "upper edge of 20 window", minutes: 21, expected: []string{"20"}},
		{name: "between thresholds", minutes: 120, expected: nil},
		{name: "already sent is skipped", minutes: 60, sent: map[string]bool{"60": true}, expected: nil},
		{name: "other keys sent do not block", minutes: 20, sent: map[string]bool{"180": true, "60": true}, expected: []string{"20"}},
		{name: "overdue", minutes: -5, expected: nil},
		{name: "nil sent map", minutes: 180, sent: nil, expected: []string{"180"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := now.Add(time.Duration(tt.minutes * float64(time.Minute)))
			assert.Equal(t, tt.expected, DueReminderKeys(now, due, tt.sent))
		})
	}
}

func activeTask(owner *models.User, assignment models.Assignment, frequency models.Frequency, subtasks ...models.Subtask) *models.Task {
	return &models.Task{
		ID:         "TK01TESTTASK1",
		Title:      "Walk the dog",
		OwnerID:    owner.ID,
		CreatedBy:  owner.ID,
		Frequency:  frequency,
		Status:     models.TaskStatusActive,
		Assignment: assignment,
		Subtasks:   subtasks,
	}
}

func TestReminderServiceFiresOnce(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	task := activeTask(owner, models.AssignmentBoth, models.FrequencyOnce, models.Subtask{
		ID:            "ST01SUB000001",
		Title:         "Evening walk",
		Status:        models.SubtaskStatusPending,
		DueAt:         now.Add(60 * time.Minute),
		CompletedBy:   []string{},
		RemindersSent: map[string]bool{},
	})

	log := &callLog{}
	tasks := newFakeTaskStore(task)
	tasks.log = log
	users := newFakeUserStore(owner, partner)
	push, dispatcher, notifications := newTestPushService(users, log)
	service := NewReminderService(tasks, users, push, zap.NewNop())

	service.RunSweep(context.Background(), now)

	require.Len(t, dispatcher.calls, 1)
	call := dispatcher.calls[0]
	assert.ElementsMatch(t, []string{"token-owner", "token-partner"}, call.tokens)
	assert.Contains(t, call.body, "1 hour")
	assert.Equal(t, "true", call.data["is_active"])

	saved := tasks.tasks[task.ID]
	assert.True(t, saved.Subtasks[0].RemindersSent["60"])

	// One in-app record per recipient.
	assert.Len(t, notifications.stored, 2)

	// The marked state must hit the store before the gateway is called.
	require.GreaterOrEqual(t, len(log.entries), 2)
	assert.Equal(t, "save:"+task.ID, log.entries[0])
	assert.Equal(t, "push", log.entries[1])

	// A second sweep at the same instant must not re-fire.
	service.RunSweep(context.Background(), now)
	assert.Len(t, dispatcher.calls, 1)
}

func TestReminderServicePartialCompletionRecipients(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	task := activeTask(owner, models.AssignmentBoth, models.FrequencyOnce, models.Subtask{
		ID:            "ST01SUB000001",
		Title:         "Pack the bags",
		Status:        models.SubtaskStatusPartiallyComplete,
		DueAt:         now.Add(20 * time.Minute),
		CompletedBy:   []string{owner.ID},
		RemindersSent: map[string]bool{},
	})

	tasks := newFakeTaskStore(task)
	users := newFakeUserStore(owner, partner)
	push, dispatcher, _ := newTestPushService(users, nil)
	service := NewReminderService(tasks, users, push, zap.NewNop())

	service.RunSweep(context.Background(), now)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, []string{partner.ID}, dispatcher.calls[0].userIDs)
	assert.Equal(t, []string{"token-partner"}, dispatcher.calls[0].tokens)
}

func TestReminderServiceExpiresOverdueAndRegenerates(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)

	task := activeTask(owner, models.AssignmentMe, models.FrequencyDaily, models.Subtask{
		ID:            "ST01SUB000001",
		Title:         "Water the plants",
		Status:        models.SubtaskStatusPending,
		DueAt:         due,
		CompletedBy:   []string{},
		RemindersSent: map[string]bool{"180": true},
	})

	tasks := newFakeTaskStore(task)
	users := newFakeUserStore(owner, partner)
	push, dispatcher, _ := newTestPushService(users, nil)
	service := NewReminderService(tasks, users, push, zap.NewNop())

	service.RunSweep(context.Background(), now)

	saved := tasks.tasks[task.ID]
	assert.Equal(t, models.SubtaskStatusExpired, saved.Subtasks[0].Status)
	assert.Equal(t, models.TaskStatusExpired, saved.Status)
	assert.Empty(t, dispatcher.calls, "expired subtasks get no reminder")

	// Daily frequency regenerates a fresh successor shifted by one day.
	require.Len(t, tasks.inserted, 1)
	successor := tasks.inserted[0]
	assert.NotEqual(t, task.ID, successor.ID)
	assert.Equal(t, models.TaskStatusActive, successor.Status)
	require.Len(t, successor.Subtasks, 1)
	assert.Equal(t, models.SubtaskStatusPending, successor.Subtasks[0].Status)
	assert.Equal(t, due.Add(24*time.Hour), successor.Subtasks[0].DueAt)
	assert.Empty(t, successor.Subtasks[0].CompletedBy)
	assert.Empty(t, successor.Subtasks[0].RemindersSent)
}

func TestReminderServiceIsolatesFailingTasks(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	orphan := &models.Task{
		ID:      "TK01ORPHAN001",
		Title:   "Orphaned",
		OwnerID: "US99MISSING99", // owner lookup fails
		Status:  models.TaskStatusActive,
		Subtasks: []models.Subtask{{
			ID:     "ST01ORPHAN001",
			Status: models.SubtaskStatusPending,
			DueAt:  now.Add(60 * time.Minute),
		}},
	}
	healthy := activeTask(owner, models.AssignmentMe, models.FrequencyOnce, models.Subtask{
		ID:            "ST01SUB000001",
		Title:         "Call the vet",
		Status:        models.SubtaskStatusPending,
		DueAt:         now.Add(20 * time.Minute),
		CompletedBy:   []string{},
		RemindersSent: map[string]bool{},
	})

	tasks := newFakeTaskStore(orphan, healthy)
	users := newFakeUserStore(owner, partner)
	push, dispatcher, _ := newTestPushService(users, nil)
	service := NewReminderService(tasks, users, push, zap.NewNop())

	service.RunSweep(context.Background(), now)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, []string{owner.ID}, dispatcher.calls[0].userIDs)
}
