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

func templatedTask(owner *models.User, kind models.RecurrenceKind, createdAt time.Time) *models.Task {
	return &models.Task{
		ID:        "TK01TEMPLATE1",
		Title:     "Water the plants",
		OwnerID:   owner.ID,
		CreatedBy: owner.ID,
		Status:    models.TaskStatusActive,
		Template: &models.RecurrenceTemplate{
			Kind:            kind,
			DefaultTimeHHMM: "08:30",
			Active:          true,
			Blueprints: []models.SubtaskBlueprint{
				{Title: "Living room", Assignment: models.AssignmentMe},
				{Title: "Balcony"},
			},
		},
		CreatedAt: createdAt,
	}
}

func TestMaterializeInstancesDaily(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) // a Monday

	task := templatedTask(owner, models.RecurrenceDaily, now.AddDate(0, 0, -30))
	tasks := newFakeTaskStore(task)
	users := newFakeUserStore(owner, partner)
	push, _, _ := newTestPushService(users, nil)
	service := NewTemplateSchedulerService(tasks, users, push, zap.NewNop())

	service.MaterializeInstances(context.Background(), now)

	saved := tasks.tasks[task.ID]
	// Today through +7 days inclusive.
	require.Len(t, saved.Instances, 8)

	first := saved.Instances[0]
	assert.Equal(t, 8, first.DueAt.Hour())
	assert.Equal(t, 30, first.DueAt.Minute())
	require.Len(t, first.Subtasks, 2)
	assert.Equal(t, "Living room", first.Subtasks[0].Title)
	assert.Equal(t, models.AssignmentMe, first.Subtasks[0].Assignment)
	assert.Equal(t, models.SubtaskStatusPending, first.Subtasks[0].Status)
	assert.Equal(t, first.DueAt, first.Subtasks[0].DueAt)

	// Today's 08:30 is already past noon, so next_due is tomorrow 08:30.
	require.NotNil(t, saved.NextDue)
	assert.Equal(t, time.Date(2025, 3, 11, 8, 30, 0, 0, time.UTC), *saved.NextDue)

	// A second pass on the same day creates nothing new.
	service.MaterializeInstances(context.Background(), now.Add(time.Hour))
	assert.Len(t, tasks.tasks[task.ID].Instances, 8)
}

func TestMaterializeInstancesWeekly(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) // Monday

	// Created on a Monday: instances land on Mondays only.
	task := templatedTask(owner, models.RecurrenceWeekly, time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC))
	tasks := newFakeTaskStore(task)
	users := newFakeUserStore(owner, partner)
	push, _, _ := newTestPushService(users, nil)
	service := NewTemplateSchedulerService(tasks, users, push, zap.NewNop())

	service.MaterializeInstances(context.Background(), now)

	saved := tasks.tasks[task.ID]
	// The 8-day window starting on a Monday contains two Mondays.
	require.Len(t, saved.Instances, 2)
	assert.Equal(t, time.Monday, saved.Instances[0].DueAt.Weekday())
	assert.Equal(t, time.Monday, saved.Instances[1].DueAt.Weekday())
}

func TestMaterializeInstancesMonthly(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// Created on the 12th: only March 12 falls in the window.
	task := templatedTask(owner, models.RecurrenceMonthly, time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC))
	tasks := newFakeTaskStore(task)
	users := newFakeUserStore(owner, partner)
	push, _, _ := newTestPushService(users, nil)
	service := NewTemplateSchedulerService(tasks, users, push, zap.NewNop())

	service.MaterializeInstances(context.Background(), now)

	saved := tasks.tasks[task.ID]
	require.Len(t, saved.Instances, 1)
	assert.Equal(t, 12, saved.Instances[0].DueAt.Day())
}

func TestMaterializeSkipsInactiveAndOneTime(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	inactive := templatedTask(owner, models.RecurrenceDaily, now.AddDate(0, 0, -10))
	inactive.ID = "TK01INACTIVE1"
	inactive.Template.Active = false

	oneTime := templatedTask(owner, models.RecurrenceOneTime, now.AddDate(0, 0, -10))
	oneTime.ID = "TK01ONETIME01"

	tasks := newFakeTaskStore(inactive, oneTime)
	users := newFakeUserStore(owner, partner)
	push, _, _ := newTestPushService(users, nil)
	service := NewTemplateSchedulerService(tasks, users, push, zap.NewNop())

	service.MaterializeInstances(context.Background(), now)

	assert.Empty(t, tasks.tasks[inactive.ID].Instances)
	assert.Empty(t, tasks.tasks[oneTime.ID].Instances)
}

func TestNearDueSweepNotifiesOnce(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 8, 20, 0, 0, time.UTC)
	due := now.Add(10 * time.Minute)

	task := templatedTask(owner, models.RecurrenceDaily, now.AddDate(0, 0, -10))
	task.NextDue = timePtr(due)

	log := &callLog{}
	tasks := newFakeTaskStore(task)
	tasks.log = log
	users := newFakeUserStore(owner, partner)
	push, dispatcher, _ := newTestPushService(users, log)
	service := NewTemplateSchedulerService(tasks, users, push, zap.NewNop())

	service.NearDueSweep(context.Background(), now)

	require.Len(t, dispatcher.calls, 1)
	call := dispatcher.calls[0]
	assert.ElementsMatch(t, []string{owner.ID, partner.ID}, call.userIDs)
	assert.Contains(t, call.body, "10 minutes")

	saved := tasks.tasks[task.ID]
	require.NotNil(t, saved.UpcomingPushDue)
	assert.True(t, saved.UpcomingPushDue.Equal(due))

	// Dedup mark persisted before the push went out.
	require.GreaterOrEqual(t, len(log.entries), 2)
	assert.Equal(t, "save:"+task.ID, log.entries[0])
	assert.Equal(t, "push", log.entries[1])

	// The next tick sees the same next_due and stays quiet.
	service.NearDueSweep(context.Background(), now.Add(time.Minute))
	assert.Len(t, dispatcher.calls, 1)
}

func TestNearDueSweepRoutesByAssignment(t *testing.T) {
	owner, partner := coupleUsers()
	now := time.Date(2025, 3, 10, 8, 20, 0, 0, time.UTC)

	task := templatedTask(owner, models.RecurrenceDaily, now.AddDate(0, 0, -10))
	task.Assignment = models.AssignmentPartner
	task.NextDue = timePtr(now.Add(5 * time.Minute))

	tasks := newFakeTaskStore(task)
	users := newFakeUserStore(owner, partner)
	push, dispatcher, _ := newTestPushService(users, nil)
	service := NewTemplateSchedulerService(tasks, users, push, zap.NewNop())

	service.NearDueSweep(context.Background(), now)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, []string{partner.ID}, dispatcher.calls[0].userIDs)
}
