package logics

import (
	"testing"
	"time"

	"duet-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSuccessorTask(t *testing.T) {
	now := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	firstDue := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	secondDue := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	completedAt := now.Add(-time.Hour)
	base := &models.Task{
		ID:         "TK01ORIGINAL1",
		Title:      "Morning routine",
		OwnerID:    "US01OWNER0001",
		CreatedBy:  "US01OWNER0001",
		Priority:   2,
		Status:     models.TaskStatusCompleted,
		Assignment: models.AssignmentBoth,
		Subtasks: []models.Subtask{
			{
				ID:            "ST01FIRST0001",
				Title:         "Feed the cat",
				Assignment:    models.AssignmentMe,
				Status:        models.SubtaskStatusCompleted,
				DueAt:         firstDue,
				CompletedAt:   &completedAt,
				CompletedBy:   []string{"US01OWNER0001"},
				RemindersSent: map[string]bool{"60": true, "20": true},
			},
			{
				ID:            "ST01SECOND001",
				Title:         "Take out trash",
				Status:        models.SubtaskStatusExpired,
				DueAt:         secondDue,
				CompletedBy:   []string{},
				RemindersSent: map[string]bool{"180": true},
			},
		},
	}

	t.Run("daily shifts one day", func(t *testing.T) {
		task := *base
		task.Frequency = models.FrequencyDaily

		successor, err := BuildSuccessorTask(&task, now)
		require.NoError(t, err)
		require.NotNil(t, successor)

		assert.NotEqual(t, task.ID, successor.ID)
		assert.Equal(t, task.Title, successor.Title)
		assert.Equal(t, task.OwnerID, successor.OwnerID)
		assert.Equal(t, task.Priority, successor.Priority)
		assert.Equal(t, task.Assignment, successor.Assignment)
		assert.Equal(t, models.TaskStatusActive, successor.Status)

		require.Len(t, successor.Subtasks, 2)
		for i, sub := range successor.Subtasks {
			assert.NotEqual(t, task.Subtasks[i].ID, sub.ID)
			assert.Equal(t, task.Subtasks[i].Title, sub.Title)
			assert.Equal(t, task.Subtasks[i].Assignment, sub.Assignment)
			assert.Equal(t, models.SubtaskStatusPending, sub.Status)
			assert.Equal(t, task.Subtasks[i].DueAt.Add(24*time.Hour), sub.DueAt)
			assert.Nil(t, sub.CompletedAt)
			assert.Empty(t, sub.CompletedBy)
			assert.Empty(t, sub.RemindersSent)
		}

		require.NotNil(t, successor.NextDue)
		assert.Equal(t, firstDue.Add(24*time.Hour), *successor.NextDue)
	})

	t.Run("weekly shifts seven days", func(t *testing.T) {
		task := *base
		task.Frequency = models.FrequencyWeekly

		successor, err := BuildSuccessorTask(&task, now)
		require.NoError(t, err)
		require.NotNil(t, successor)
		assert.Equal(t, firstDue.Add(7*24*time.Hour), successor.Subtasks[0].DueAt)
		assert.Equal(t, secondDue.Add(7*24*time.Hour), successor.Subtasks[1].DueAt)
	})

	t.Run("once does not regenerate", func(t *testing.T) {
		task := *base
		task.Frequency = models.FrequencyOnce

		successor, err := BuildSuccessorTask(&task, now)
		require.NoError(t, err)
		assert.Nil(t, successor)
	})

	t.Run("original is untouched", func(t *testing.T) {
		task := *base
		task.Frequency = models.FrequencyDaily

		_, err := BuildSuccessorTask(&task, now)
		require.NoError(t, err)

		assert.Equal(t, models.SubtaskStatusCompleted, task.Subtasks[0].Status)
		assert.Equal(t, []string{"US01OWNER0001"}, task.Subtasks[0].CompletedBy)
		assert.True(t, task.Subtasks[0].RemindersSent["60"])
	})
}
