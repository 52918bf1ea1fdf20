package logics

import (
	"testing"

	"duet-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeTaskStatus(t *testing.T) {
	sub := func(status models.SubtaskStatus) models.Subtask {
		return models.Subtask{Status: status}
	}

	tests := []struct {
		name     string
		subtasks []models.Subtask
		expected models.TaskStatus
	}{
		{
			name:     "no subtasks is active",
			subtasks: nil,
			expected: models.TaskStatusActive,
		},
		{
			name:     "all completed",
			subtasks: []models.Subtask{sub(models.SubtaskStatusCompleted), sub(models.SubtaskStatusCompleted)},
			expected: models.TaskStatusCompleted,
		},
		{
			name:     "all expired",
			subtasks: []models.Subtask{sub(models.SubtaskStatusExpired), sub(models.SubtaskStatusExpired)},
			expected: models.TaskStatusExpired,
		},
		{
			name:     "completed and expired mix is expired",
			subtasks: []models.Subtask{sub(models.SubtaskStatusCompleted), sub(models.SubtaskStatusExpired)},
			expected: models.TaskStatusExpired,
		},
		{
			name:     "pending keeps the task active",
			subtasks: []models.Subtask{sub(models.SubtaskStatusCompleted), sub(models.SubtaskStatusPending)},
			expected: models.TaskStatusActive,
		},
		{
			name:     "partially complete keeps the task active",
			subtasks: []models.Subtask{sub(models.SubtaskStatusExpired), sub(models.SubtaskStatusPartiallyComplete)},
			expected: models.TaskStatusActive,
		},
		{
			name:     "single completed subtask",
			subtasks: []models.Subtask{sub(models.SubtaskStatusCompleted)},
			expected: models.TaskStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeTaskStatus(tt.subtasks))
		})
	}
}

func TestComputeTaskStatusDoesNotMutate(t *testing.T) {
	subtasks := []models.Subtask{
		{Status: models.SubtaskStatusPending},
		{Status: models.SubtaskStatusCompleted},
	}

	_ = ComputeTaskStatus(subtasks)

	assert.Equal(t, models.SubtaskStatusPending, subtasks[0].Status)
	assert.Equal(t, models.SubtaskStatusCompleted, subtasks[1].Status)
}
