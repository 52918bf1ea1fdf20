package logics

import (
	"time"

	"duet-server/internal/models"
	"duet-server/internal/utils"
)

// BuildSuccessorTask produces the next generation of a Daily/Weekly task
// whose aggregated status just turned terminal. The terminating task is
// left untouched; generation is additive. Returns nil for frequencies
// that do not regenerate.
func BuildSuccessorTask(task *models.Task, now time.Time) (*models.Task, error) {
	var shift time.Duration
	switch task.Frequency {
	case models.FrequencyDaily:
		shift = 24 * time.Hour
	case models.FrequencyWeekly:
		shift = 7 * 24 * time.Hour
	default:
		return nil, nil
	}

	newID, err := utils.GenerateUniqueID("TK")
	if err != nil {
		return nil, err
	}

	subtasks := make([]models.Subtask, 0, len(task.Subtasks))
	for i := range task.Subtasks {
		src := &task.Subtasks[i]

		subID, err := utils.GenerateUniqueID("ST")
		if err != nil {
			return nil, err
		}

		subtasks = append(subtasks, models.Subtask{
			ID:            subID,
			Title:         src.Title,
			Assignment:    src.Assignment,
			Status:        models.SubtaskStatusPending,
			DueAt:         src.DueAt.Add(shift),
			CompletedBy:   []string{},
			RemindersSent: map[string]bool{},
		})
	}

	successor := &models.Task{
		ID:         newID,
		Title:      task.Title,
		OwnerID:    task.OwnerID,
		CreatedBy:  task.CreatedBy,
		Priority:   task.Priority,
		Frequency:  task.Frequency,
		Status:     models.TaskStatusActive,
		Assignment: task.Assignment,
		Subtasks:   subtasks,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if due := earliestDue(subtasks); due != nil {
		successor.NextDue = due
	}

	return successor, nil
}

func earliestDue(subtasks []models.Subtask) *time.Time {
	var earliest *time.Time
	for i := range subtasks {
		due := subtasks[i].DueAt
		if earliest == nil || due.Before(*earliest) {
			earliest = &due
		}
	}
	return earliest
}
