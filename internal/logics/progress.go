package logics

import "duet-server/internal/models"

// ComputeTaskStatus derives a task's overall status from its subtasks.
//
//   - no subtasks: Active
//   - all subtasks completed: Completed
//   - all subtasks terminal with at least one expired: Expired
//   - anything still pending or partially complete: Active
//
// All-completed wins over the expired rule: a task whose subtasks are all
// completed is Completed even though "all terminal" also holds. The
// function never mutates its input.
func ComputeTaskStatus(subtasks []models.Subtask) models.TaskStatus {
	if len(subtasks) == 0 {
		return models.TaskStatusActive
	}

	allCompleted := true
	allTerminal := true
	anyExpired := false

	for i := range subtasks {
		switch subtasks[i].Status {
		case models.SubtaskStatusCompleted:
		case models.SubtaskStatusExpired:
			allCompleted = false
			anyExpired = true
		default:
			allCompleted = false
			allTerminal = false
		}
	}

	if allCompleted {
		return models.TaskStatusCompleted
	}
	if allTerminal && anyExpired {
		return models.TaskStatusExpired
	}
	return models.TaskStatusActive
}
