package controllers

import (
	"net/http"

	"duet-server/internal/logics"
	"duet-server/internal/models"

	"github.com/labstack/echo/v4"
)

// TaskController handles HTTP requests for tasks and subtasks.
type TaskController struct {
	taskService       *logics.TaskService
	completionService *logics.CompletionService
}

// NewTaskController returns a new TaskController.
func NewTaskController(taskService *logics.TaskService, completionService *logics.CompletionService) *TaskController {
	return &TaskController{
		taskService:       taskService,
		completionService: completionService,
	}
}

// CreateTask handles POST /tasks
func (tc *TaskController) CreateTask(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var input logics.CreateTaskInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	task, err := tc.taskService.CreateTask(c.Request().Context(), userID, input)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// GetTask handles GET /tasks/:id
func (tc *TaskController) GetTask(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id is required"})
	}

	task, err := tc.taskService.GetTask(c.Request().Context(), userID, taskID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// ListTasks handles GET /tasks
func (tc *TaskController) ListTasks(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	tasks, err := tc.taskService.ListTasks(c.Request().Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// UpdateTask handles PUT /tasks/:id
func (tc *TaskController) UpdateTask(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id is required"})
	}

	var updates models.TaskUpdate
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	task, err := tc.taskService.UpdateTask(c.Request().Context(), userID, taskID, updates)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// SetTemplate handles PUT /tasks/:id/template
func (tc *TaskController) SetTemplate(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id is required"})
	}

	var tmpl models.RecurrenceTemplate
	if err := c.Bind(&tmpl); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	task, err := tc.taskService.SetTemplate(c.Request().Context(), userID, taskID, &tmpl)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/:id
func (tc *TaskController) DeleteTask(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id is required"})
	}

	if err := tc.taskService.DeleteTask(c.Request().Context(), userID, taskID); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddSubtask handles POST /tasks/:id/subtasks
func (tc *TaskController) AddSubtask(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id is required"})
	}

	var input logics.SubtaskInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	task, err := tc.taskService.AddSubtask(c.Request().Context(), userID, taskID, input)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// UpdateSubtask handles PUT /tasks/:id/subtasks/:subtaskId
func (tc *TaskController) UpdateSubtask(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	subtaskID := c.Param("subtaskId")
	if taskID == "" || subtaskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id and subtask id are required"})
	}

	var input logics.SubtaskInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	task, err := tc.taskService.UpdateSubtask(c.Request().Context(), userID, taskID, subtaskID, input)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteSubtask handles DELETE /tasks/:id/subtasks/:subtaskId
func (tc *TaskController) DeleteSubtask(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	subtaskID := c.Param("subtaskId")
	if taskID == "" || subtaskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id and subtask id are required"})
	}

	task, err := tc.taskService.DeleteSubtask(c.Request().Context(), userID, taskID, subtaskID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// SetSubtaskStatus handles PUT /tasks/:id/subtasks/:subtaskId/status
// Request body: {"status": "completed"} or {"status": "pending"}.
func (tc *TaskController) SetSubtaskStatus(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	subtaskID := c.Param("subtaskId")
	if taskID == "" || subtaskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id and subtask id are required"})
	}

	var body struct {
		Status models.SubtaskStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	task, err := tc.completionService.SetSubtaskStatus(c.Request().Context(), taskID, subtaskID, userID, body.Status)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, task)
}
