package controllers

import (
	"net/http"

	"duet-server/internal/logics"

	"github.com/labstack/echo/v4"
)

// CommentController handles HTTP requests for task comments.
type CommentController struct {
	commentService *logics.CommentService
}

func NewCommentController(commentService *logics.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// AddComment handles POST /tasks/:id/comments
// Request body: {"text": "...", "instance_id": "IN..."} where instance_id is
// optional and attaches the comment to a specific task instance.
func (cc *CommentController) AddComment(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id is required"})
	}

	var body struct {
		Text       string `json:"text"`
		InstanceID string `json:"instance_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	comment, err := cc.commentService.AddComment(c.Request().Context(), userID, taskID, body.InstanceID, body.Text)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /tasks/:id/comments with an optional
// instance_id query parameter.
func (cc *CommentController) ListComments(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	taskID := c.Param("id")
	if taskID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task id is required"})
	}

	comments, err := cc.commentService.ListComments(c.Request().Context(), userID, taskID, c.QueryParam("instance_id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// DeleteComment handles DELETE /comments/:id
func (cc *CommentController) DeleteComment(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	commentID := c.Param("id")
	if commentID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "comment id is required"})
	}

	if err := cc.commentService.DeleteComment(c.Request().Context(), userID, commentID); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
