package controllers

import (
	"net/http"

	"duet-server/internal/logics"
	"duet-server/internal/models"

	"github.com/labstack/echo/v4"
)

// NoteController handles HTTP requests for shared notes.
type NoteController struct {
	noteService *logics.NoteService
}

func NewNoteController(noteService *logics.NoteService) *NoteController {
	return &NoteController{noteService: noteService}
}

// CreateNote handles POST /notes
func (nc *NoteController) CreateNote(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var input logics.CreateNoteInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	note, err := nc.noteService.CreateNote(c.Request().Context(), userID, input)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

// GetNote handles GET /notes/:id
func (nc *NoteController) GetNote(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	noteID := c.Param("id")
	if noteID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "note id is required"})
	}

	note, err := nc.noteService.GetNote(c.Request().Context(), userID, noteID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// ListNotes handles GET /notes
func (nc *NoteController) ListNotes(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	notes, err := nc.noteService.ListNotes(c.Request().Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, notes)
}

// UpdateNote handles PUT /notes/:id
func (nc *NoteController) UpdateNote(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	noteID := c.Param("id")
	if noteID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "note id is required"})
	}

	var updates models.NoteUpdate
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	note, err := nc.noteService.UpdateNote(c.Request().Context(), userID, noteID, updates)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/:id
func (nc *NoteController) DeleteNote(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	noteID := c.Param("id")
	if noteID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "note id is required"})
	}

	if err := nc.noteService.DeleteNote(c.Request().Context(), userID, noteID); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
