package controllers

import (
	"net/http"

	"duet-server/internal/logics"

	"github.com/labstack/echo/v4"
)

// ListController handles HTTP requests for shared checklists.
type ListController struct {
	listService *logics.ListService
}

func NewListController(listService *logics.ListService) *ListController {
	return &ListController{listService: listService}
}

// CreateList handles POST /lists
func (lc *ListController) CreateList(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	list, err := lc.listService.CreateList(c.Request().Context(), userID, body.Title)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, list)
}

// GetList handles GET /lists/:id
func (lc *ListController) GetList(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	listID := c.Param("id")
	if listID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "list id is required"})
	}

	list, err := lc.listService.GetList(c.Request().Context(), userID, listID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// ListLists handles GET /lists
func (lc *ListController) ListLists(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	lists, err := lc.listService.ListLists(c.Request().Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, lists)
}

// DeleteList handles DELETE /lists/:id
func (lc *ListController) DeleteList(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	listID := c.Param("id")
	if listID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "list id is required"})
	}

	if err := lc.listService.DeleteList(c.Request().Context(), userID, listID); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddItem handles POST /lists/:id/items
// Request body: {"text": "...", "after_item_id": "LI..."} where after_item_id
// is optional and places the new item right after the referenced one.
func (lc *ListController) AddItem(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	listID := c.Param("id")
	if listID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "list id is required"})
	}

	var body struct {
		Text        string `json:"text"`
		AfterItemID string `json:"after_item_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	list, err := lc.listService.AddItem(c.Request().Context(), userID, listID, body.Text, body.AfterItemID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, list)
}

// SetItemChecked handles PUT /lists/:id/items/:itemId/checked
func (lc *ListController) SetItemChecked(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	listID := c.Param("id")
	itemID := c.Param("itemId")
	if listID == "" || itemID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "list id and item id are required"})
	}

	var body struct {
		Checked bool `json:"checked"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	list, err := lc.listService.SetItemChecked(c.Request().Context(), userID, listID, itemID, body.Checked)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// RemoveItem handles DELETE /lists/:id/items/:itemId
func (lc *ListController) RemoveItem(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	listID := c.Param("id")
	itemID := c.Param("itemId")
	if listID == "" || itemID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "list id and item id are required"})
	}

	list, err := lc.listService.RemoveItem(c.Request().Context(), userID, listID, itemID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
