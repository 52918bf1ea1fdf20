package controllers

import (
	"net/http"

	"duet-server/internal/logics"
	"duet-server/internal/models"

	"github.com/labstack/echo/v4"
)

// ProfileController handles HTTP requests for user profiles and pairing.
type ProfileController struct {
	profileService *logics.ProfileService
}

func NewProfileController(profileService *logics.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetMe handles GET /me and returns the user together with their partner.
func (pc *ProfileController) GetMe(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	cache := logics.NewProfileCache()
	me, partner, err := pc.profileService.GetOwnerAndPartner(c.Request().Context(), cache, userID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"me":      me,
		"partner": partner,
	})
}

// UpdateMe handles PUT /me
func (pc *ProfileController) UpdateMe(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var updates models.UserUpdate
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := pc.profileService.UpdateProfile(c.Request().Context(), userID, updates)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// RegisterPushToken handles POST /me/push-tokens
func (pc *ProfileController) RegisterPushToken(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := pc.profileService.RegisterPushToken(c.Request().Context(), userID, body.Token); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// InvitePartner handles POST /me/partner/invite
func (pc *ProfileController) InvitePartner(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := pc.profileService.InvitePartner(c.Request().Context(), userID, body.Email); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "invitation sent"})
}

// AcceptInvite handles POST /me/partner/accept
func (pc *ProfileController) AcceptInvite(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var body struct {
		InviterID string `json:"inviter_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := pc.profileService.AcceptInvite(c.Request().Context(), userID, body.InviterID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "accounts linked"})
}
