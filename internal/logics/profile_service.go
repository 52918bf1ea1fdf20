package logics

import (
	"context"
	"fmt"
	"strings"

	"duet-server/internal/models"
	"duet-server/internal/repositories"
	"duet-server/internal/utils"
	apperrors "duet-server/pkg/errors"

	"go.uber.org/zap"
)

// ProfileCache is a request-scoped user cache. It is created per request and
// passed down explicitly, so nothing leaks across requests.
type ProfileCache struct {
	users map[string]*models.User
}

// NewProfileCache creates an empty per-request cache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{users: map[string]*models.User{}}
}

// ProfileService manages user profiles and partner linking.
type ProfileService struct {
	users   *repositories.UserRepository
	email   *utils.EmailService
	push    *PushService
	baseURL string
	logger  *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users *repositories.UserRepository, email *utils.EmailService, push *PushService, baseURL string, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		users:   users,
		email:   email,
		push:    push,
		baseURL: baseURL,
		logger:  logger,
	}
}

// GetUser loads a user through the request cache.
func (ps *ProfileService) GetUser(ctx context.Context, cache *ProfileCache, userID string) (*models.User, error) {
	if cache != nil {
		if user, ok := cache.users[userID]; ok {
			return user, nil
		}
	}

	user, err := ps.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "user not found", err)
	}
	if cache != nil {
		cache.users[userID] = user
	}
	return user, nil
}

// GetOwnerAndPartner loads the user and, when linked, their partner.
// The partner is nil for unlinked users.
func (ps *ProfileService) GetOwnerAndPartner(ctx context.Context, cache *ProfileCache, userID string) (*models.User, *models.User, error) {
	owner, err := ps.GetUser(ctx, cache, userID)
	if err != nil {
		return nil, nil, err
	}
	if !owner.HasPartner() {
		return owner, nil, nil
	}

	partner, err := ps.GetUser(ctx, cache, owner.PartnerUserID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to resolve partner")
	}
	return owner, partner, nil
}

// UpdateProfile applies a partial update to the user's own profile.
func (ps *ProfileService) UpdateProfile(ctx context.Context, userID string, updates models.UserUpdate) (*models.User, error) {
	user, err := ps.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "user not found", err)
	}

	if updates.Name != nil && *updates.Name != "" {
		user.Name = *updates.Name
	}
	if updates.PushTokens != nil {
		user.PushTokens = updates.PushTokens
	}

	if err := ps.users.Save(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, "failed to update profile")
	}
	return user, nil
}

// RegisterPushToken adds a device push token to the user, de-duplicated.
func (ps *ProfileService) RegisterPushToken(ctx context.Context, userID, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "push token is required", nil)
	}

	user, err := ps.users.FindByID(ctx, userID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "user not found", err)
	}
	for _, existing := range user.PushTokens {
		if existing == token {
			return nil
		}
	}
	user.PushTokens = append(user.PushTokens, token)

	if err := ps.users.Save(ctx, user); err != nil {
		return apperrors.Wrap(err, "failed to register push token")
	}
	return nil
}

// InvitePartner emails a partner invitation on behalf of the user.
func (ps *ProfileService) InvitePartner(ctx context.Context, userID, email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "email is required", nil)
	}

	inviter, err := ps.users.FindByID(ctx, userID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "user not found", err)
	}
	if inviter.HasPartner() {
		return apperrors.NewAppError(apperrors.ErrConflict, "you are already linked to a partner", nil)
	}

	inviteLink := fmt.Sprintf("%s/invite?from=%s", ps.baseURL, inviter.ID)
	body := ps.email.GeneratePartnerInviteHTML(inviter.Name, inviteLink)
	if err := ps.email.SendEmail(email, fmt.Sprintf("%s invited you to Duet", inviter.Name), body); err != nil {
		return apperrors.Wrap(err, "failed to send invitation email")
	}
	return nil
}

// AcceptInvite links the accepting user with the inviter, mutually. Both
// sides must be unlinked.
func (ps *ProfileService) AcceptInvite(ctx context.Context, userID, inviterID string) error {
	if userID == inviterID {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "cannot link to yourself", nil)
	}

	user, err := ps.users.FindByID(ctx, userID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "user not found", err)
	}
	inviter, err := ps.users.FindByID(ctx, inviterID)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "inviter not found", err)
	}
	if user.HasPartner() || inviter.HasPartner() {
		return apperrors.NewAppError(apperrors.ErrConflict, "one of the accounts is already linked", nil)
	}

	if err := ps.users.LinkPartners(ctx, user.ID, inviter.ID); err != nil {
		return apperrors.Wrap(err, "failed to link partners")
	}

	if ps.push != nil {
		ps.push.Notify(ctx, []string{inviter.ID}, EventPartnerLinked,
			MessageParams{ActorName: user.Name},
			map[string]string{"type": string(EventPartnerLinked), "partner_id": user.ID})
	}
	return nil
}
