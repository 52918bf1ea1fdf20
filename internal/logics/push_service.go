package logics

import (
	"context"
	"fmt"
	"time"

	"duet-server/internal/models"
	"duet-server/internal/utils"
	"duet-server/pkg/messaging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PushService turns an event into notifications: a persisted in-app
// record per recipient, a redis channel publish, and a push-gateway
// dispatch. Everything here is best-effort; failures are logged and never
// propagate to the caller's state changes.
type PushService struct {
	users         UserStore
	notifications NotificationStore
	dispatcher    PushDispatcher
	publisher     messaging.Publisher
	channel       string
	logger        *zap.Logger
}

// NewPushService creates a new PushService.
func NewPushService(users UserStore, notifications NotificationStore, dispatcher PushDispatcher, publisher messaging.Publisher, channel string, logger *zap.Logger) *PushService {
	return &PushService{
		users:         users,
		notifications: notifications,
		dispatcher:    dispatcher,
		publisher:     publisher,
		channel:       channel,
		logger:        logger,
	}
}

// Notify fans an event out to the given users. It has no error return:
// push is outside the consistency boundary.
func (s *PushService) Notify(ctx context.Context, userIDs []string, event PushEvent, params MessageParams, data map[string]string) {
	if len(userIDs) == 0 {
		return
	}

	content, err := BuildMessage(event, params)
	if err != nil {
		s.logger.Error("push: failed to build message", zap.String("event", string(event)), zap.Error(err))
		return
	}

	groupID := uuid.NewString()

	var tokens []string
	for _, userID := range userIDs {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			s.logger.Warn("push: failed to resolve recipient",
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		tokens = append(tokens, user.PushTokens...)

		s.storeAndPublish(ctx, userID, event, content, data)
	}

	if len(tokens) == 0 {
		return
	}

	if err := s.dispatcher.SendPush(ctx, tokens, content.Title, content.Body, data, userIDs, groupID); err != nil {
		s.logger.Warn("push: gateway dispatch failed",
			zap.String("event", string(event)),
			zap.String("group_id", groupID),
			zap.Error(err))
	}
}

func (s *PushService) storeAndPublish(ctx context.Context, userID string, event PushEvent, content PushContent, data map[string]string) {
	id, err := utils.GenerateUniqueID("NF")
	if err != nil {
		s.logger.Warn("push: failed to generate notification id", zap.Error(err))
		return
	}

	notification := &models.Notification{
		ID:        id,
		UserID:    userID,
		Type:      string(event),
		Title:     content.Title,
		Body:      content.Body,
		Data:      data,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if err := s.notifications.Insert(ctx, notification); err != nil {
		s.logger.Warn("push: failed to store notification",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	if s.publisher != nil {
		userChannel := fmt.Sprintf("%s:%s", s.channel, userID)
		if err := s.publisher.Publish(ctx, userChannel, notification); err != nil {
			s.logger.Warn("push: failed to publish notification",
				zap.String("channel", userChannel),
				zap.Error(err))
		}
	}
}
