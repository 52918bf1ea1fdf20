package logics

import (
	"testing"

	"duet-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name          string
		event         PushEvent
		params        MessageParams
		expectedTitle string
		expectedBody  string
	}{
		{
			name:          "reminder in minutes",
			event:         EventSubtaskReminder,
			params:        MessageParams{TaskTitle: "Trip prep", SubtaskTitle: "Pack bags", MinutesLeft: 20},
			expectedTitle: "Trip prep",
			expectedBody:  "\"Pack bags\" is due in 20 minutes.",
		},
		{
			name:          "reminder in whole hours",
			event:         EventSubtaskReminder,
			params:        MessageParams{TaskTitle: "Trip prep", SubtaskTitle: "Pack bags", MinutesLeft: 180},
			expectedTitle: "Trip prep",
			expectedBody:  "\"Pack bags\" is due in 3 hours.",
		},
		{
			name:          "reminder at one hour",
			event:         EventSubtaskReminder,
			params:        MessageParams{TaskTitle: "Trip prep", SubtaskTitle: "Pack bags", MinutesLeft: 60},
			expectedTitle: "Trip prep",
			expectedBody:  "\"Pack bags\" is due in 1 hour.",
		},
		{
			name:          "upcoming task",
			event:         EventUpcomingTask,
			params:        MessageParams{TaskTitle: "Water the plants", MinutesLeft: 15},
			expectedTitle: "Coming up",
			expectedBody:  "\"Water the plants\" is due in 15 minutes.",
		},
		{
			name:          "completed status change",
			event:         EventSubtaskStatus,
			params:        MessageParams{TaskTitle: "Trip prep", SubtaskTitle: "Pack bags", ActorName: "Min-jun", NewStatus: models.SubtaskStatusCompleted},
			expectedTitle: "Trip prep",
			expectedBody:  "Min-jun completed \"Pack bags\".",
		},
		{
			name:          "partial status change",
			event:         EventSubtaskStatus,
			params:        MessageParams{TaskTitle: "Trip prep", SubtaskTitle: "Pack bags", ActorName: "Min-jun", NewStatus: models.SubtaskStatusPartiallyComplete},
			expectedTitle: "Trip prep",
			expectedBody:  "Min-jun checked off their part of \"Pack bags\".",
		},
		{
			name:          "reopen status change",
			event:         EventSubtaskStatus,
			params:        MessageParams{TaskTitle: "Trip prep", SubtaskTitle: "Pack bags", ActorName: "Min-jun", NewStatus: models.SubtaskStatusPending},
			expectedTitle: "Trip prep",
			expectedBody:  "Min-jun reopened \"Pack bags\".",
		},
		{
			name:          "partner linked",
			event:         EventPartnerLinked,
			params:        MessageParams{ActorName: "Ha-eun"},
			expectedTitle: "You are connected",
			expectedBody:  "Ha-eun linked their account with yours.",
		},
		{
			name:          "new comment",
			event:         EventNewComment,
			params:        MessageParams{TaskTitle: "Trip prep", ActorName: "Ha-eun"},
			expectedTitle: "Trip prep",
			expectedBody:  "Ha-eun left a comment.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := BuildMessage(tt.event, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTitle, content.Title)
			assert.Equal(t, tt.expectedBody, content.Body)
		})
	}
}

func TestBuildMessageUnknownEvent(t *testing.T) {
	_, err := BuildMessage(PushEvent("no_such_event"), MessageParams{})
	assert.Error(t, err)
}
