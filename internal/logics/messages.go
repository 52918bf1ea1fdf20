package logics

import (
	"fmt"

	"duet-server/internal/models"
)

// PushEvent identifies a notification-worthy event kind.
type PushEvent string

const (
	EventSubtaskReminder PushEvent = "subtask_reminder"
	EventUpcomingTask    PushEvent = "upcoming_task"
	EventSubtaskStatus   PushEvent = "subtask_status"
	EventPartnerLinked   PushEvent = "partner_linked"
	EventNewComment      PushEvent = "new_comment"
)

// MessageParams carries the values message builders interpolate.
type MessageParams struct {
	TaskTitle    string
	SubtaskTitle string
	ActorName    string
	MinutesLeft  int
	NewStatus    models.SubtaskStatus
}

// PushContent is a rendered notification message.
type PushContent struct {
	Title string
	Body  string
}

// messageBuilders maps each event kind to a pure content builder,
// decoupled from dispatch.
var messageBuilders = map[PushEvent]func(MessageParams) PushContent{
	EventSubtaskReminder: func(p MessageParams) PushContent {
		return PushContent{
			Title: p.TaskTitle,
			Body:  fmt.Sprintf("\"%s\" is due in %s.", p.SubtaskTitle, humanMinutes(p.MinutesLeft)),
		}
	},
	EventUpcomingTask: func(p MessageParams) PushContent {
		return PushContent{
			Title: "Coming up",
			Body:  fmt.Sprintf("\"%s\" is due in %s.", p.TaskTitle, humanMinutes(p.MinutesLeft)),
		}
	},
	EventSubtaskStatus: func(p MessageParams) PushContent {
		return PushContent{
			Title: p.TaskTitle,
			Body:  fmt.Sprintf("%s %s \"%s\".", p.ActorName, statusVerb(p.NewStatus), p.SubtaskTitle),
		}
	},
	EventPartnerLinked: func(p MessageParams) PushContent {
		return PushContent{
			Title: "You are connected",
			Body:  fmt.Sprintf("%s linked their account with yours.", p.ActorName),
		}
	},
	EventNewComment: func(p MessageParams) PushContent {
		return PushContent{
			Title: p.TaskTitle,
			Body:  fmt.Sprintf("%s left a comment.", p.ActorName),
		}
	},
}

// BuildMessage renders the content for an event.
func BuildMessage(event PushEvent, params MessageParams) (PushContent, error) {
	builder, ok := messageBuilders[event]
	if !ok {
		return PushContent{}, fmt.Errorf("no message builder for event %q", event)
	}
	return builder(params), nil
}

func humanMinutes(minutes int) string {
	if minutes >= 60 && minutes%60 == 0 {
		hours := minutes / 60
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func statusVerb(status models.SubtaskStatus) string {
	switch status {
	case models.SubtaskStatusCompleted:
		return "completed"
	case models.SubtaskStatusPartiallyComplete:
		return "checked off their part of"
	default:
		return "reopened"
	}
}
