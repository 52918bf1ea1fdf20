package models

import "time"

// TaskStatus is derived from subtask statuses, never set directly by callers.
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusExpired   TaskStatus = "expired"
)

// SubtaskStatus is the lifecycle state of a single subtask.
type SubtaskStatus string

const (
	SubtaskStatusPending           SubtaskStatus = "pending"
	SubtaskStatusPartiallyComplete SubtaskStatus = "partially_complete"
	SubtaskStatusCompleted         SubtaskStatus = "completed"
	SubtaskStatusExpired           SubtaskStatus = "expired"
)

// Terminal reports whether the status admits no further time-driven transition.
func (s SubtaskStatus) Terminal() bool {
	return s == SubtaskStatusCompleted || s == SubtaskStatusExpired
}

// Assignment describes who a subtask (or task by default) is assigned to.
type Assignment string

const (
	AssignmentMe      Assignment = "me"
	AssignmentPartner Assignment = "partner"
	AssignmentBoth    Assignment = "both"
)

// Frequency is the legacy per-task regeneration mode.
type Frequency string

const (
	FrequencyOnce   Frequency = "once"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// RecurrenceKind selects how template instances are scheduled.
type RecurrenceKind string

const (
	RecurrenceOneTime  RecurrenceKind = "one_time"
	RecurrenceDaily    RecurrenceKind = "daily"
	RecurrenceWeekly   RecurrenceKind = "weekly"
	RecurrenceMonthly  RecurrenceKind = "monthly"
	RecurrenceUntilOff RecurrenceKind = "until_off"
)

// Subtask is a single work item embedded in a task or instance.
//
// CompletedBy records every user who has individually acknowledged
// completion; it only drives status under "both" assignment but is kept
// for audit in all modes. RemindersSent keys are threshold labels
// ("180", "60", "20"); a key set true is permanent for the life of the
// subtask, reminders are never re-sent even across reopen transitions.
type Subtask struct {
	ID            string          `bson:"id" json:"id"`
	Title         string          `bson:"title" json:"title"`
	Status        SubtaskStatus   `bson:"status" json:"status"`
	Assignment    Assignment      `bson:"assignment,omitempty" json:"assignment,omitempty"` // empty inherits the task default
	DueAt         time.Time       `bson:"due_at" json:"due_at"`
	CompletedAt   *time.Time      `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CompletedBy   []string        `bson:"completed_by" json:"completed_by"`
	RemindersSent map[string]bool `bson:"reminders_sent" json:"reminders_sent"`
	UpdatedBy     string          `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// HasCompletedBy reports whether userID already acknowledged this subtask.
func (s *Subtask) HasCompletedBy(userID string) bool {
	for _, id := range s.CompletedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// SubtaskStatusUpdate is the targeted write the completion flow persists
// after the atomic completed_by membership operations: only the derived
// fields of one subtask plus the aggregated task status, so it cannot
// overwrite membership entries written concurrently by the other member.
type SubtaskStatusUpdate struct {
	Status           SubtaskStatus
	CompletedAt      *time.Time
	UpdatedBy        string
	ResetCompletedBy bool
	TaskStatus       TaskStatus
}

// SubtaskBlueprint seeds the subtasks of each new template instance.
type SubtaskBlueprint struct {
	Title      string     `bson:"title" json:"title"`
	Assignment Assignment `bson:"assignment,omitempty" json:"assignment,omitempty"`
}

// RecurrenceTemplate is the recurrence blueprint attached to a task.
type RecurrenceTemplate struct {
	Kind            RecurrenceKind     `bson:"kind" json:"kind"`
	DefaultTimeHHMM string             `bson:"default_time" json:"default_time"` // "HH:MM", 24h
	Active          bool               `bson:"active" json:"active"`
	Blueprints      []SubtaskBlueprint `bson:"blueprints" json:"blueprints"`
}

// TaskInstance is one materialized occurrence generated from a template.
// Instances are created only by the template scheduler and are retained
// for history, never deleted automatically.
type TaskInstance struct {
	ID        string        `bson:"id" json:"id"`
	DueAt     time.Time     `bson:"due_at" json:"due_at"`
	Status    SubtaskStatus `bson:"status" json:"status"`
	Subtasks  []Subtask     `bson:"subtasks" json:"subtasks"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// Task is the top-level shared work document.
type Task struct {
	ID         string              `bson:"_id" json:"id"`
	Title      string              `bson:"title" json:"title"`
	OwnerID    string              `bson:"owner_id" json:"owner_id"`
	CreatedBy  string              `bson:"created_by" json:"created_by"`
	Priority   int                 `bson:"priority" json:"priority"`
	Frequency  Frequency           `bson:"frequency" json:"frequency"`
	Status     TaskStatus          `bson:"status" json:"status"`
	Assignment Assignment          `bson:"assignment,omitempty" json:"assignment,omitempty"` // task-level default
	Subtasks   []Subtask           `bson:"subtasks" json:"subtasks"`
	Template   *RecurrenceTemplate `bson:"template,omitempty" json:"template,omitempty"`
	Instances  []TaskInstance      `bson:"instances" json:"instances"`

	// NextDue caches the soonest upcoming instance due time, used for
	// sorting and the near-due reminder pass.
	NextDue *time.Time `bson:"next_due,omitempty" json:"next_due,omitempty"`
	// UpcomingPushDue is the NextDue value the last "upcoming" push was
	// sent for; it dedups the near-due pass across ticks.
	UpcomingPushDue *time.Time `bson:"upcoming_push_due,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EffectiveAssignment resolves a subtask's assignment: its own mode if
// set, else the task-level default, else "both".
func (t *Task) EffectiveAssignment(sub *Subtask) Assignment {
	if sub != nil && sub.Assignment != "" {
		return sub.Assignment
	}
	if t.Assignment != "" {
		return t.Assignment
	}
	return AssignmentBoth
}

// FindSubtask returns the embedded subtask with the given id, or nil.
func (t *Task) FindSubtask(subtaskID string) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// TaskUpdate is used for partial updates of a task.
type TaskUpdate struct {
	Title      *string     `json:"title"`
	Priority   *int        `json:"priority"`
	Frequency  *Frequency  `json:"frequency"`
	Assignment *Assignment `json:"assignment"`
}
