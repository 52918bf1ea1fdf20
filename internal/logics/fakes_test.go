package logics

import (
	"context"
	"fmt"
	"time"

	"duet-server/internal/models"

	"go.uber.org/zap"
)

// callLog records the order of side effects across fakes so tests can
// assert persistence happens before dispatch.
type callLog struct {
	entries []string
}

func (l *callLog) add(entry string) {
	if l != nil {
		l.entries = append(l.entries, entry)
	}
}

type fakeTaskStore struct {
	tasks    map[string]*models.Task
	inserted []*models.Task
	log      *callLog
	failFind bool

	// onCompletedByAdd, when set, runs against the stored documents during
	// AddSubtaskCompletedBy, standing in for a write from the other member
	// landing between this caller's read and its own writes.
	onCompletedByAdd func()
}

func newFakeTaskStore(tasks ...*models.Task) *fakeTaskStore {
	store := &fakeTaskStore{tasks: map[string]*models.Task{}}
	for _, t := range tasks {
		store.tasks[t.ID] = t
	}
	return store
}

// cloneTask mimics a driver decode: callers get their own copy and stale
// copies stay stale until written back.
func cloneTask(t *models.Task) *models.Task {
	copied := *t
	copied.Subtasks = append([]models.Subtask(nil), t.Subtasks...)
	for i := range copied.Subtasks {
		copied.Subtasks[i].CompletedBy = append([]string(nil), t.Subtasks[i].CompletedBy...)
	}
	return &copied
}

func (f *fakeTaskStore) FindByID(ctx context.Context, taskID string) (*models.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("task with id %s not found", taskID)
	}
	return cloneTask(task), nil
}

func (f *fakeTaskStore) FindByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	if f.failFind {
		return nil, fmt.Errorf("store unavailable")
	}
	var out []models.Task
	for _, t := range f.tasks {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) FindActiveTemplated(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.Status != models.TaskStatusActive || t.Template == nil {
			continue
		}
		if !t.Template.Active || t.Template.Kind == models.RecurrenceOneTime {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTaskStore) FindNearDue(ctx context.Context, now time.Time, window time.Duration) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.Status != models.TaskStatusActive || t.NextDue == nil {
			continue
		}
		if t.NextDue.After(now) && !t.NextDue.After(now.Add(window)) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) FindForCouple(ctx context.Context, userIDs []string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		for _, id := range userIDs {
			if t.OwnerID == id {
				out = append(out, *t)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTaskStore) Insert(ctx context.Context, task *models.Task) error {
	f.tasks[task.ID] = task
	f.inserted = append(f.inserted, task)
	f.log.add("insert:" + task.ID)
	return nil
}

func (f *fakeTaskStore) Save(ctx context.Context, task *models.Task) error {
	copied := *task
	f.tasks[task.ID] = &copied
	f.log.add("save:" + task.ID)
	return nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, taskID string) error {
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeTaskStore) AddSubtaskCompletedBy(ctx context.Context, taskID, subtaskID, userID string) error {
	if f.onCompletedByAdd != nil {
		f.onCompletedByAdd()
	}
	task, ok := f.tasks[taskID]
	if !ok {
		return fmt.Errorf("task with id %s not found", taskID)
	}
	sub := task.FindSubtask(subtaskID)
	if sub == nil {
		return fmt.Errorf("subtask with id %s not found", subtaskID)
	}
	if !sub.HasCompletedBy(userID) {
		sub.CompletedBy = append(sub.CompletedBy, userID)
	}
	return nil
}

func (f *fakeTaskStore) PullSubtaskCompletedBy(ctx context.Context, taskID, subtaskID, userID string) error {
	task, ok := f.tasks[taskID]
	if !ok {
		return fmt.Errorf("task with id %s not found", taskID)
	}
	sub := task.FindSubtask(subtaskID)
	if sub == nil {
		return fmt.Errorf("subtask with id %s not found", subtaskID)
	}
	remaining := sub.CompletedBy[:0:0]
	for _, id := range sub.CompletedBy {
		if id != userID {
			remaining = append(remaining, id)
		}
	}
	sub.CompletedBy = remaining
	return nil
}

func (f *fakeTaskStore) UpdateSubtaskStatus(ctx context.Context, taskID, subtaskID string, upd models.SubtaskStatusUpdate) (models.TaskStatus, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return "", fmt.Errorf("task with id %s not found", taskID)
	}
	sub := task.FindSubtask(subtaskID)
	if sub == nil {
		return "", fmt.Errorf("subtask with id %s not found", subtaskID)
	}
	prev := task.Status
	sub.Status = upd.Status
	sub.CompletedAt = upd.CompletedAt
	sub.UpdatedBy = upd.UpdatedBy
	if upd.ResetCompletedBy {
		sub.CompletedBy = []string{}
	}
	task.Status = upd.TaskStatus
	f.log.add("save:" + taskID)
	return prev, nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	store := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (f *fakeUserStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("user with id %s not found", userID)
	}
	return user, nil
}

type fakeNotificationStore struct {
	stored []*models.Notification
}

func (f *fakeNotificationStore) Insert(ctx context.Context, notification *models.Notification) error {
	f.stored = append(f.stored, notification)
	return nil
}

type pushCall struct {
	tokens  []string
	title   string
	body    string
	data    map[string]string
	userIDs []string
}

type fakeDispatcher struct {
	calls []pushCall
	log   *callLog
	err   error
}

func (f *fakeDispatcher) SendPush(ctx context.Context, tokens []string, title, body string, data map[string]string, userIDs []string, groupID string) error {
	f.calls = append(f.calls, pushCall{
		tokens:  tokens,
		title:   title,
		body:    body,
		data:    data,
		userIDs: userIDs,
	})
	f.log.add("push")
	return f.err
}

type fakePublisher struct {
	channels []string
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	f.channels = append(f.channels, channel)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// newTestPushService wires a PushService over fakes sharing the call log.
func newTestPushService(users UserStore, log *callLog) (*PushService, *fakeDispatcher, *fakeNotificationStore) {
	dispatcher := &fakeDispatcher{log: log}
	notifications := &fakeNotificationStore{}
	push := NewPushService(users, notifications, dispatcher, &fakePublisher{}, "notifications", zap.NewNop())
	return push, dispatcher, notifications
}

func timePtr(t time.Time) *time.Time { return &t }

func coupleUsers() (*models.User, *models.User) {
	owner := &models.User{
		ID:            "US01OWNER0001",
		Email:         "ha@example.com",
		Name:          "Ha-eun",
		PartnerUserID: "US01PARTNER01",
		PushTokens:    []string{"token-owner"},
	}
	partner := &models.User{
		ID:            "US01PARTNER01",
		Email:         "min@example.com",
		Name:          "Min-jun",
		PartnerUserID: "US01OWNER0001",
		PushTokens:    []string{"token-partner"},
	}
	return owner, partner
}
