package repositories

import (
	"context"
	"fmt"
	"time"

	"duet-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepository provides persistence for tasks over the tasks collection.
type TaskRepository struct {
	col *mongo.Collection
}

// NewTaskRepository creates a TaskRepository bound to the shared database.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{col: DBS.MongoDB.Collection("tasks")}
}

// FindByID loads a single task.
func (r *TaskRepository) FindByID(ctx context.Context, taskID string) (*models.Task, error) {
	var task models.Task
	err := r.col.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task with id %s not found", taskID)
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &task, nil
}

// FindByStatus loads all tasks matching the given status.
func (r *TaskRepository) FindByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	cursor, err := r.col.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by status: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// FindActiveTemplated loads tasks carrying an active, non-one-time
// recurrence template.
func (r *TaskRepository) FindActiveTemplated(ctx context.Context) ([]models.Task, error) {
	filter := bson.M{
		"template.active": true,
		"template.kind":   bson.M{"$ne": models.RecurrenceOneTime},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query templated tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// FindNearDue loads tasks whose cached next_due falls in (now, now+window].
func (r *TaskRepository) FindNearDue(ctx context.Context, now time.Time, window time.Duration) ([]models.Task, error) {
	filter := bson.M{
		"next_due": bson.M{"$gt": now, "$lte": now.Add(window)},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query near-due tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// FindForCouple lists tasks owned by either member, soonest next_due first.
func (r *TaskRepository) FindForCouple(ctx context.Context, userIDs []string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "next_due", Value: 1}, {Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": bson.M{"$in": userIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// Insert stores a new task document.
func (r *TaskRepository) Insert(ctx context.Context, task *models.Task) error {
	if _, err := r.col.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Save replaces the whole task document.
func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task document.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("task with id %s not found", taskID)
	}
	return nil
}

// AddSubtaskCompletedBy atomically adds userID to the subtask's
// completed_by set. $addToSet keeps concurrent acknowledgements from
// losing updates.
func (r *TaskRepository) AddSubtaskCompletedBy(ctx context.Context, taskID, subtaskID, userID string) error {
	filter := bson.M{"_id": taskID}
	update := bson.M{"$addToSet": bson.M{"subtasks.$[st].completed_by": userID}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"st.id": subtaskID}},
	})

	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to add completed_by entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("task with id %s not found", taskID)
	}
	return nil
}

// UpdateSubtaskStatus writes the derived status fields of one subtask and
// the aggregated task status with a targeted $set. completed_by is never
// touched here (membership goes through AddSubtaskCompletedBy /
// PullSubtaskCompletedBy) unless the update explicitly resets it, so a
// concurrent acknowledgement from the other member survives this write.
// Returns the task status the document had before the update.
func (r *TaskRepository) UpdateSubtaskStatus(ctx context.Context, taskID, subtaskID string, upd models.SubtaskStatusUpdate) (models.TaskStatus, error) {
	set := bson.M{
		"subtasks.$[st].status":       upd.Status,
		"subtasks.$[st].completed_at": upd.CompletedAt,
		"subtasks.$[st].updated_by":   upd.UpdatedBy,
		"status":                      upd.TaskStatus,
		"updated_at":                  time.Now(),
	}
	if upd.ResetCompletedBy {
		set["subtasks.$[st].completed_by"] = []string{}
	}

	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"st.id": subtaskID}},
		}).
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"status": 1})

	var before models.Task
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": taskID}, bson.M{"$set": set}, opts).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", fmt.Errorf("task with id %s not found", taskID)
		}
		return "", fmt.Errorf("failed to update subtask status: %w", err)
	}
	return before.Status, nil
}

// PullSubtaskCompletedBy atomically removes userID from the subtask's
// completed_by set.
func (r *TaskRepository) PullSubtaskCompletedBy(ctx context.Context, taskID, subtaskID, userID string) error {
	filter := bson.M{"_id": taskID}
	update := bson.M{"$pull": bson.M{"subtasks.$[st].completed_by": userID}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"st.id": subtaskID}},
	})

	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to pull completed_by entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("task with id %s not found", taskID)
	}
	return nil
}
