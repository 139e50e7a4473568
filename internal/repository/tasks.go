package repository

import (
	"context"
	"errors"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func taskFilter(f domain.TaskFilter) bson.M {
	if f.Unrestricted() {
		return bson.M{}
	}
	return bson.M{"assigned_to": f.AssignedTo}
}

// setDocument 只包含被提供的字段，未提供的字段保持原值
func setDocument(update domain.TaskUpdate) bson.M {
	set := bson.M{}
	if v, ok := update.Title.Get(); ok {
		set[domain.FieldTitle] = v
	}
	if v, ok := update.Description.Get(); ok {
		set[domain.FieldDescription] = v
	}
	if v, ok := update.Status.Get(); ok {
		set[domain.FieldStatus] = v
	}
	if v, ok := update.Priority.Get(); ok {
		set[domain.FieldPriority] = v
	}
	if v, ok := update.AssignedTo.Get(); ok {
		set[domain.FieldAssignedTo] = v
	}
	return set
}

func (r *Repository) FindTasks(ctx context.Context, filter domain.TaskFilter, limit int64) ([]*domain.Task, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(tasksCollection).Find(ctx, taskFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := make([]*domain.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *Repository) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	task := &domain.Task{}
	if err := r.db.Collection(tasksCollection).FindOne(ctx, bson.M{"_id": id}).Decode(task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return task, nil
}

func (r *Repository) CreateTask(ctx context.Context, task *domain.Task) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.db.Collection(tasksCollection).InsertOne(ctx, task)
	if err != nil {
		return err
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		task.ID = id
	}
	return nil
}

func (r *Repository) UpdateTask(ctx context.Context, id primitive.ObjectID, update domain.TaskUpdate) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.db.Collection(tasksCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": setDocument(update)})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.db.Collection(tasksCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
