package repository

import (
	"context"
	"time"

	"github.com/taskflow-dev/taskflow/backend/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

type Repository struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewRepository(cfg *config.Config, db *mongo.Database) *Repository {
	return &Repository{
		cfg: cfg,
		db:  db,
	}
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

// EnsureIndexes 创建邮箱唯一索引以及任务按负责人查询所需的索引
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	}); err != nil {
		return err
	}

	if _, err := r.db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "assigned_to", Value: 1}},
		Options: options.Index().SetName("tasks_assigned_to_idx"),
	}); err != nil {
		return err
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.db.Client().Ping(ctx, nil)
}
