// Package service 实现认证、任务与用户相关的业务逻辑，存储通过接口注入。
package service

import (
	"context"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	FindUsers(ctx context.Context, filter domain.UserFilter, skip, limit int64) ([]*domain.User, error)
}

type TaskStore interface {
	FindTasks(ctx context.Context, filter domain.TaskFilter, limit int64) ([]*domain.Task, error)
	GetTaskByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error)
	CreateTask(ctx context.Context, task *domain.Task) error
	UpdateTask(ctx context.Context, id primitive.ObjectID, update domain.TaskUpdate) error
	DeleteTask(ctx context.Context, id primitive.ObjectID) error
}

type Notifier interface {
	TaskAssigned(ctx context.Context, task *domain.Task, assignedBy string) error
}

type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
