package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/policy"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxTaskPage 是任务列表一次返回的最大条数，列表不支持游标
const MaxTaskPage = 100

type TaskService struct {
	store    TaskStore
	notifier Notifier
}

// NewTaskService 中 notifier 可以为 nil，此时不发送分配通知
func NewTaskService(store TaskStore, notifier Notifier) *TaskService {
	return &TaskService{
		store:    store,
		notifier: notifier,
	}
}

func (s *TaskService) Create(ctx context.Context, admin *domain.User, draft domain.TaskDraft) (*domain.Task, error) {
	if !policy.CanCreateTask(admin) {
		return nil, domain.ErrForbidden
	}
	if err := policy.ValidateCreate(admin, draft); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       draft.Title,
		Priority:    draft.Priority,
		Status:      draft.Status,
		Description: draft.Description,
		AssignedTo:  draft.AssignedTo,
		CreatedBy:   admin.Email,
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.notifyAssigned(ctx, task, admin.Email)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, user *domain.User) ([]*domain.Task, error) {
	tasks, err := s.store.FindTasks(ctx, policy.TaskVisibility(user), MaxTaskPage)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, user *domain.User, taskID string, update domain.TaskUpdate) error {
	task, err := s.get(ctx, taskID)
	if err != nil {
		return err
	}

	if !policy.CanUpdateTask(user, task) {
		return domain.ErrForbidden
	}
	if err := policy.ValidateUpdate(user, update); err != nil {
		return err
	}

	// 没有版本校验，并发修改以最后一次写入为准
	if err := s.store.UpdateTask(ctx, task.ID, update); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if assignee, ok := update.AssignedTo.Get(); ok && assignee != task.AssignedTo {
		update.Apply(task)
		s.notifyAssigned(ctx, task, user.Email)
	}
	return nil
}

// Delete 不做权限检查，调用方需要先确认当前用户是管理员
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	task, err := s.get(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// get 将无法解析的 ID 也视为不存在
func (s *TaskService) get(ctx context.Context, taskID string) (*domain.Task, error) {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	task, err := s.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *TaskService) notifyAssigned(ctx context.Context, task *domain.Task, assignedBy string) {
	if s.notifier == nil {
		return
	}
	// 任务已经写入，通知失败只记录日志
	if err := s.notifier.TaskAssigned(ctx, task, assignedBy); err != nil {
		slog.Warn("无法发送任务分配通知", "task", task.ID.Hex(), "to", task.AssignedTo, "error", err)
	}
}
