// Package memory 提供与 repository.Repository 相同契约的内存实现，用于测试与本地调试。
package memory

import (
	"context"
	"sync"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu        sync.RWMutex
	users     []*domain.User
	tasks     map[primitive.ObjectID]*domain.Task
	taskOrder []primitive.ObjectID
}

func NewStore() *Store {
	return &Store{
		tasks: make(map[primitive.ObjectID]*domain.Task),
	}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}

	user.ID = primitive.NewObjectID()
	s.users = append(s.users, copyUser(user))
	return nil
}

// SetUserRole 直接修改存储中的角色，模拟在系统之外发生的角色变更
func (s *Store) SetUserRole(email string, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			u.Role = role
		}
	}
}

func (s *Store) FindUsers(_ context.Context, filter domain.UserFilter, skip, limit int64) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0)
	var skipped int64
	for _, u := range s.users {
		if !filter.Matches(u) {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if limit > 0 && int64(len(users)) >= limit {
			break
		}
		users = append(users, copyUser(u))
	}
	return users, nil
}

func (s *Store) FindTasks(_ context.Context, filter domain.TaskFilter, limit int64) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, id := range s.taskOrder {
		if limit > 0 && int64(len(tasks)) >= limit {
			break
		}
		if t := s.tasks[id]; filter.Matches(t) {
			tasks = append(tasks, copyTask(t))
		}
	}
	return tasks, nil
}

func (s *Store) GetTaskByID(_ context.Context, id primitive.ObjectID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyTask(t), nil
}

func (s *Store) CreateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = primitive.NewObjectID()
	s.tasks[task.ID] = copyTask(task)
	s.taskOrder = append(s.taskOrder, task.ID)
	return nil
}

func (s *Store) UpdateTask(_ context.Context, id primitive.ObjectID, update domain.TaskUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	update.Apply(t)
	return nil
}

func (s *Store) DeleteTask(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.taskOrder {
		if oid == id {
			s.taskOrder = append(s.taskOrder[:i], s.taskOrder[i+1:]...)
			break
		}
	}
	return nil
}
