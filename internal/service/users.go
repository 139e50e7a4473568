package service

import (
	"context"
	"fmt"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/policy"
)

const (
	DefaultUserLimit = 50
	DefaultUserSkip  = 0
)

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) List(ctx context.Context, user *domain.User, limit, skip int64) ([]*domain.User, error) {
	users, err := s.store.FindUsers(ctx, policy.UserVisibility(user), skip, limit)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}
