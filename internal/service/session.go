package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingToken   = fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	ErrInvalidToken   = fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	ErrUnknownSubject = fmt.Errorf("%w: session user not found", domain.ErrUnauthenticated)
)

type SessionResolver struct {
	tokens *token.Manager
	users  UserStore
}

func NewSessionResolver(tokens *token.Manager, users UserStore) *SessionResolver {
	return &SessionResolver{
		tokens: tokens,
		users:  users,
	}
}

// Resolve 返回令牌对应的当前用户记录。角色总是从存储中重新读取，不信任令牌中的 role。
func (s *SessionResolver) Resolve(ctx context.Context, raw string) (*domain.User, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, ErrInvalidToken
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}

	return user, nil
}
