package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/token"
	"golang.org/x/crypto/bcrypt"
)

type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users    UserStore
	tokens   *token.Manager
	throttle LoginThrottle
}

// NewAuthService 中 throttle 可以为 nil，此时不限制登录失败次数
func NewAuthService(users UserStore, tokens *token.Manager, throttle LoginThrottle) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		throttle: throttle,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	// 并发注册同一邮箱时由唯一索引兜底，存储会返回 ErrConflict
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, email)
		if err != nil {
			return nil, nil, fmt.Errorf("check login throttle: %w", err)
		}
		if !ok {
			return nil, nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, s.fail(ctx, email, domain.ErrUnknownEmail)
		}
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil, s.fail(ctx, email, domain.ErrInvalidPassword)
		}
		return nil, nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			return nil, nil, fmt.Errorf("reset login throttle: %w", err)
		}
	}

	ss, expiration, err := s.tokens.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}

	return user, &Session{Token: ss, ExpiresAt: expiration}, nil
}

func (s *AuthService) fail(ctx context.Context, email string, cause error) error {
	if s.throttle == nil {
		return cause
	}
	if err := s.throttle.Fail(ctx, email); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return cause
}

// BootstrapAdmin 在指定邮箱不存在时创建初始管理员，返回是否新建
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	if _, err := s.Register(ctx, email, password, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
