// Package token 负责签发与校验会话令牌。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// Claims 中的 Role 仅供客户端参考，服务端鉴权时总是重新读取用户记录
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
	now      func() time.Time
}

func NewManager(secret, algorithm string, lifetime time.Duration) (*Manager, error) {
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	return &Manager{
		secret:   []byte(secret),
		method:   method,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

func (m *Manager) Issue(subject string, role domain.Role) (string, time.Time, error) {
	now := m.now()
	expiration := now.Add(m.lifetime)

	token := jwt.NewWithClaims(m.method, Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   subject,
		},
	})
	ss, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return ss, expiration, nil
}

func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
