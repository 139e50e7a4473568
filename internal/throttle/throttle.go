// Package throttle 记录每个邮箱的登录失败次数，超过上限后在窗口期内拒绝登录。
package throttle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Throttle struct {
	rdb         *redis.Client
	maxAttempts int64
	window      time.Duration
}

func New(rdb *redis.Client, maxAttempts int, window time.Duration) *Throttle {
	return &Throttle{
		rdb:         rdb,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func key(email string) string {
	return fmt.Sprintf("login_failures_%s", strings.ToLower(email))
}

func (t *Throttle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.rdb.Get(ctx, key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, err
	}

	return n < t.maxAttempts, nil
}

// Fail 记录一次失败，窗口从第一次失败开始计算
func (t *Throttle) Fail(ctx context.Context, email string) error {
	n, err := t.rdb.Incr(ctx, key(email)).Result()
	if err != nil {
		return err
	}

	if n == 1 {
		return t.rdb.Expire(ctx, key(email), t.window).Err()
	}
	return nil
}

func (t *Throttle) Reset(ctx context.Context, email string) error {
	return t.rdb.Del(ctx, key(email)).Err()
}
