package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// LoginRateLimiter throttles credential attempts per client key using a
// fixed one-minute window in Redis. With no Redis configured it allows
// everything, matching how the rest of the stack degrades.
type LoginRateLimiter struct {
	client *redis.Client
	limit  int
}

// NewLoginRateLimiter constructs the limiter.
func NewLoginRateLimiter(client *redis.Client, attemptsPerMinute int) *LoginRateLimiter {
	return &LoginRateLimiter{client: client, limit: attemptsPerMinute}
}

// Allow records an attempt for the key and reports whether it is within the
// window budget.
func (l *LoginRateLimiter) Allow(ctx context.Context, key string) error {
	if l == nil || l.client == nil || l.limit <= 0 {
		return nil
	}

	bucket := fmt.Sprintf("login_attempts:%s", key)
	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		// Redis being down should not lock everyone out.
		return nil
	}
	if count == 1 {
		l.client.Expire(ctx, bucket, time.Minute)
	}
	if count > int64(l.limit) {
		return apperrors.NewDomainError("RATE_LIMITED", "too many login attempts", 429, nil)
	}
	return nil
}
