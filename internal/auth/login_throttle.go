package auth

import (
	"context"
	"strings"
	"time"

	"postauth/internal/cache"
)

const failedLoginKeyPrefix = "login_fail:"

// LoginThrottleInterface defines failed-login bookkeeping.
type LoginThrottleInterface interface {
	Blocked(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

// LoginThrottle locks an email after repeated failures within a fixed window.
type LoginThrottle struct {
	cache       *cache.Client
	maxAttempts int64
	window      time.Duration
}

// Ensure LoginThrottle implements LoginThrottleInterface
var _ LoginThrottleInterface = (*LoginThrottle)(nil)

// NewLoginThrottle creates a throttle. A non-positive maxAttempts disables it.
func NewLoginThrottle(cache *cache.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{cache: cache, maxAttempts: int64(maxAttempts), window: window}
}

func (t *LoginThrottle) key(email string) string {
	return failedLoginKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Blocked reports whether the email has reached the failure limit.
func (t *LoginThrottle) Blocked(ctx context.Context, email string) bool {
	if t == nil || t.maxAttempts <= 0 {
		return false
	}
	n, _ := t.cache.Count(ctx, t.key(email))
	return n >= t.maxAttempts
}

// RecordFailure counts one failed attempt.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	if t == nil || t.maxAttempts <= 0 {
		return
	}
	_, _ = t.cache.Incr(ctx, t.key(email), t.window)
}

// Reset clears the failure count after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil {
		return
	}
	_ = t.cache.Delete(ctx, t.key(email))
}
