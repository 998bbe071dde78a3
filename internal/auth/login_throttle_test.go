package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"postauth/internal/cache"
)

func TestLoginThrottle_BlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	th := NewLoginThrottle(cache.NewMemory(time.Minute), 3, time.Minute)

	for i := 0; i < 2; i++ {
		th.RecordFailure(ctx, "a@x.com")
		assert.False(t, th.Blocked(ctx, "a@x.com"))
	}
	th.RecordFailure(ctx, "A@x.com ")
	assert.True(t, th.Blocked(ctx, "a@x.com"))
	assert.False(t, th.Blocked(ctx, "b@x.com"))
}

func TestLoginThrottle_ResetClearsCount(t *testing.T) {
	ctx := context.Background()
	th := NewLoginThrottle(cache.NewMemory(time.Minute), 2, time.Minute)

	th.RecordFailure(ctx, "a@x.com")
	th.Reset(ctx, "a@x.com")
	th.RecordFailure(ctx, "a@x.com")

	assert.False(t, th.Blocked(ctx, "a@x.com"))
}

func TestLoginThrottle_Disabled(t *testing.T) {
	ctx := context.Background()
	th := NewLoginThrottle(cache.NewMemory(time.Minute), 0, time.Minute)

	for i := 0; i < 10; i++ {
		th.RecordFailure(ctx, "a@x.com")
	}
	assert.False(t, th.Blocked(ctx, "a@x.com"))

	var nilThrottle *LoginThrottle
	assert.False(t, nilThrottle.Blocked(ctx, "a@x.com"))
}
