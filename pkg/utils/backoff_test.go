package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	b := Backoff{BaseDelay: 1500 * time.Millisecond, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Duration(0), b.Delay(0))
	assert.Equal(t, 1500*time.Millisecond, b.Delay(1))
	assert.Equal(t, 3*time.Second, b.Delay(2))
	assert.Equal(t, 5*time.Second, b.Delay(3))
	assert.Equal(t, 5*time.Second, b.Delay(80))

	assert.Equal(t, time.Duration(0), NewBackoff(0).Delay(3))
}

func TestBackoffWaitStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := NewBackoff(time.Hour).Wait(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, NewBackoff(0).Wait(context.Background(), 2))
}
