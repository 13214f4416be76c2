package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyed_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{"burst allows initial requests", 1, 3, 3, 3},
		{"exceeding burst blocks", 1, 2, 5, 2},
		{"non-positive rate disables limiting", 0, 1, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := New(tt.rps, tt.burst)
			passed := 0
			for range tt.calls {
				if k.Allow("tier") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyed_KeysAreIndependent(t *testing.T) {
	k := New(1, 1)

	assert.True(t, k.Allow("api"))
	assert.False(t, k.Allow("api"))
	assert.True(t, k.Allow("direct"))
	assert.Equal(t, 2, k.Len())
}

func TestKeyed_WaitHonorsContext(t *testing.T) {
	k := New(0.001, 1)
	assert.True(t, k.Allow("api"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, k.Wait(ctx, "api"))
}
