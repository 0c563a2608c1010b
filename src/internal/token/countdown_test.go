package token

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeRemaining(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      Remaining
	}{
		{"ten minutes", now.Add(10 * time.Minute), Remaining{Minutes: 10, Seconds: 0}},
		{"floor to whole seconds", now.Add(90*time.Second + 700*time.Millisecond), Remaining{Minutes: 1, Seconds: 30}},
		{"under a minute", now.Add(42 * time.Second), Remaining{Minutes: 0, Seconds: 42}},
		{"already expired", now.Add(-time.Minute), Remaining{}},
		{"exactly now", now, Remaining{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeRemaining(tt.expiresAt, now))
		})
	}
}

func TestRemainingZero(t *testing.T) {
	assert.True(t, Remaining{}.Zero())
	assert.False(t, Remaining{Seconds: 1}.Zero())
}

func TestCountdownTicksAndStops(t *testing.T) {
	var ticks int32
	c := StartCountdown(time.Now().Add(time.Minute), func(Remaining) {
		atomic.AddInt32(&ticks, 1)
	})

	time.Sleep(1100 * time.Millisecond)
	c.Stop()
	c.Stop() // idempotent

	seen := atomic.LoadInt32(&ticks)
	assert.Positive(t, seen)

	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, seen, atomic.LoadInt32(&ticks), "no ticks after stop")
}
