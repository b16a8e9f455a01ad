package circuitbreaker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})

	for i := 0; i < 5; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}
}

func TestOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})

	boom := fmt.Errorf("boom")
	assert.Equal(t, boom, cb.Execute(func() error { return boom }))
	assert.Equal(t, boom, cb.Execute(func() error { return boom }))

	// Open now: calls are shed without running fn.
	ran := false
	err := cb.Execute(func() error { ran = true; return nil })
	assert.Error(t, err)
	assert.False(t, ran)
}

func TestHalfOpenClosesOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 1, Timeout: 10 * time.Millisecond})

	require.Error(t, cb.Execute(func() error { return fmt.Errorf("boom") }))
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
}

func TestFailureCountResetsOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})

	require.Error(t, cb.Execute(func() error { return fmt.Errorf("boom") }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return fmt.Errorf("boom") }))

	// Still closed: the success in between reset the streak.
	ran := false
	cb.Execute(func() error { ran = true; return nil })
	assert.True(t, ran)
}
