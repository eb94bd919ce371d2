package worker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool(3)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	p.Stop()
	require.Equal(t, 5, count)
}

func TestSubmitDoesNotBlock(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-release }))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			_ = p.Submit(func() {})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked while worker busy")
	}
	close(release)
	p.Stop()
}

func TestSingleWorkerKeepsOrder(t *testing.T) {
	p := NewPool(1)
	var got []int
	for i := 0; i < 20; i++ {
		i := i
		require.NoError(t, p.Submit(func() { got = append(got, i) }))
	}
	p.Stop()
	require.Len(t, got, 20)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	p := NewPool(0)
	require.NoError(t, p.Submit(nil))
	p.Stop()
	p.Stop()
	require.ErrorIs(t, p.Submit(func() {}), ErrStopped)
}
