package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSerialisesSameKey(t *testing.T) {
	var (
		wg      sync.WaitGroup
		inside  int32
		maxSeen int32
		counter int
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := Do(context.Background(), "build:1", 0, func() error {
				n := atomic.AddInt32(&inside, 1)
				if n > atomic.LoadInt32(&maxSeen) {
					atomic.StoreInt32(&maxSeen, n)
				}
				counter++
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, int32(1), maxSeen)
	assert.Zero(t, local.held("build:1"))
}

func TestDoDifferentKeysRunConcurrently(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = Do(context.Background(), "build:a", 0, func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	done := make(chan error, 1)
	go func() {
		done <- Do(context.Background(), "build:b", 0, func() error { return nil })
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("lock on build:b blocked behind build:a")
	}
	close(release)
}

func TestDoReturnsFnError(t *testing.T) {
	boom := errors.New("boom")
	err := Do(context.Background(), "build:err", 0, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, local.held("build:err"))
}

func TestDoHonoursContext(t *testing.T) {
	hold := make(chan struct{})
	acquired := make(chan struct{})
	go func() {
		_ = Do(context.Background(), "build:ctx", 0, func() error {
			close(acquired)
			<-hold
			return nil
		})
	}()
	<-acquired

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := Do(ctx, "build:ctx", 0, func() error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAcquired)
	assert.False(t, called)

	close(hold)
}
