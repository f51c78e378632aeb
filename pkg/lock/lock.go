// Package lock serialises work on a named resource. Inside one process a
// per-key mutex is enough; when Redis is connected the key is also claimed
// with SET NX PX so several replicas queue behind each other.
//
//	err := lock.Do(ctx, "build:7", 0, func() error {
//		return svc.addItem(ctx, buildID, productID)
//	})
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
)

const (
	// DefaultTTL bounds how long a crashed holder can keep a Redis lock.
	DefaultTTL = 15 * time.Second

	keyPrefix  = "pcbuilder:lock:"
	minBackoff = 5 * time.Millisecond
	maxBackoff = 200 * time.Millisecond
)

// ErrNotAcquired is returned when ctx ends before the lock is obtained.
var ErrNotAcquired = errors.New("lock: not acquired")

// release deletes the key only while it still holds our token.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Do runs fn while holding the lock for key. A zero ttl uses DefaultTTL.
func Do(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	unlockLocal, err := local.lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlockLocal()

	if rdb := cache.RDB; rdb != nil {
		unlockRemote, err := acquireRemote(ctx, rdb, key, ttl)
		if err != nil {
			return err
		}
		defer unlockRemote()
	}

	return fn()
}

func acquireRemote(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (func(), error) {
	rkey := keyPrefix + key
	token := uuid.NewString()
	backoff := minBackoff

	for {
		ok, err := rdb.SetNX(ctx, rkey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock: redis setnx %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return func() {
		// The caller's ctx may already be cancelled; the release must still go out.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = release.Run(rctx, rdb, []string{rkey}, token).Err()
	}, nil
}

// ── in-process ──────────────────────────────────────────────────────────────

type entry struct {
	ch   chan struct{}
	refs int
}

type keyed struct {
	mu   sync.Mutex
	keys map[string]*entry
}

var local = &keyed{keys: map[string]*entry{}}

func (k *keyed) lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.keys[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.keys[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.done(key, e)
		return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
	}

	return func() {
		<-e.ch
		k.done(key, e)
	}, nil
}

func (k *keyed) done(key string, e *entry) {
	k.mu.Lock()
	if e.refs--; e.refs == 0 {
		delete(k.keys, key)
	}
	k.mu.Unlock()
}

// held reports how many callers hold or wait on key. Tests use it to check
// that idle keys are cleaned up.
func (k *keyed) held(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if e, ok := k.keys[key]; ok {
		return e.refs
	}
	return 0
}
