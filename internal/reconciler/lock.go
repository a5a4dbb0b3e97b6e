package reconciler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/nimasrn/trade-ledger/pkg/redis"
)

var (
	ErrLockHeld          = errors.New("reconciliation already running")
	ErrLockAcquireFailed = errors.New("failed to acquire reconciliation lock")
)

const lockKeyPrefix = "lock:reconcile:"

// Lock keeps two processes from reconciling the same owner type at once.
type Lock struct {
	redis redis.RedisAdapter
	ttl   time.Duration
}

func NewLock(adapter redis.RedisAdapter, ttl time.Duration) *Lock {
	return &Lock{
		redis: adapter,
		ttl:   ttl,
	}
}

// Acquire takes the lock named name. The returned release func is safe to
// call once the lock expired or was taken over.
func (l *Lock) Acquire(ctx context.Context, name string) (func(), error) {
	key := lockKeyPrefix + name
	token := []byte(uuid.NewString())

	acquired, err := l.redis.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		logger.Error("failed to acquire lock", "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	if !acquired {
		logger.Info("lock already held by another process", "key", key)
		return nil, ErrLockHeld
	}

	release := func() {
		// The lock may have expired and been taken by someone else.
		cur, err := l.redis.Get(context.Background(), key)
		if err != nil || !bytes.Equal(cur, token) {
			return
		}
		if err := l.redis.Del(context.Background(), key); err != nil {
			logger.Warn("failed to release lock", "key", key, "error", err)
		}
	}
	return release, nil
}
