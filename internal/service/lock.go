package service

import (
    "context"
    "crypto/rand"
    "encoding/hex"
    "sync"
    "time"

    "github.com/redis/go-redis/v9"
)

// SessionLocker serializes session transitions (login, rotation, logout) for
// a single user.  Lock blocks until the lock is held or ctx is done and
// returns the release function.  Different users never contend.
type SessionLocker interface {
    Lock(ctx context.Context, email string) (func(), error)
}

// NewSessionLocker returns a Redis-backed locker when a client is available,
// so the guarantee holds across server instances.  With no Redis the
// fallback is an in-process mutex per user, which is sufficient for a single
// instance.
func NewSessionLocker(rdb *redis.Client) SessionLocker {
    if rdb == nil {
        return &localLocker{locks: make(map[string]*sync.Mutex)}
    }
    return &redisLocker{rdb: rdb}
}

// redisLocker implements the lock with SET NX PX.  The value is a random
// token so a slow holder cannot release a lock that already expired and was
// re-acquired by someone else; release is a compare-and-delete script.
type redisLocker struct {
    rdb *redis.Client
}

const (
    lockTTL   = 5 * time.Second
    lockRetry = 25 * time.Millisecond
)

var unlockScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

func (l *redisLocker) Lock(ctx context.Context, email string) (func(), error) {
    key := "session_lock:" + email
    token, err := randomToken()
    if err != nil {
        return nil, err
    }
    for {
        ok, err := l.rdb.SetNX(ctx, key, token, lockTTL).Result()
        if err != nil {
            return nil, err
        }
        if ok {
            return func() {
                _, _ = unlockScript.Run(context.Background(), l.rdb, []string{key}, token).Result()
            }, nil
        }
        select {
        case <-ctx.Done():
            return nil, ctx.Err()
        case <-time.After(lockRetry):
        }
    }
}

func randomToken() (string, error) {
    buf := make([]byte, 16)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

// localLocker keeps one mutex per user.  Mutexes are never removed; the key
// space is bounded by the number of distinct users seen by this process.
type localLocker struct {
    mu    sync.Mutex
    locks map[string]*sync.Mutex
}

func (l *localLocker) Lock(_ context.Context, email string) (func(), error) {
    l.mu.Lock()
    m, ok := l.locks[email]
    if !ok {
        m = &sync.Mutex{}
        l.locks[email] = m
    }
    l.mu.Unlock()

    m.Lock()
    return m.Unlock, nil
}
