// Package idempotency guards once-per-key work with redis.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInProgress = errors.New("idempotency: operation in progress")
	ErrCompleted  = errors.New("idempotency: operation already completed")
)

const (
	stateInProgress = "in_progress"
	stateCompleted  = "completed"

	defaultLock = time.Minute
	defaultTTL  = 24 * time.Hour
)

// Idempotency runs fn at most once per key while the completion marker lives.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

type Tracker struct {
	rdb    redis.Cmdable
	prefix string
}

func New(rdb redis.Cmdable) *Tracker {
	return &Tracker{rdb: rdb, prefix: "idempotency:"}
}

type options struct {
	lock time.Duration
	ttl  time.Duration
}

type Option func(*options)

// WithLock bounds how long a crashed run keeps the key locked.
func WithLock(d time.Duration) Option {
	return func(o *options) { o.lock = d }
}

// WithTTL sets how long the completion marker is kept.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// Exec runs fn when key is free. A failed fn releases the key so the next
// call may retry; a successful one marks it completed for the TTL.
func (t *Tracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := options{lock: defaultLock, ttl: defaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lock <= 0 {
		o.lock = defaultLock
	}
	if o.ttl <= 0 {
		o.ttl = defaultTTL
	}

	fk := t.prefix + key
	ok, err := t.rdb.SetNX(ctx, fk, stateInProgress, o.lock).Result()
	if err != nil {
		return err
	}
	if !ok {
		state, err := t.rdb.Get(ctx, fk).Result()
		switch {
		case errors.Is(err, redis.Nil):
			return ErrInProgress
		case err != nil:
			return err
		case state == stateCompleted:
			return ErrCompleted
		default:
			return ErrInProgress
		}
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, t.rdb.Del(context.WithoutCancel(ctx), fk).Err())
	}

	return t.rdb.Set(ctx, fk, stateCompleted, o.ttl).Err()
}

// Skipped reports whether err means the work was already done or running.
func Skipped(err error) bool {
	return errors.Is(err, ErrCompleted) || errors.Is(err, ErrInProgress)
}
