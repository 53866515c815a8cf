package sqlmig

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
)

const (
	DefaultWaitAttempts = 30
	DefaultWaitInterval = 2 * time.Second
	DefaultProbeTimeout = 3 * time.Second
)

// RetryPolicy is the connection-wait budget: a fixed number of attempts
// separated by a fixed interval, each probe bounded by
// PerAttemptTimeout. Deliberately no backoff.
type RetryPolicy struct {
	Attempts          int
	Interval          time.Duration
	PerAttemptTimeout time.Duration

	// Clock drives the inter-attempt sleeps; tests substitute a fake.
	Clock clock.Clock
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultWaitAttempts
	}
	if p.Interval <= 0 {
		p.Interval = DefaultWaitInterval
	}
	if p.PerAttemptTimeout <= 0 {
		p.PerAttemptTimeout = DefaultProbeTimeout
	}
	if p.Clock == nil {
		p.Clock = clock.WallClock
	}
	return p
}

// ProbeFunc attempts one connection. It must respect ctx's deadline and
// return a live handle on success.
type ProbeFunc func(ctx context.Context) (*sql.DB, error)

// Waiter blocks until the database becomes reachable or the retry
// budget is exhausted. It is used before a migrator is constructed,
// typically as a deployment gate.
type Waiter struct {
	probe  ProbeFunc
	policy RetryPolicy
	logger Logger
}

// NewWaiter builds a waiter that dials dsn afresh on every attempt.
func NewWaiter(dsn string, policy RetryPolicy, logger Logger) *Waiter {
	return newWaiterWithProbe(dialProbe(dsn), policy, logger)
}

func newWaiterWithProbe(probe ProbeFunc, policy RetryPolicy, logger Logger) *Waiter {
	if logger == nil {
		logger = newDefaultLogger()
	}
	return &Waiter{
		probe:  probe,
		policy: policy.withDefaults(),
		logger: logger,
	}
}

func dialProbe(dsn string) ProbeFunc {
	return func(ctx context.Context) (*sql.DB, error) {
		db, _, err := Open(dsn)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}
}

// Wait probes until one attempt succeeds, returning the established
// connection. Exhausting the attempt budget or ctx cancellation yields
// ErrDatabaseUnreachable wrapping the last probe failure.
func (w *Waiter) Wait(ctx context.Context) (*sql.DB, error) {
	var db *sql.DB

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			probeCtx, cancel := context.WithTimeout(ctx, w.policy.PerAttemptTimeout)
			defer cancel()

			var err error
			db, err = w.probe(probeCtx)
			return err
		},
		NotifyFunc: func(lastError error, attempt int) {
			w.logger.Warn("database not reachable yet", "attempt", attempt, "error", lastError)
		},
		Attempts: w.policy.Attempts,
		Delay:    w.policy.Interval,
		Clock:    w.policy.Clock,
		Stop:     ctx.Done(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseUnreachable, retry.LastError(err))
	}

	return db, nil
}
