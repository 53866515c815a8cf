package sqlmig

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWaitExhaustsAttemptBudget(t *testing.T) {
	fc := newFakeClock()
	probeErr := errors.New("connection refused")

	attempts := 0
	probe := func(ctx context.Context) (*sql.DB, error) {
		attempts++
		return nil, probeErr
	}

	w := newWaiterWithProbe(probe, RetryPolicy{
		Attempts: 3,
		Interval: time.Second,
		Clock:    fc,
	}, newMockLogger())

	db, err := w.Wait(context.Background())
	if !errors.Is(err, ErrDatabaseUnreachable) {
		t.Fatalf("expected ErrDatabaseUnreachable, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected last probe error in %q", err)
	}
	if db != nil {
		t.Fatal("expected no connection on failure")
	}

	if attempts != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", attempts)
	}

	// Fixed-interval sleeps between attempts, none after the last.
	sleeps := fc.Sleeps()
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(sleeps))
	}
	for _, d := range sleeps {
		if d != time.Second {
			t.Fatalf("expected fixed 1s interval, got %v", d)
		}
	}
}

func TestWaitReturnsOnFirstSuccess(t *testing.T) {
	fc := newFakeClock()
	target, _ := openSQLite(t)

	attempts := 0
	probe := func(ctx context.Context) (*sql.DB, error) {
		attempts++
		return target, nil
	}

	w := newWaiterWithProbe(probe, RetryPolicy{
		Attempts: 5,
		Interval: time.Second,
		Clock:    fc,
	}, newMockLogger())

	db, err := w.Wait(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != target {
		t.Fatal("expected the probed connection to be returned")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
	if len(fc.Sleeps()) != 0 {
		t.Fatalf("expected no sleeps, got %v", fc.Sleeps())
	}
}

func TestWaitRecoversMidBudget(t *testing.T) {
	fc := newFakeClock()
	target, _ := openSQLite(t)

	attempts := 0
	probe := func(ctx context.Context) (*sql.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("still starting")
		}
		return target, nil
	}

	logger := newMockLogger()
	w := newWaiterWithProbe(probe, RetryPolicy{
		Attempts: 5,
		Interval: 2 * time.Second,
		Clock:    fc,
	}, logger)

	db, err := w.Wait(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != target {
		t.Fatal("expected the probed connection to be returned")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(fc.Sleeps()) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(fc.Sleeps()))
	}

	// Each failed attempt is reported before the next one.
	if len(logger.WarnLog) != 2 {
		t.Fatalf("expected 2 warnings, got %v", logger.WarnLog)
	}
}

func TestWaitPolicyDefaults(t *testing.T) {
	p := RetryPolicy{}.withDefaults()

	if p.Attempts != DefaultWaitAttempts {
		t.Fatalf("expected %d attempts, got %d", DefaultWaitAttempts, p.Attempts)
	}
	if p.Interval != DefaultWaitInterval {
		t.Fatalf("expected %v interval, got %v", DefaultWaitInterval, p.Interval)
	}
	if p.PerAttemptTimeout != DefaultProbeTimeout {
		t.Fatalf("expected %v probe timeout, got %v", DefaultProbeTimeout, p.PerAttemptTimeout)
	}
	if p.Clock == nil {
		t.Fatal("expected a wall clock default")
	}
}

func TestWaitDialProbeBadDSN(t *testing.T) {
	fc := newFakeClock()

	w := NewWaiter("bogus-dsn", RetryPolicy{
		Attempts: 2,
		Interval: time.Millisecond,
		Clock:    fc,
	}, newMockLogger())

	if _, err := w.Wait(context.Background()); !errors.Is(err, ErrDatabaseUnreachable) {
		t.Fatalf("expected ErrDatabaseUnreachable, got %v", err)
	}
}
