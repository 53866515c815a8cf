package sqlmig

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock"
)

type mockLedger struct {
	mu         sync.Mutex
	InitFunc   func(ctx context.Context) error
	HeadFunc   func(ctx context.Context) (int, error)
	RecordFunc func(ctx context.Context, name string, revision int) error
	CloseFunc  func() error
	records    []LedgerRecord
}

func newMockLedger() *mockLedger {
	return &mockLedger{}
}

func (m *mockLedger) Init(ctx context.Context) error {
	if m.InitFunc != nil {
		return m.InitFunc(ctx)
	}
	return nil
}

func (m *mockLedger) Head(ctx context.Context) (int, error) {
	if m.HeadFunc != nil {
		return m.HeadFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	head := 0
	for _, record := range m.records {
		if record.Revision > head {
			head = record.Revision
		}
	}
	return head, nil
}

func (m *mockLedger) Record(ctx context.Context, name string, revision int) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, name, revision)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, LedgerRecord{
		ID:       int64(len(m.records) + 1),
		Name:     name,
		Revision: revision,
	})
	return nil
}

func (m *mockLedger) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *mockLedger) Records() []LedgerRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LedgerRecord(nil), m.records...)
}

type mockLogger struct {
	mu       sync.Mutex
	DebugLog []string
	InfoLog  []string
	WarnLog  []string
	ErrorLog []string
}

func newMockLogger() *mockLogger {
	return &mockLogger{}
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DebugLog = append(m.DebugLog, msg)
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoLog = append(m.InfoLog, msg)
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarnLog = append(m.WarnLog, msg)
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorLog = append(m.ErrorLog, msg)
}

// fakeClock satisfies clock.Clock for retry tests without real sleeps.
// After records the requested duration and fires immediately. Methods
// the tests never reach come from the embedded nil interface and panic
// if called.
type fakeClock struct {
	clock.Clock
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// openSQLite opens a throwaway SQLite database in a temp directory.
func openSQLite(tb testing.TB) (*sql.DB, Dialect) {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "sqlmig.db")
	db, dialect, err := Open("sqlite://" + path)
	if err != nil {
		tb.Fatalf("failed to open sqlite database: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	return db, dialect
}

// readLedger dumps the ledger table in insertion order.
func readLedger(tb testing.TB, db *sql.DB) []LedgerRecord {
	tb.Helper()

	rows, err := db.Query(`SELECT id, name, revision FROM __migrations ORDER BY id`)
	if err != nil {
		tb.Fatalf("failed to read ledger: %v", err)
	}
	defer rows.Close()

	var records []LedgerRecord
	for rows.Next() {
		var record LedgerRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.Revision); err != nil {
			tb.Fatalf("failed to scan ledger row: %v", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		tb.Fatalf("failed to iterate ledger rows: %v", err)
	}
	return records
}

// tableExists reports whether a table is present in the SQLite schema.
func tableExists(tb testing.TB, db *sql.DB, name string) bool {
	tb.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	if err != nil {
		tb.Fatalf("failed to check table %s: %v", name, err)
	}
	return count > 0
}

// writeScript drops a script file into dir.
func writeScript(tb testing.TB, dir, fileName, content string) {
	tb.Helper()

	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0o600); err != nil {
		tb.Fatalf("failed to write script %s: %v", fileName, err)
	}
}
