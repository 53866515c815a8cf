package sqlmig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const ledgerTable = "__migrations"

const (
	probeLedgerSQL  = `SELECT 1 FROM __migrations LIMIT 1`
	headRevisionSQL = `SELECT revision FROM __migrations ORDER BY revision DESC LIMIT 1`
	insertRecordSQL = `INSERT INTO __migrations (name, revision) VALUES (?, ?)`
)

type sqlLedger struct {
	db      *sql.DB
	dialect Dialect
	logger  Logger
}

func newSQLLedger(db *sql.DB, dialect Dialect, logger Logger) *sqlLedger {
	return &sqlLedger{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

// Init probes the ledger table and creates it when the database reports
// it missing. Any other probe failure propagates unchanged.
func (l *sqlLedger) Init(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, probeLedgerSQL)
	if err == nil {
		return nil
	}
	if !l.dialect.IsUndefinedTable(err) {
		return fmt.Errorf("probe ledger table: %w", err)
	}

	if _, err := l.db.ExecContext(ctx, l.dialect.CreateLedgerSQL()); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}

	l.logger.Info("created ledger table", "table", ledgerTable)
	return nil
}

// Head returns the highest recorded revision. An empty ledger and a
// ledger table that does not exist yet both read as 0. One round trip.
func (l *sqlLedger) Head(ctx context.Context) (int, error) {
	var head int
	err := l.db.QueryRowContext(ctx, headRevisionSQL).Scan(&head)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		if l.dialect.IsUndefinedTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read head revision: %w", err)
	}
	return head, nil
}

// Record appends one row. The table carries no uniqueness constraint;
// calling this at most once per script is the runner's responsibility.
func (l *sqlLedger) Record(ctx context.Context, name string, revision int) error {
	if _, err := l.db.ExecContext(ctx, insertRecordSQL, name, revision); err != nil {
		return fmt.Errorf("record revision %d: %w", revision, err)
	}
	return nil
}

func (l *sqlLedger) Close() error {
	return l.db.Close()
}
