package sqlmig

import (
	"context"
	"database/sql"
	"fmt"
)

type migrator struct {
	db     *sql.DB
	ledger Ledger
	store  *ScriptStore
	logger Logger
}

func newMigrator(db *sql.DB, ledger Ledger, store *ScriptStore, logger Logger) *migrator {
	return &migrator{
		db:     db,
		ledger: ledger,
		store:  store,
		logger: logger,
	}
}

// Run applies every pending script in ascending index order. Each
// script executes inside its own transaction; its ledger row is written
// after that transaction commits, so a crash in between leaves the
// script applied but unrecorded and it will be re-attempted on the next
// run. Scripts are therefore applied at-least-once, not exactly-once.
// Two processes running migrations concurrently against the same
// database are not coordinated; run migrations from one place.
func (m *migrator) Run(ctx context.Context) error {
	if err := m.ledger.Init(ctx); err != nil {
		return err
	}

	scripts, err := m.store.List()
	if err != nil {
		return err
	}

	for _, script := range scripts {
		// Head is re-read before every script so revisions applied
		// outside this run are still respected mid-run.
		head, err := m.ledger.Head(ctx)
		if err != nil {
			return err
		}

		if script.Index <= head {
			m.logger.Debug("skipping applied script", "index", script.Index, "file", script.FileName)
			continue
		}

		sqlText, err := m.store.Read(script)
		if err != nil {
			return err
		}
		if sqlText == "" {
			return fmt.Errorf("%w: %s", ErrEmptyScript, script.FileName)
		}

		m.logger.Info("applying script", "index", script.Index, "file", script.FileName)

		if err := m.execScript(ctx, sqlText); err != nil {
			return fmt.Errorf("apply %s: %w", script.FileName, err)
		}

		if err := m.ledger.Record(ctx, script.FileName, script.Index); err != nil {
			return err
		}

		m.logger.Info("applied script", "index", script.Index, "file", script.FileName)
	}

	return nil
}

// execScript runs the whole script text in one transaction: every
// statement commits or none do.
func (m *migrator) execScript(ctx context.Context, sqlText string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, sqlText); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Status pairs every discovered script with whether the current head
// already covers it, in ascending index order. Pure read.
func (m *migrator) Status(ctx context.Context) ([]ScriptStatus, error) {
	if err := m.ledger.Init(ctx); err != nil {
		return nil, err
	}

	scripts, err := m.store.List()
	if err != nil {
		return nil, err
	}

	head, err := m.ledger.Head(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]ScriptStatus, 0, len(scripts))
	for _, script := range scripts {
		statuses = append(statuses, ScriptStatus{
			Script:  script,
			Applied: script.Index <= head,
		})
	}

	return statuses, nil
}

// Head returns the highest applied revision, 0 when nothing has been
// applied yet.
func (m *migrator) Head(ctx context.Context) (int, error) {
	if err := m.ledger.Init(ctx); err != nil {
		return 0, err
	}
	return m.ledger.Head(ctx)
}

func (m *migrator) Close() error {
	return m.ledger.Close()
}
