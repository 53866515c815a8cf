package sqlmig

import "context"

type Migrator interface {
	Run(ctx context.Context) error
	Status(ctx context.Context) ([]ScriptStatus, error)
	Head(ctx context.Context) (int, error)
	Close() error
}

type Ledger interface {
	Init(ctx context.Context) error
	Head(ctx context.Context) (int, error)
	Record(ctx context.Context, name string, revision int) error
	Close() error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
