package sqlmig

import "errors"

var (
	ErrNamingViolation     = errors.New("script name must start with a number")
	ErrEmptyScript         = errors.New("script is empty")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidDSN          = errors.New("invalid connection string")
	ErrDatabaseConnection  = errors.New("database connection error")
	ErrDatabaseUnreachable = errors.New("database unreachable")
)
