package main

import (
	"os"

	"github.com/parhelion-io/sqlmig"
)

type globalOptions struct {
	dsn string
	dir string
}

// resolve applies flag > environment > built-in default precedence.
func (o *globalOptions) resolve() sqlmig.Config {
	dsn := o.dsn
	if dsn == "" {
		dsn = os.Getenv("SQLMIG_DSN")
	}
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		dsn = sqlmig.DefaultDSN
	}

	dir := o.dir
	if dir == "" {
		dir = os.Getenv("SQLMIG_DIR")
	}
	if dir == "" {
		dir = sqlmig.DefaultDir
	}

	return sqlmig.Config{
		DSN: dsn,
		Dir: dir,
	}
}
