package sqlmig

// Script is one migration script discovered on disk. It is a view over
// the filesystem, rebuilt on every discovery call and never cached.
type Script struct {
	Index    int
	Name     string
	FileName string
}

// ScriptStatus pairs a script with whether the ledger already covers it.
type ScriptStatus struct {
	Script
	Applied bool
}

// LedgerRecord is one row of the ledger table. One row is appended per
// successfully applied script.
type LedgerRecord struct {
	ID       int64
	Name     string
	Revision int
}
