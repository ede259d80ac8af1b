package sqlite

// Schema DDL for the journal tables.
const (
	createRuns = `CREATE TABLE runs (
    run_id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    name TEXT NOT NULL,
    initial_capacity INTEGER NOT NULL,
    final_size INTEGER NOT NULL,
    final_capacity INTEGER NOT NULL,
    contents TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createEvents = `CREATE TABLE events (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    op TEXT NOT NULL,
    arg TEXT NOT NULL,
    result TEXT NOT NULL,
    size_before INTEGER NOT NULL,
    cap_before INTEGER NOT NULL,
    size_after INTEGER NOT NULL,
    cap_after INTEGER NOT NULL,
    error_kind TEXT NOT NULL,
    error TEXT NOT NULL,
    PRIMARY KEY (run_id, seq),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxRunsSource  = `CREATE INDEX idx_runs_source ON runs(source);`
	idxRunsCreated = `CREATE INDEX idx_runs_created ON runs(created_at);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createRuns,
	createEvents,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRunsSource,
	idxRunsCreated,
}
