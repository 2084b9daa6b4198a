package main

import "time"

// Column represents a single column from the PostgreSQL catalog
// (information_schema.columns), captured once per table per run.
type Column struct {
	Name        string
	DataType    string // information_schema data_type, lower-cased (e.g. "character varying")
	UDTName     string // pg_type name, lower-cased; leading '_' marks an array type
	CharMaxLen  int64  // 0 when no length is declared
	Precision   int64  // 0 when absent
	Scale       int64
	Nullable    bool
	Default     *string // raw PostgreSQL default expression, nil when absent
	IsGenerated bool    // GENERATED ALWAYS AS (...) STORED
	OrdinalPos  int
}

// Table holds the introspected definition of a PostgreSQL table.
// Columns keep catalog declaration order. PrimaryKeys lists PK column
// names and may reference columns later dropped by ignore rules; the
// DDL generator degrades the constraint in that case.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKeys []string
}

// Index represents a non-primary PostgreSQL index.
type Index struct {
	Name    string
	Columns []string // ordered by position in the index key
	Unique  bool
}

const (
	statusSuccess = "success"
	statusPartial = "partial"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// MigrationResult reports the data-transfer outcome for one table.
// Created once per table per run, never mutated after return.
type MigrationResult struct {
	TableName string
	Status    string // success | partial | skipped | failed
	Migrated  int64
	Failed    int64
	Total     int64
}

// Checkpoint is the persisted per-table sync marker. One record per
// table, overwritten wholesale on each save; absence means the table
// was never attempted.
type Checkpoint struct {
	TableName     string
	LastSyncTime  string
	LastSyncCount int64
	Status        string
	UpdatedAt     time.Time
}
