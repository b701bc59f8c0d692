// audit/audit.go
//
// Write-path audit trail.
//
// Context
// -------
// After a committed write (and optionally after reads and login/logout
// events), the orchestrator records who touched which table with before and
// after snapshots.  This package only persists what it is handed; deciding
// *whether* to log a given task is the caller's concern.
//
// Schema
// ------
//
//	audits (id, table_name, log_records, new_log_records, log_type, log_by, log_at)
//
// Snapshots are stored as JSON.  Entry ids are UUIDs generated here so the
// audits table needs no sequence of its own.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Log types, mirroring the task vocabulary plus the session events.
const (
	TypeCreate = "create"
	TypeUpdate = "update"
	TypeDelete = "delete"
	TypeRead   = "read"
	TypeLogin  = "login"
	TypeLogout = "logout"
)

// Entry is one audit event.  Records holds the pre-operation snapshot (or
// the created records for TypeCreate); NewRecords holds the post-update
// snapshot and is required only for TypeUpdate.
type Entry struct {
	Type       string
	Table      string
	UserID     string
	Records    any
	NewRecords any
}

// Logger persists audit entries into one audits table.
type Logger struct {
	db    *sqlx.DB
	table string
	now   func() time.Time
}

// New returns a Logger writing to table, typically "audits".
func New(db *sqlx.DB, table string) *Logger {
	return &Logger{db: db, table: table, now: time.Now}
}

// Log validates and persists one entry.
func (l *Logger) Log(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	records, err := marshalSnapshot(e.Records)
	if err != nil {
		return fmt.Errorf("audit: encode records: %w", err)
	}
	newRecords, err := marshalSnapshot(e.NewRecords)
	if err != nil {
		return fmt.Errorf("audit: encode new records: %w", err)
	}

	q := `INSERT INTO ` + l.table + `(id, table_name, log_records, new_log_records, log_type, log_by, log_at)
	      VALUES($1, $2, $3, $4, $5, $6, $7)`
	_, err = l.db.ExecContext(ctx, q,
		uuid.NewString(), e.Table, records, newRecords, e.Type, e.UserID, l.now())
	if err != nil {
		return fmt.Errorf("audit: insert %s log for %q: %w", e.Type, e.Table, err)
	}
	return nil
}

func (e Entry) validate() error {
	if e.UserID == "" {
		return fmt.Errorf("audit: user id is required")
	}
	switch e.Type {
	case TypeCreate, TypeUpdate, TypeDelete, TypeRead:
		if e.Table == "" {
			return fmt.Errorf("audit: table name is required for %s logs", e.Type)
		}
		if e.Records == nil {
			return fmt.Errorf("audit: record snapshot is required for %s logs", e.Type)
		}
		if e.Type == TypeUpdate && e.NewRecords == nil {
			return fmt.Errorf("audit: new-record snapshot is required for update logs")
		}
	case TypeLogin, TypeLogout:
		// Session events need no table or snapshot.
	default:
		return fmt.Errorf("audit: unknown log type %q", e.Type)
	}
	return nil
}

func marshalSnapshot(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
