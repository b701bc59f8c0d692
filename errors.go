// errors.go
//
// Orchestrator error kinds.
//
// Context
// -------
// Compile-time problems surface as *statement.CompileError and session or
// permission problems as the access package's errors; this file adds the
// kinds the execution layer itself produces.  Driver errors are never
// promoted to the caller raw — they are wrapped with the operation's table
// and task so "duplicate key" reads as "create on widgets: duplicate key".
package datagate

import (
	"fmt"

	"github.com/tidemill/datagate/access"
)

// ParamsError reports request-shape problems caught before any compilation
// or database work.
type ParamsError struct {
	Message string
}

func (e *ParamsError) Error() string { return "datagate: " + e.Message }

// ExecutionError wraps a relational round-trip failure with the operation's
// context.  Batch operations roll back before returning one.
type ExecutionError struct {
	Table string
	Task  access.TaskType
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("datagate: %s on %q: %v", e.Task, e.Table, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// PartialBatchError reports a batch write whose affected-row count fell
// short of the record count.  The transaction is always rolled back first;
// partial batch success is never surfaced.
type PartialBatchError struct {
	Table     string
	Task      access.TaskType
	Expected  int
	Completed int
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("datagate: %s batch on %q rolled back: %d of %d records affected",
		e.Task, e.Table, e.Completed, e.Expected)
}
