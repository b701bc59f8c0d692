// save.go
//
// Write path: create and update.
//
// Context
// -------
// Save splits the action records by the presence of an id: records without
// one are creates, records with one are updates, and mixing both in a
// single call is a parameter error.  Batch writes execute their per-record
// statements sequentially inside one transaction, in input order; the
// transaction commits only if every statement affects exactly one row, so a
// batch either lands whole or not at all.
//
// Workflow
// --------
//  1. shape validation (checkParams, split).
//  2. access decision for the task and target ids.
//  3. statement compilation.
//  4. transactional execution with per-record verification.
//  5. cache invalidation, then audit logging, after commit.
package datagate

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tidemill/datagate/access"
	"github.com/tidemill/datagate/audit"
	"github.com/tidemill/datagate/statement"
)

// SaveResult reports a completed write.
type SaveResult struct {
	Task            access.TaskType
	RecordIDs       []string
	RecordsAffected int64
}

// Save creates or updates the records in p.Records.
func (c *Client) Save(ctx context.Context, p Params) (*SaveResult, error) {
	if err := checkParams(p); err != nil {
		return nil, err
	}
	if len(p.Records) == 0 {
		return nil, &ParamsError{Message: "at least one action record is required"}
	}

	creates, updates := splitRecords(p.Records)
	if len(creates) > 0 && len(updates) > 0 {
		return nil, &ParamsError{Message: "a single call may create or update records, not both"}
	}

	if len(creates) > 0 {
		return c.createRecords(ctx, p, creates)
	}

	switch {
	case len(updates) == 1 && len(p.RecordIDs) > 0:
		return c.updateByIDs(ctx, p, updates[0])
	case len(updates) == 1 && len(p.Filter) > 0:
		return c.updateByFilter(ctx, p, updates[0])
	default:
		return c.updateBatch(ctx, p, updates)
	}
}

func (c *Client) createRecords(ctx context.Context, p Params, records []statement.FieldMap) (*SaveResult, error) {
	if err := c.authorize(ctx, access.TaskCreate, p.Table, nil, p.User); err != nil {
		return nil, err
	}

	st, err := compiled(statement.BuildInsert(p.Table, records))
	if err != nil {
		return nil, err
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskCreate, Err: err}
	}

	ids := make([]string, 0, len(st.Rows))
	for i, stmt := range st.Statements() {
		id, err := execReturningID(ctx, tx, stmt)
		if err != nil {
			rollback(tx)
			if isNoRows(err) {
				return nil, &PartialBatchError{
					Table: p.Table, Task: access.TaskCreate,
					Expected: len(st.Rows), Completed: i,
				}
			}
			return nil, &ExecutionError{Table: p.Table, Task: access.TaskCreate, Err: err}
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskCreate, Err: err}
	}

	c.cache.InvalidateTable(p.Table)
	if c.opts.LogCreate {
		c.logAudit(ctx, audit.Entry{
			Type:    audit.TypeCreate,
			Table:   p.Table,
			UserID:  p.User.UserID,
			Records: recordsToMaps(records),
		})
	}

	return &SaveResult{
		Task:            access.TaskCreate,
		RecordIDs:       ids,
		RecordsAffected: int64(len(ids)),
	}, nil
}

func (c *Client) updateByIDs(ctx context.Context, p Params, record statement.FieldMap) (*SaveResult, error) {
	if err := c.authorize(ctx, access.TaskUpdate, p.Table, p.RecordIDs, p.User); err != nil {
		return nil, err
	}

	before, err := c.updateSnapshot(ctx, p)
	if err != nil {
		return nil, err
	}

	st, err := compiled(statement.BuildUpdateByIDs(p.Table, record, p.RecordIDs))
	if err != nil {
		return nil, err
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
	}

	ids, err := c.queryReturnedIDs(ctx, tx, st)
	if err != nil {
		rollback(tx)
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
	}
	if len(ids) != len(p.RecordIDs) {
		rollback(tx)
		return nil, &PartialBatchError{
			Table: p.Table, Task: access.TaskUpdate,
			Expected: len(p.RecordIDs), Completed: len(ids),
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
	}

	c.finishUpdate(ctx, p, before, []statement.FieldMap{record})
	return &SaveResult{
		Task:            access.TaskUpdate,
		RecordIDs:       ids,
		RecordsAffected: int64(len(ids)),
	}, nil
}

func (c *Client) updateByFilter(ctx context.Context, p Params, record statement.FieldMap) (*SaveResult, error) {
	if c.opts.CheckAccess {
		ids, err := c.filterRecordIDs(ctx, p)
		if err != nil {
			return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
		}
		if err := c.authorize(ctx, access.TaskUpdate, p.Table, ids, p.User); err != nil {
			return nil, err
		}
	}

	before, err := c.updateSnapshot(ctx, p)
	if err != nil {
		return nil, err
	}

	st, err := compiled(statement.BuildUpdateByFilter(p.Table, record, p.Filter))
	if err != nil {
		return nil, err
	}

	res, err := c.db.ExecContext(ctx, st.Text, st.Values...)
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
	}

	c.finishUpdate(ctx, p, before, []statement.FieldMap{record})
	return &SaveResult{Task: access.TaskUpdate, RecordsAffected: affected}, nil
}

func (c *Client) updateBatch(ctx context.Context, p Params, records []statement.FieldMap) (*SaveResult, error) {
	// Every id must be a non-empty string so the full batch is visible to the
	// access decision; a non-string id would otherwise slip past record-level
	// resolution.
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id, _ := rec.Get("id")
		s, isStr := id.(string)
		if !isStr || s == "" {
			return nil, &ParamsError{Message: "update record ids must be non-empty strings"}
		}
		ids = append(ids, s)
	}
	if err := c.authorize(ctx, access.TaskUpdate, p.Table, ids, p.User); err != nil {
		return nil, err
	}

	snapParams := p
	snapParams.RecordIDs = ids
	before, err := c.updateSnapshot(ctx, snapParams)
	if err != nil {
		return nil, err
	}

	sts, err := compiled(statement.BuildUpdateBatch(p.Table, records))
	if err != nil {
		return nil, err
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
	}

	updated := make([]string, 0, len(sts))
	for i, stmt := range sts {
		id, err := execReturningID(ctx, tx, stmt)
		if err != nil {
			rollback(tx)
			if isNoRows(err) {
				return nil, &PartialBatchError{
					Table: p.Table, Task: access.TaskUpdate,
					Expected: len(sts), Completed: i,
				}
			}
			return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
		}
		updated = append(updated, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
	}

	c.finishUpdate(ctx, p, before, records)
	return &SaveResult{
		Task:            access.TaskUpdate,
		RecordIDs:       updated,
		RecordsAffected: int64(len(updated)),
	}, nil
}

// updateSnapshot captures the pre-update rows when update logging is on.
func (c *Client) updateSnapshot(ctx context.Context, p Params) ([]Record, error) {
	if !c.opts.LogUpdate {
		return nil, nil
	}
	before, err := c.currentRecords(ctx, p)
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskUpdate, Err: err}
	}
	return before, nil
}

// finishUpdate invalidates the table's cache key space and, when enabled,
// writes the update audit entry.
func (c *Client) finishUpdate(ctx context.Context, p Params, before []Record, records []statement.FieldMap) {
	c.cache.InvalidateTable(p.Table)
	if !c.opts.LogUpdate {
		return
	}
	if before == nil {
		// No model, no snapshot; skip rather than write a hollow entry.
		c.log.Debugw("update audit skipped, no model for snapshot", "table", p.Table)
		return
	}
	c.logAudit(ctx, audit.Entry{
		Type:       audit.TypeUpdate,
		Table:      p.Table,
		UserID:     p.User.UserID,
		Records:    before,
		NewRecords: recordsToMaps(records),
	})
}

// queryReturnedIDs executes one RETURNING-id statement and collects the ids
// in result order.
func (c *Client) queryReturnedIDs(ctx context.Context, tx *sqlx.Tx, st statement.GeneratedStatement) ([]string, error) {
	rows, err := tx.QueryxContext(ctx, st.Text, st.Values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// logAudit writes one audit entry, logging rather than failing the request
// on error; the write itself already committed.
func (c *Client) logAudit(ctx context.Context, e audit.Entry) {
	if err := c.audit.Log(ctx, e); err != nil {
		c.log.Warnw("audit log failed", "type", e.Type, "table", e.Table, "err", err)
	}
}
