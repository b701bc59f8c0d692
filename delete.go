// delete.go
//
// Delete path.
//
// Context
// -------
// Delete removes records by id, ids, or filter.  A call that names neither
// is refused: an accidental whole-table delete is a parameter error, not an
// operation.  When delete logging is on, the doomed rows are snapshotted
// before the statement runs so the audit entry can carry them.
package datagate

import (
	"context"

	"github.com/tidemill/datagate/access"
	"github.com/tidemill/datagate/audit"
	"github.com/tidemill/datagate/statement"
)

// DeleteResult reports a completed delete.
type DeleteResult struct {
	RecordsAffected int64
}

// Delete removes the records p.RecordIDs or p.Filter select.
func (c *Client) Delete(ctx context.Context, p Params) (*DeleteResult, error) {
	if err := checkParams(p); err != nil {
		return nil, err
	}
	if len(p.RecordIDs) == 0 && len(p.Filter) == 0 {
		return nil, &ParamsError{Message: "record ids or a filter is required; whole-table deletes are refused"}
	}

	ids := p.RecordIDs
	if len(ids) == 0 && c.opts.CheckAccess {
		resolved, err := c.filterRecordIDs(ctx, p)
		if err != nil {
			return nil, &ExecutionError{Table: p.Table, Task: access.TaskDelete, Err: err}
		}
		ids = resolved
	}
	if err := c.authorize(ctx, access.TaskDelete, p.Table, ids, p.User); err != nil {
		return nil, err
	}

	var before []Record
	if c.opts.LogDelete {
		snap, err := c.currentRecords(ctx, p)
		if err != nil {
			return nil, &ExecutionError{Table: p.Table, Task: access.TaskDelete, Err: err}
		}
		before = snap
	}

	st, err := c.buildDelete(p)
	if err != nil {
		return nil, err
	}

	res, err := c.db.ExecContext(ctx, st.Text, st.Values...)
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskDelete, Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskDelete, Err: err}
	}

	c.cache.InvalidateTable(p.Table)
	if c.opts.LogDelete {
		c.logAudit(ctx, audit.Entry{
			Type:    audit.TypeDelete,
			Table:   p.Table,
			UserID:  p.User.UserID,
			Records: before,
		})
	}
	return &DeleteResult{RecordsAffected: affected}, nil
}

func (c *Client) buildDelete(p Params) (statement.GeneratedStatement, error) {
	switch {
	case len(p.RecordIDs) == 1:
		return compiled(statement.BuildDeleteByID(p.Table, p.RecordIDs[0]))
	case len(p.RecordIDs) > 1:
		return compiled(statement.BuildDeleteByIDs(p.Table, p.RecordIDs))
	default:
		return compiled(statement.BuildDeleteByFilter(p.Table, p.Filter))
	}
}
