// exec.go
//
// Shared execution helpers: access gating, transactional id-returning
// execution, and current-record snapshots for audit logging.
package datagate

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/tidemill/datagate/access"
	"github.com/tidemill/datagate/metrics"
	"github.com/tidemill/datagate/statement"
)

// authorize consults the resolver when access checking is enabled.  Denials
// and session failures propagate verbatim.
func (c *Client) authorize(ctx context.Context, task access.TaskType, table string,
	recordIDs []string, user access.UserInfo) error {

	if !c.opts.CheckAccess {
		return nil
	}
	_, err := c.resolver.Authorize(ctx, task, table, recordIDs, user)
	if err != nil {
		metrics.AccessDeniedTotal.Inc()
		return err
	}
	metrics.AccessPermittedTotal.Inc()
	return nil
}

// compiled wraps a builder result with the compile metrics.
func compiled[T any](st T, err error) (T, error) {
	if err != nil {
		metrics.CompileErrorsTotal.Inc()
		return st, err
	}
	metrics.StatementsCompiledTotal.Inc()
	return st, nil
}

// execReturningID runs one RETURNING-id statement inside tx and reports the
// returned identifier.  sql.ErrNoRows means the statement matched nothing.
func execReturningID(ctx context.Context, tx *sqlx.Tx, st statement.GeneratedStatement) (string, error) {
	var id string
	err := tx.QueryRowxContext(ctx, st.Text, st.Values...).Scan(&id)
	return id, err
}

// rollback swallows the rollback's own error; the original failure is the
// one worth reporting.
func rollback(tx *sqlx.Tx) {
	_ = tx.Rollback()
	metrics.BatchRollbacksTotal.Inc()
}

// currentRecords fetches the rows an id- or filter-scoped write is about to
// touch, for audit snapshots.  Requires a Model; returns nil when none is
// supplied.
func (c *Client) currentRecords(ctx context.Context, p Params) ([]Record, error) {
	if len(p.Model) == 0 {
		return nil, nil
	}

	var (
		st  statement.SelectStatement
		err error
	)
	switch {
	case len(p.RecordIDs) == 1:
		st, err = statement.BuildSelectByID(p.Model, p.Table, p.RecordIDs[0], statement.SelectOptions{})
	case len(p.RecordIDs) > 1:
		st, err = statement.BuildSelectByIDs(p.Model, p.Table, p.RecordIDs, statement.SelectOptions{})
	case len(p.Filter) > 0:
		st, err = statement.BuildSelectByFilter(p.Model, p.Table, p.Filter, statement.SelectOptions{})
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c.queryRecords(ctx, st)
}

// queryRecords executes a compiled select and maps rows back to field-named
// records in result order.
func (c *Client) queryRecords(ctx context.Context, st statement.SelectStatement) ([]Record, error) {
	rows, err := c.db.QueryxContext(ctx, st.Text, st.Values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		rec := make(Record, len(st.Fields))
		for i, f := range st.Fields {
			if i < len(vals) {
				rec[f] = normalizeValue(vals[i])
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// normalizeValue converts driver []byte payloads to string so records are
// JSON-friendly and comparable in tests.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// filterRecordIDs resolves the ids a filter-scoped write would touch, so
// the access decision can be made per record.  Without a Model the ids
// cannot be resolved and the decision falls back to table scope.
func (c *Client) filterRecordIDs(ctx context.Context, p Params) ([]string, error) {
	if len(p.Model) == 0 || len(p.Filter) == 0 {
		return nil, nil
	}
	records, err := c.currentRecords(ctx, p)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if id, ok := rec["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// isNoRows reports the driver's empty-result sentinel.
func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
