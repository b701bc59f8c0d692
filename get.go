// get.go
//
// Read path.
//
// Context
// -------
// Get reads by id, ids, filter, or whole table, projecting the columns the
// Model names and mapping rows back to field-named records.  Results are
// cached under the request's fingerprint; concurrent identical misses are
// collapsed with singleflight so a hot key hits the database once.
// GetStream delivers records one at a time through a callback, bypassing
// the cache and never buffering the full result.
package datagate

import (
	"context"

	"github.com/tidemill/datagate/access"
	"github.com/tidemill/datagate/audit"
	"github.com/tidemill/datagate/statement"
)

// Stats summarises one read.
type Stats struct {
	Skip         int
	Limit        int
	RecordsCount int
	TotalRecords int
}

// GetResult carries the mapped records plus read statistics.
type GetResult struct {
	Records []Record
	Stats   Stats
}

// clone copies the result so callers can mutate what they receive without
// corrupting the cached value behind it.
func (r *GetResult) clone() *GetResult {
	out := &GetResult{Records: make([]Record, len(r.Records)), Stats: r.Stats}
	for i, rec := range r.Records {
		dup := make(Record, len(rec))
		for k, v := range rec {
			dup[k] = v
		}
		out.Records[i] = dup
	}
	return out
}

// Get executes a read and returns field-shaped records.
func (c *Client) Get(ctx context.Context, p Params) (*GetResult, error) {
	if err := checkParams(p); err != nil {
		return nil, err
	}
	if len(p.Model) == 0 {
		return nil, &ParamsError{Message: "a model (reference field shape) is required for reads"}
	}
	if err := c.authorize(ctx, access.TaskRead, p.Table, p.RecordIDs, p.User); err != nil {
		return nil, err
	}

	limit := c.clampLimit(p.Limit)
	key := cacheKey(p, limit)
	if key != "" {
		if hit, ok := c.cache.Get(key); ok {
			return hit.(*GetResult).clone(), nil
		}
	}

	fetch := func() (any, error) {
		res, err := c.fetchResult(ctx, p, limit)
		if err != nil {
			return nil, err
		}
		if key != "" {
			c.cache.Add(p.Table, key, res)
		}
		return res, nil
	}

	var (
		res any
		err error
	)
	if key != "" {
		res, err, _ = c.sf.Do(key, fetch)
	} else {
		res, err = fetch()
	}
	if err != nil {
		return nil, err
	}

	if c.opts.LogRead {
		c.logAudit(ctx, audit.Entry{
			Type:   audit.TypeRead,
			Table:  p.Table,
			UserID: p.User.UserID,
			Records: map[string]any{
				"recordIds": p.RecordIDs,
				"filter":    p.Filter,
				"skip":      p.Skip,
				"limit":     limit,
			},
		})
	}
	// The fetched result is also the cached (and singleflight-shared) value,
	// so the caller gets a copy here as well.
	return res.(*GetResult).clone(), nil
}

// GetStream executes a read and feeds each record to fn in result order.
// A non-nil error from fn stops the stream and is returned verbatim.
func (c *Client) GetStream(ctx context.Context, p Params, fn func(Record) error) error {
	if err := checkParams(p); err != nil {
		return err
	}
	if len(p.Model) == 0 {
		return &ParamsError{Message: "a model (reference field shape) is required for reads"}
	}
	if fn == nil {
		return &ParamsError{Message: "a record callback is required for streaming reads"}
	}
	if err := c.authorize(ctx, access.TaskRead, p.Table, p.RecordIDs, p.User); err != nil {
		return err
	}

	st, err := c.buildSelect(p, c.clampLimit(p.Limit))
	if err != nil {
		return err
	}

	rows, err := c.db.QueryxContext(ctx, st.Text, st.Values...)
	if err != nil {
		return &ExecutionError{Table: p.Table, Task: access.TaskRead, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return &ExecutionError{Table: p.Table, Task: access.TaskRead, Err: err}
		}
		rec := make(Record, len(st.Fields))
		for i, f := range st.Fields {
			if i < len(vals) {
				rec[f] = normalizeValue(vals[i])
			}
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return &ExecutionError{Table: p.Table, Task: access.TaskRead, Err: err}
	}
	return nil
}

func (c *Client) clampLimit(limit int) int {
	if limit <= 0 || limit > c.opts.MaxQueryLimit {
		return c.opts.MaxQueryLimit
	}
	return limit
}

func (c *Client) buildSelect(p Params, limit int) (statement.SelectStatement, error) {
	opt := statement.SelectOptions{Skip: p.Skip, Limit: limit, Sort: p.Sort}
	switch {
	case len(p.RecordIDs) == 1:
		return compiled(statement.BuildSelectByID(p.Model, p.Table, p.RecordIDs[0], opt))
	case len(p.RecordIDs) > 1:
		return compiled(statement.BuildSelectByIDs(p.Model, p.Table, p.RecordIDs, opt))
	case len(p.Filter) > 0:
		return compiled(statement.BuildSelectByFilter(p.Model, p.Table, p.Filter, opt))
	default:
		return compiled(statement.BuildSelectAll(p.Model, p.Table, opt))
	}
}

func (c *Client) fetchResult(ctx context.Context, p Params, limit int) (*GetResult, error) {
	var total int
	if err := c.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM `+p.Table); err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskRead, Err: err}
	}

	st, err := c.buildSelect(p, limit)
	if err != nil {
		return nil, err
	}
	records, err := c.queryRecords(ctx, st)
	if err != nil {
		return nil, &ExecutionError{Table: p.Table, Task: access.TaskRead, Err: err}
	}

	return &GetResult{
		Records: records,
		Stats: Stats{
			Skip:         p.Skip,
			Limit:        limit,
			RecordsCount: len(records),
			TotalRecords: total,
		},
	}, nil
}
