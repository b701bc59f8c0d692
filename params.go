// params.go
//
// Request parameters.
//
// Context
// -------
// Params is the immutable per-request input to every Client operation — the
// value-passing replacement for a long-lived builder accumulating request
// state.  Construct a fresh Params per call; the Client never mutates it and
// never retains it.
package datagate

import (
	"github.com/go-playground/validator/v10"

	"github.com/tidemill/datagate/access"
	"github.com/tidemill/datagate/statement"
)

// Record is one result row, keyed by field name.
type Record map[string]any

// Params carries one operation's inputs.
//
// Model is the reference field shape used to project reads and snapshot
// records for audit logging; Records, Filter, and RecordIDs select what the
// operation touches.
type Params struct {
	Table     string `validate:"required"`
	Model     statement.FieldMap
	Records   []statement.FieldMap
	Filter    statement.FilterMap
	RecordIDs []string
	Sort      []statement.Order
	Skip      int `validate:"min=0"`
	Limit     int `validate:"min=0"`
	User      access.UserInfo
}

var validate = validator.New()

// checkParams applies struct-tag validation and returns a *ParamsError so
// shape problems carry the same error vocabulary as the rest of the
// orchestrator.
func checkParams(p Params) error {
	if err := validate.Struct(p); err != nil {
		return &ParamsError{Message: err.Error()}
	}
	return nil
}

// splitRecords partitions action records into creates (no id) and updates
// (id present).  Mixing both in one call is rejected by the caller.
func splitRecords(records []statement.FieldMap) (creates, updates []statement.FieldMap) {
	for _, rec := range records {
		if id, ok := rec.Get("id"); ok {
			if s, isStr := id.(string); !isStr || s != "" {
				updates = append(updates, rec)
				continue
			}
		}
		creates = append(creates, rec)
	}
	return creates, updates
}

// recordsToMaps converts ordered field maps into plain records for audit
// snapshots.
func recordsToMaps(records []statement.FieldMap) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		m := make(Record, len(rec))
		for _, f := range rec {
			m[f.Name] = f.Value
		}
		out = append(out, m)
	}
	return out
}
