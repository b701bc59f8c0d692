// statement/statement.go
//
// Statement synthesis — shared types.
//
// Context
// -------
// The statement package compiles structured record inputs into parameterised
// PostgreSQL text plus an ordered value slice.  Four builder families live in
// sibling files:
//
//   - create.go — INSERT … RETURNING id templates with per-record values.
//   - update.go — UPDATE … SET, keyed by id, id list, or compiled filter.
//   - delete.go — DELETE keyed the same three ways.
//   - select.go — projection from a reference model, with sort and paging.
//
// Every builder numbers placeholders contiguously from $1 and guarantees that
// marker $i binds Values[i-1].  Malformed input is a *CompileError returned to
// the caller; nothing in this package panics, touches a database, or retains
// state between calls.  A fresh input value is built per request, so builders
// are safe for concurrent use.
//
// Notes
// -----
// • Table and column identifiers are embedded literally; they come from the
//   application's own schema vocabulary, never from end-user input.
// • Data values are always placeholder-bound, list members included.
// • Oxford commas, two spaces after periods.
package statement

import "fmt"

// Field is one named value of a record.
type Field struct {
	Name  string
	Value any
}

// FieldMap is an ordered record: create and update statements lay out
// columns in FieldMap order, so a given construction order yields a stable
// statement shape.  A field named "id" is never part of a SET or INSERT
// column list; builders extract it as a WHERE key.
type FieldMap []Field

// Get returns the value for name and whether it is present.
func (m FieldMap) Get(name string) (any, bool) {
	for _, f := range m {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in order.
func (m FieldMap) Names() []string {
	names := make([]string, 0, len(m))
	for _, f := range m {
		names = append(names, f.Name)
	}
	return names
}

// splitID returns the map without its "id" field, plus the id value when one
// was present and non-empty.
func (m FieldMap) splitID() (rest FieldMap, id any, ok bool) {
	rest = make(FieldMap, 0, len(m))
	for _, f := range m {
		if f.Name == idField {
			if s, isStr := f.Value.(string); isStr && s == "" {
				continue // empty id is treated as absent
			}
			id, ok = f.Value, f.Value != nil
			continue
		}
		rest = append(rest, f)
	}
	return rest, id, ok
}

// Condition is one filter predicate: a scalar value means equality, a
// homogeneous slice means set membership (IN).
type Condition struct {
	Field string
	Value any
}

// FilterMap is an ordered list of conditions joined with AND.
type FilterMap []Condition

// GeneratedStatement is one executable statement: parameterised text and the
// values bound to its numbered placeholders, in order.
type GeneratedStatement struct {
	Text   string
	Values []any
}

// idField is the reserved primary-key field name.
const idField = "id"

// CompileError reports malformed or incomplete builder input.  It is always
// produced at compile time; statements that fail to compile are never sent
// anywhere near a database.
type CompileError struct {
	Table   string // target table, when known
	Field   string // offending field, when one can be named
	Message string
}

func (e *CompileError) Error() string {
	switch {
	case e.Table != "" && e.Field != "":
		return fmt.Sprintf("statement: table %q, field %q: %s", e.Table, e.Field, e.Message)
	case e.Table != "":
		return fmt.Sprintf("statement: table %q: %s", e.Table, e.Message)
	case e.Field != "":
		return fmt.Sprintf("statement: field %q: %s", e.Field, e.Message)
	}
	return "statement: " + e.Message
}

func compileErr(table, field, format string, args ...any) *CompileError {
	return &CompileError{Table: table, Field: field, Message: fmt.Sprintf(format, args...)}
}
