// statement/where.go
//
// Filter → WHERE predicate compiler.
//
// Context
// -------
// CompileWhere turns an ordered FilterMap into a predicate fragment starting
// at a caller-chosen placeholder index, so it can be appended after a SET
// clause without colliding with its markers.  Scalars compile to `col=$n`;
// homogeneous lists compile to `col IN ($n, $n+1, …)` with every member bound
// as its own placeholder.  Anything else — nil, nested structures, or a
// mixed-type list — is a *CompileError naming the offending field.
package statement

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/tidemill/datagate/naming"
)

// WhereClause is a compiled predicate fragment.  Text begins with " WHERE ";
// Next is the first placeholder index not consumed by the fragment.
type WhereClause struct {
	Text   string
	Values []any
	Next   int
}

// valueKind buckets filter scalars for the list-homogeneity check.  The
// numeric bucket spans the integer and float widths a JSON decode or a typed
// caller may produce; mixing numbers with strings or booleans is an error.
type valueKind int

const (
	kindInvalid valueKind = iota
	kindString
	kindBool
	kindNumber
)

func kindOf(v any) valueKind {
	switch v.(type) {
	case string:
		return kindString
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return kindNumber
	}
	return kindInvalid
}

// CompileWhere compiles filter into a predicate fragment whose placeholders
// start at index start (≥ 1).  Conditions are emitted in FilterMap order and
// joined with AND.
func CompileWhere(filter FilterMap, start int) (WhereClause, error) {
	if len(filter) == 0 {
		return WhereClause{}, compileErr("", "", "filter conditions are required")
	}
	if start < 1 {
		return WhereClause{}, compileErr("", "", "starting placeholder index must be >= 1, got %d", start)
	}

	var b strings.Builder
	b.WriteString(" WHERE ")
	values := make([]any, 0, len(filter))
	n := start

	for i, cond := range filter {
		if i > 0 {
			b.WriteString(" AND ")
		}
		col := naming.ToColumn(cond.Field)

		if cond.Value == nil {
			return WhereClause{}, compileErr("", cond.Field, "nil filter value is not supported")
		}
		if kindOf(cond.Value) != kindInvalid {
			b.WriteString(col)
			b.WriteString("=$")
			b.WriteString(strconv.Itoa(n))
			values = append(values, cond.Value)
			n++
			continue
		}

		rv := reflect.ValueOf(cond.Value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return WhereClause{}, compileErr("", cond.Field,
				"unsupported filter value type %T", cond.Value)
		}
		if rv.Len() == 0 {
			return WhereClause{}, compileErr("", cond.Field, "empty filter list")
		}

		// Every member is bound as its own placeholder; the list must be
		// type-homogeneous or the compile fails outright.
		first := kindOf(rv.Index(0).Interface())
		if first == kindInvalid {
			return WhereClause{}, compileErr("", cond.Field,
				"unsupported list member type %T", rv.Index(0).Interface())
		}
		b.WriteString(col)
		b.WriteString(" IN (")
		for j := 0; j < rv.Len(); j++ {
			member := rv.Index(j).Interface()
			if kindOf(member) != first {
				return WhereClause{}, compileErr("", cond.Field,
					"mixed-type filter list (%T vs %T)", rv.Index(0).Interface(), member)
			}
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			values = append(values, member)
			n++
		}
		b.WriteByte(')')
	}

	return WhereClause{Text: b.String(), Values: values, Next: n}, nil
}

// idListClause emits " WHERE id IN ($start …)" for the given ids, binding
// each id as a placeholder.  Shared by the update, delete, and select
// builders.
func idListClause(table string, ids []string, start int) (WhereClause, error) {
	if len(ids) == 0 {
		return WhereClause{}, compileErr(table, idField, "record ids are required")
	}
	var b strings.Builder
	b.WriteString(" WHERE id IN (")
	values := make([]any, 0, len(ids))
	n := start
	for i, id := range ids {
		if id == "" {
			return WhereClause{}, compileErr(table, idField, "empty record id at position %d", i)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
		values = append(values, id)
		n++
	}
	b.WriteByte(')')
	return WhereClause{Text: b.String(), Values: values, Next: n}, nil
}
