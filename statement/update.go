// statement/update.go
//
// UPDATE synthesis.
//
// Context
// -------
// Every update strips the "id" field from the SET list and keys the WHERE
// clause on it instead.  The SET clause consumes placeholders 1..n; id or
// filter markers continue from n+1, so the two clauses never collide.  The
// id-keyed forms append RETURNING id so the executor can verify affected-row
// identity; the filter form does not return ids, since filter-matched rows
// are not individually tracked.
package statement

import (
	"strconv"
	"strings"

	"github.com/tidemill/datagate/naming"
)

// setClause renders "UPDATE table SET col1=$1, …" and returns the builder,
// bound values, and the next free placeholder index.
func setClause(table string, fields FieldMap) (*strings.Builder, []any, int) {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	values := make([]any, 0, len(fields)+1)
	n := 1
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(naming.ToColumn(f.Name))
		b.WriteString("=$")
		b.WriteString(strconv.Itoa(n))
		values = append(values, f.Value)
		n++
	}
	return &b, values, n
}

func checkUpdateInput(table string, record FieldMap) error {
	if table == "" {
		return compileErr("", "", "table name is required")
	}
	if len(record) == 0 {
		return compileErr(table, "", "update record is required")
	}
	return nil
}

// BuildUpdateByID compiles an update keyed on the record's own "id" field.
//
//	{id:"x", name:"a", age:5} → UPDATE t SET name=$1, age=$2 WHERE id=$3 RETURNING id
func BuildUpdateByID(table string, record FieldMap) (GeneratedStatement, error) {
	if err := checkUpdateInput(table, record); err != nil {
		return GeneratedStatement{}, err
	}
	fields, id, ok := record.splitID()
	if !ok {
		return GeneratedStatement{}, compileErr(table, idField, "update record has no id")
	}
	if len(fields) == 0 {
		return GeneratedStatement{}, compileErr(table, "", "update record has no fields to set")
	}

	b, values, n := setClause(table, fields)
	b.WriteString(" WHERE id=$")
	b.WriteString(strconv.Itoa(n))
	b.WriteString(" RETURNING id")
	values = append(values, id)
	return GeneratedStatement{Text: b.String(), Values: values}, nil
}

// BuildUpdateByIDs compiles one update applied to several records at once,
// keyed on an explicit id list.  Ids are placeholder-bound after the SET
// markers; the record's own "id" field, if any, is discarded.
func BuildUpdateByIDs(table string, record FieldMap, ids []string) (GeneratedStatement, error) {
	if err := checkUpdateInput(table, record); err != nil {
		return GeneratedStatement{}, err
	}
	fields, _, _ := record.splitID()
	if len(fields) == 0 {
		return GeneratedStatement{}, compileErr(table, "", "update record has no fields to set")
	}

	b, values, n := setClause(table, fields)
	where, err := idListClause(table, ids, n)
	if err != nil {
		return GeneratedStatement{}, err
	}
	b.WriteString(where.Text)
	b.WriteString(" RETURNING id")
	values = append(values, where.Values...)
	return GeneratedStatement{Text: b.String(), Values: values}, nil
}

// BuildUpdateByFilter compiles an update whose WHERE clause is a compiled
// filter.  The filter compiler starts numbering immediately after the SET
// clause's last placeholder.
func BuildUpdateByFilter(table string, record FieldMap, filter FilterMap) (GeneratedStatement, error) {
	if err := checkUpdateInput(table, record); err != nil {
		return GeneratedStatement{}, err
	}
	fields, _, _ := record.splitID()
	if len(fields) == 0 {
		return GeneratedStatement{}, compileErr(table, "", "update record has no fields to set")
	}

	b, values, n := setClause(table, fields)
	where, err := CompileWhere(filter, n)
	if err != nil {
		return GeneratedStatement{}, err
	}
	b.WriteString(where.Text)
	values = append(values, where.Values...)
	return GeneratedStatement{Text: b.String(), Values: values}, nil
}

// BuildUpdateBatch compiles one update per record, each keyed on that
// record's own "id" field.  Records keep their own field sets; statement i
// corresponds to input record i.
func BuildUpdateBatch(table string, records []FieldMap) ([]GeneratedStatement, error) {
	if table == "" {
		return nil, compileErr("", "", "table name is required")
	}
	if len(records) == 0 {
		return nil, compileErr(table, "", "at least one record is required")
	}
	out := make([]GeneratedStatement, 0, len(records))
	for _, rec := range records {
		st, err := BuildUpdateByID(table, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
