// statement/create.go
//
// INSERT synthesis.
//
// Context
// -------
// A batch create shares one INSERT template across all records: the column
// list and placeholder layout come from the *first* record's field set, and
// each record contributes one ordered value row read back through those same
// field names.  A later record missing a field the first one has is a compile
// error — field sets are never auto-reconciled.  `RETURNING id` is mandatory
// so the executor can confirm exactly one row per statement and capture the
// generated identifier.
package statement

import (
	"strconv"
	"strings"

	"github.com/tidemill/datagate/naming"
)

// InsertStatement is one INSERT template plus one value row per input
// record.  Row i corresponds to input record i, by construction.
type InsertStatement struct {
	Text    string
	Columns []string
	Rows    [][]any
}

// Statements expands the template into one GeneratedStatement per record,
// preserving input order.
func (s InsertStatement) Statements() []GeneratedStatement {
	out := make([]GeneratedStatement, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = GeneratedStatement{Text: s.Text, Values: row}
	}
	return out
}

// BuildInsert compiles an INSERT template for table from records.  Any "id"
// field is excluded from the column list; the database assigns identifiers,
// returned via RETURNING.
func BuildInsert(table string, records []FieldMap) (InsertStatement, error) {
	if table == "" {
		return InsertStatement{}, compileErr("", "", "table name is required")
	}
	if len(records) == 0 {
		return InsertStatement{}, compileErr(table, "", "at least one record is required")
	}

	fields, _, _ := records[0].splitID()
	if len(fields) == 0 {
		return InsertStatement{}, compileErr(table, "", "record has no insertable fields")
	}

	names := fields.Names()
	columns := make([]string, len(names))
	for i, f := range names {
		columns[i] = naming.ToColumn(f)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteByte('(')
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES(")
	for i := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(i + 1))
	}
	b.WriteString(") RETURNING id")

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, 0, len(names))
		for _, f := range names {
			v, ok := rec.Get(f)
			if !ok {
				return InsertStatement{}, compileErr(table, f, "record is missing a required field")
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}

	return InsertStatement{Text: b.String(), Columns: columns, Rows: rows}, nil
}
