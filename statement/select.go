// statement/select.go
//
// SELECT synthesis.
//
// Context
// -------
// Reads project the full column list derived from a reference field shape
// (the "model"), so result rows can be mapped back to field-named records.
// Options add ORDER BY, LIMIT, and OFFSET; a zero or negative skip/limit is
// simply omitted.  Sort and paging are rendered after the WHERE clause and
// never consume placeholders — sort columns go through the name mapper and
// limits are integers formatted directly.
package statement

import (
	"strconv"
	"strings"

	"github.com/tidemill/datagate/naming"
)

// Order is one ORDER BY term.
type Order struct {
	Field string
	Desc  bool
}

// SelectOptions carries paging and sort for the select builders.
type SelectOptions struct {
	Skip  int
	Limit int
	Sort  []Order
}

// SelectStatement is a compiled read: statement text, bound values, and the
// projected column list with its field-name counterparts, in order.
type SelectStatement struct {
	Text    string
	Values  []any
	Columns []string
	Fields  []string
}

// projection derives the ordered column and field lists from the model.  The
// model's own "id" field participates — reads return identifiers.
func projection(table string, model FieldMap) ([]string, []string, error) {
	if table == "" {
		return nil, nil, compileErr("", "", "table name is required")
	}
	if len(model) == 0 {
		return nil, nil, compileErr(table, "", "a model (reference field shape) is required")
	}
	fields := model.Names()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = naming.ToColumn(f)
	}
	return columns, fields, nil
}

func appendOptions(b *strings.Builder, opt SelectOptions) {
	for i, o := range opt.Sort {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(naming.ToColumn(o.Field))
		if o.Desc {
			b.WriteString(" DESC")
		}
	}
	if opt.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(opt.Limit))
	}
	if opt.Skip > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(opt.Skip))
	}
}

func selectPrefix(table string, columns []string) string {
	return "SELECT " + strings.Join(columns, ", ") + " FROM " + table
}

// BuildSelectAll compiles an unfiltered read of the whole table.
func BuildSelectAll(model FieldMap, table string, opt SelectOptions) (SelectStatement, error) {
	columns, fields, err := projection(table, model)
	if err != nil {
		return SelectStatement{}, err
	}
	var b strings.Builder
	b.WriteString(selectPrefix(table, columns))
	appendOptions(&b, opt)
	return SelectStatement{Text: b.String(), Columns: columns, Fields: fields}, nil
}

// BuildSelectByID compiles a single-record read keyed on id.
func BuildSelectByID(model FieldMap, table, recordID string, opt SelectOptions) (SelectStatement, error) {
	columns, fields, err := projection(table, model)
	if err != nil {
		return SelectStatement{}, err
	}
	if recordID == "" {
		return SelectStatement{}, compileErr(table, idField, "record id is required")
	}
	var b strings.Builder
	b.WriteString(selectPrefix(table, columns))
	b.WriteString(" WHERE id=$1")
	appendOptions(&b, opt)
	return SelectStatement{
		Text:    b.String(),
		Values:  []any{recordID},
		Columns: columns,
		Fields:  fields,
	}, nil
}

// BuildSelectByIDs compiles a read keyed on a placeholder-bound id list.
func BuildSelectByIDs(model FieldMap, table string, ids []string, opt SelectOptions) (SelectStatement, error) {
	columns, fields, err := projection(table, model)
	if err != nil {
		return SelectStatement{}, err
	}
	where, err := idListClause(table, ids, 1)
	if err != nil {
		return SelectStatement{}, err
	}
	var b strings.Builder
	b.WriteString(selectPrefix(table, columns))
	b.WriteString(where.Text)
	appendOptions(&b, opt)
	return SelectStatement{
		Text:    b.String(),
		Values:  where.Values,
		Columns: columns,
		Fields:  fields,
	}, nil
}

// BuildSelectByFilter compiles a read keyed on a compiled filter.
func BuildSelectByFilter(model FieldMap, table string, filter FilterMap, opt SelectOptions) (SelectStatement, error) {
	columns, fields, err := projection(table, model)
	if err != nil {
		return SelectStatement{}, err
	}
	where, err := CompileWhere(filter, 1)
	if err != nil {
		return SelectStatement{}, err
	}
	var b strings.Builder
	b.WriteString(selectPrefix(table, columns))
	b.WriteString(where.Text)
	appendOptions(&b, opt)
	return SelectStatement{
		Text:    b.String(),
		Values:  where.Values,
		Columns: columns,
		Fields:  fields,
	}, nil
}
