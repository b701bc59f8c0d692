// statement/delete.go
//
// DELETE synthesis.  Same WHERE-construction rules as update, minus the SET
// clause; placeholders therefore start at $1.
package statement

// BuildDeleteByID compiles "DELETE FROM table WHERE id=$1".
func BuildDeleteByID(table, recordID string) (GeneratedStatement, error) {
	if table == "" {
		return GeneratedStatement{}, compileErr("", "", "table name is required")
	}
	if recordID == "" {
		return GeneratedStatement{}, compileErr(table, idField, "record id is required")
	}
	return GeneratedStatement{
		Text:   "DELETE FROM " + table + " WHERE id=$1",
		Values: []any{recordID},
	}, nil
}

// BuildDeleteByIDs compiles a delete keyed on a placeholder-bound id list.
func BuildDeleteByIDs(table string, ids []string) (GeneratedStatement, error) {
	if table == "" {
		return GeneratedStatement{}, compileErr("", "", "table name is required")
	}
	where, err := idListClause(table, ids, 1)
	if err != nil {
		return GeneratedStatement{}, err
	}
	return GeneratedStatement{
		Text:   "DELETE FROM " + table + where.Text,
		Values: where.Values,
	}, nil
}

// BuildDeleteByFilter compiles a delete keyed on a compiled filter.
func BuildDeleteByFilter(table string, filter FilterMap) (GeneratedStatement, error) {
	if table == "" {
		return GeneratedStatement{}, compileErr("", "", "table name is required")
	}
	where, err := CompileWhere(filter, 1)
	if err != nil {
		return GeneratedStatement{}, err
	}
	return GeneratedStatement{
		Text:   "DELETE FROM " + table + where.Text,
		Values: where.Values,
	}, nil
}
