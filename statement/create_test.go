// statement/create_test.go

package statement

import (
	"errors"
	"testing"
)

func TestBuildInsert_SingleRecord(t *testing.T) {
	rec := FieldMap{
		{Name: "firstName", Value: "Abi"},
		{Name: "age", Value: 30},
	}
	st, err := BuildInsert("audits", []FieldMap{rec})
	if err != nil {
		t.Fatalf("BuildInsert: %v", err)
	}
	want := "INSERT INTO audits(first_name, age) VALUES($1, $2) RETURNING id"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
	if len(st.Rows) != 1 || len(st.Rows[0]) != 2 {
		t.Fatalf("rows = %#v", st.Rows)
	}
	if st.Rows[0][0] != "Abi" || st.Rows[0][1] != 30 {
		t.Errorf("row values = %#v", st.Rows[0])
	}
	assertParity(t, st.Text, st.Rows[0])
}

func TestBuildInsert_BatchSharesTemplate(t *testing.T) {
	recs := []FieldMap{
		{{Name: "name", Value: "a"}, {Name: "rank", Value: 1}},
		{{Name: "name", Value: "b"}, {Name: "rank", Value: 2}},
		{{Name: "name", Value: "c"}, {Name: "rank", Value: 3}},
	}
	st, err := BuildInsert("widgets", recs)
	if err != nil {
		t.Fatalf("BuildInsert: %v", err)
	}
	if len(st.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(st.Rows))
	}
	// Row i corresponds to record i.
	for i, want := range []string{"a", "b", "c"} {
		if st.Rows[i][0] != want {
			t.Errorf("row %d name = %v, want %q", i, st.Rows[i][0], want)
		}
	}
	sts := st.Statements()
	if len(sts) != 3 || sts[1].Text != st.Text || sts[1].Values[0] != "b" {
		t.Errorf("Statements() = %#v", sts)
	}
}

func TestBuildInsert_StripsID(t *testing.T) {
	rec := FieldMap{
		{Name: "id", Value: "should-not-appear"},
		{Name: "name", Value: "a"},
	}
	st, err := BuildInsert("widgets", []FieldMap{rec})
	if err != nil {
		t.Fatalf("BuildInsert: %v", err)
	}
	want := "INSERT INTO widgets(name) VALUES($1) RETURNING id"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
	if len(st.Rows[0]) != 1 || st.Rows[0][0] != "a" {
		t.Errorf("row = %#v", st.Rows[0])
	}
}

func TestBuildInsert_FieldSetMismatch(t *testing.T) {
	recs := []FieldMap{
		{{Name: "name", Value: "a"}, {Name: "rank", Value: 1}},
		{{Name: "name", Value: "b"}}, // missing rank
	}
	_, err := BuildInsert("widgets", recs)
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CompileError", err)
	}
	if ce.Field != "rank" {
		t.Errorf("error field = %q, want %q", ce.Field, "rank")
	}
}

func TestBuildInsert_Rejections(t *testing.T) {
	if _, err := BuildInsert("", []FieldMap{{{Name: "a", Value: 1}}}); err == nil {
		t.Error("missing table accepted")
	}
	if _, err := BuildInsert("t", nil); err == nil {
		t.Error("empty record set accepted")
	}
	if _, err := BuildInsert("t", []FieldMap{{{Name: "id", Value: "x"}}}); err == nil {
		t.Error("id-only record accepted")
	}
}
