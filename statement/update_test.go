// statement/update_test.go

package statement

import (
	"errors"
	"testing"
)

func TestBuildUpdateByID(t *testing.T) {
	rec := FieldMap{
		{Name: "id", Value: "x"},
		{Name: "name", Value: "a"},
		{Name: "age", Value: 5},
	}
	st, err := BuildUpdateByID("t", rec)
	if err != nil {
		t.Fatalf("BuildUpdateByID: %v", err)
	}
	want := "UPDATE t SET name=$1, age=$2 WHERE id=$3 RETURNING id"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
	if len(st.Values) != 3 || st.Values[0] != "a" || st.Values[1] != 5 || st.Values[2] != "x" {
		t.Errorf("values = %#v", st.Values)
	}
	assertParity(t, st.Text, st.Values)
}

func TestBuildUpdateByID_IDPositionIndependent(t *testing.T) {
	// id mid-record is still extracted and bound last.
	rec := FieldMap{
		{Name: "name", Value: "a"},
		{Name: "id", Value: "x"},
		{Name: "age", Value: 5},
	}
	st, err := BuildUpdateByID("t", rec)
	if err != nil {
		t.Fatalf("BuildUpdateByID: %v", err)
	}
	if st.Text != "UPDATE t SET name=$1, age=$2 WHERE id=$3 RETURNING id" {
		t.Errorf("text = %q", st.Text)
	}
	if st.Values[2] != "x" {
		t.Errorf("id not bound last: %#v", st.Values)
	}
}

func TestBuildUpdateByIDs(t *testing.T) {
	rec := FieldMap{{Name: "status", Value: "done"}}
	st, err := BuildUpdateByIDs("tasks", rec, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BuildUpdateByIDs: %v", err)
	}
	want := "UPDATE tasks SET status=$1 WHERE id IN ($2, $3, $4) RETURNING id"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
	if len(st.Values) != 4 || st.Values[3] != "c" {
		t.Errorf("values = %#v", st.Values)
	}
	assertParity(t, st.Text, st.Values)
}

func TestBuildUpdateByFilter_NumberingContinues(t *testing.T) {
	rec := FieldMap{
		{Name: "status", Value: "done"},
		{Name: "rank", Value: 2},
	}
	filter := FilterMap{
		{Field: "ownerId", Value: "u-1"},
		{Field: "kind", Value: []string{"a", "b"}},
	}
	st, err := BuildUpdateByFilter("tasks", rec, filter)
	if err != nil {
		t.Fatalf("BuildUpdateByFilter: %v", err)
	}
	want := "UPDATE tasks SET status=$1, rank=$2 WHERE owner_id=$3 AND kind IN ($4, $5)"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
	if len(st.Values) != 5 {
		t.Fatalf("values = %#v", st.Values)
	}
	assertParity(t, st.Text, st.Values)
}

func TestBuildUpdateBatch_PerRecordFieldSets(t *testing.T) {
	recs := []FieldMap{
		{{Name: "id", Value: "1"}, {Name: "name", Value: "a"}},
		{{Name: "id", Value: "2"}, {Name: "rank", Value: 7}, {Name: "name", Value: "b"}},
	}
	sts, err := BuildUpdateBatch("widgets", recs)
	if err != nil {
		t.Fatalf("BuildUpdateBatch: %v", err)
	}
	if len(sts) != 2 {
		t.Fatalf("statements = %d, want 2", len(sts))
	}
	if sts[0].Text != "UPDATE widgets SET name=$1 WHERE id=$2 RETURNING id" {
		t.Errorf("first text = %q", sts[0].Text)
	}
	if sts[1].Text != "UPDATE widgets SET rank=$1, name=$2 WHERE id=$3 RETURNING id" {
		t.Errorf("second text = %q", sts[1].Text)
	}
	if sts[1].Values[2] != "2" {
		t.Errorf("second values = %#v", sts[1].Values)
	}
}

func TestBuildUpdate_Rejections(t *testing.T) {
	if _, err := BuildUpdateByID("", FieldMap{{Name: "id", Value: "x"}, {Name: "a", Value: 1}}); err == nil {
		t.Error("missing table accepted")
	}
	if _, err := BuildUpdateByID("t", FieldMap{{Name: "a", Value: 1}}); err == nil {
		t.Error("record without id accepted")
	}
	if _, err := BuildUpdateByID("t", FieldMap{{Name: "id", Value: "x"}}); err == nil {
		t.Error("record with only id accepted")
	}
	if _, err := BuildUpdateByIDs("t", FieldMap{{Name: "a", Value: 1}}, nil); err == nil {
		t.Error("empty id list accepted")
	}
	_, err := BuildUpdateByFilter("t", FieldMap{{Name: "a", Value: 1}}, FilterMap{})
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Errorf("empty filter err = %v, want *CompileError", err)
	}
}
