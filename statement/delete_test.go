// statement/delete_test.go

package statement

import (
	"errors"
	"testing"
)

func TestBuildDeleteByID(t *testing.T) {
	st, err := BuildDeleteByID("widgets", "w-1")
	if err != nil {
		t.Fatalf("BuildDeleteByID: %v", err)
	}
	if st.Text != "DELETE FROM widgets WHERE id=$1" {
		t.Errorf("text = %q", st.Text)
	}
	if len(st.Values) != 1 || st.Values[0] != "w-1" {
		t.Errorf("values = %#v", st.Values)
	}
}

func TestBuildDeleteByIDs(t *testing.T) {
	st, err := BuildDeleteByIDs("widgets", []string{"a", "b"})
	if err != nil {
		t.Fatalf("BuildDeleteByIDs: %v", err)
	}
	if st.Text != "DELETE FROM widgets WHERE id IN ($1, $2)" {
		t.Errorf("text = %q", st.Text)
	}
	assertParity(t, st.Text, st.Values)
}

func TestBuildDeleteByFilter(t *testing.T) {
	st, err := BuildDeleteByFilter("widgets", FilterMap{
		{Field: "ownerId", Value: "u-1"},
		{Field: "status", Value: []string{"stale", "orphaned"}},
	})
	if err != nil {
		t.Fatalf("BuildDeleteByFilter: %v", err)
	}
	want := "DELETE FROM widgets WHERE owner_id=$1 AND status IN ($2, $3)"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
	assertParity(t, st.Text, st.Values)
}

func TestBuildDelete_Rejections(t *testing.T) {
	if _, err := BuildDeleteByID("", "x"); err == nil {
		t.Error("missing table accepted")
	}
	if _, err := BuildDeleteByID("t", ""); err == nil {
		t.Error("empty id accepted")
	}
	if _, err := BuildDeleteByIDs("t", []string{"a", ""}); err == nil {
		t.Error("blank id in list accepted")
	}
	_, err := BuildDeleteByFilter("t", FilterMap{{Field: "a", Value: []any{1, "x"}}})
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Errorf("mixed list err = %v, want *CompileError", err)
	}
}
