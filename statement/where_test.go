// statement/where_test.go
//
// Tests for the filter → WHERE compiler: placeholder numbering, list
// binding, homogeneity enforcement, and rejection of malformed input.

package statement

import (
	"errors"
	"regexp"
	"testing"
)

// markerCount counts distinct $n markers in statement text.  Used across the
// package's tests to assert placeholder/value parity.
var markerRE = regexp.MustCompile(`\$\d+`)

func markerCount(text string) int {
	return len(markerRE.FindAllString(text, -1))
}

func assertParity(t *testing.T, text string, values []any) {
	t.Helper()
	if got, want := markerCount(text), len(values); got != want {
		t.Errorf("marker/value mismatch: %d markers, %d values in %q", got, want, text)
	}
}

func TestCompileWhere_Scalars(t *testing.T) {
	filter := FilterMap{
		{Field: "firstName", Value: "Abi"},
		{Field: "age", Value: 30},
		{Field: "isActive", Value: true},
	}
	w, err := CompileWhere(filter, 1)
	if err != nil {
		t.Fatalf("CompileWhere: %v", err)
	}
	want := " WHERE first_name=$1 AND age=$2 AND is_active=$3"
	if w.Text != want {
		t.Errorf("text = %q, want %q", w.Text, want)
	}
	if len(w.Values) != 3 || w.Values[0] != "Abi" || w.Values[1] != 30 || w.Values[2] != true {
		t.Errorf("values = %#v", w.Values)
	}
	if w.Next != 4 {
		t.Errorf("next = %d, want 4", w.Next)
	}
	assertParity(t, w.Text, w.Values)
}

func TestCompileWhere_StartOffset(t *testing.T) {
	w, err := CompileWhere(FilterMap{{Field: "name", Value: "a"}}, 5)
	if err != nil {
		t.Fatalf("CompileWhere: %v", err)
	}
	if w.Text != " WHERE name=$5" {
		t.Errorf("text = %q", w.Text)
	}
	if w.Next != 6 {
		t.Errorf("next = %d, want 6", w.Next)
	}
}

func TestCompileWhere_ListBindsEveryMember(t *testing.T) {
	filter := FilterMap{
		{Field: "status", Value: []string{"new", "open", "closed"}},
		{Field: "ownerId", Value: "u-1"},
	}
	w, err := CompileWhere(filter, 1)
	if err != nil {
		t.Fatalf("CompileWhere: %v", err)
	}
	want := " WHERE status IN ($1, $2, $3) AND owner_id=$4"
	if w.Text != want {
		t.Errorf("text = %q, want %q", w.Text, want)
	}
	if len(w.Values) != 4 {
		t.Fatalf("values = %#v", w.Values)
	}
	if w.Next != 5 {
		t.Errorf("next = %d, want 5", w.Next)
	}
	assertParity(t, w.Text, w.Values)
}

func TestCompileWhere_NumericList(t *testing.T) {
	w, err := CompileWhere(FilterMap{{Field: "age", Value: []any{25, 30, int64(35)}}}, 1)
	if err != nil {
		t.Fatalf("CompileWhere: %v", err)
	}
	if w.Text != " WHERE age IN ($1, $2, $3)" {
		t.Errorf("text = %q", w.Text)
	}
}

func TestCompileWhere_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		filter FilterMap
		start  int
	}{
		{"empty filter", FilterMap{}, 1},
		{"zero start", FilterMap{{Field: "a", Value: 1}}, 0},
		{"nil value", FilterMap{{Field: "a", Value: nil}}, 1},
		{"nested map", FilterMap{{Field: "a", Value: map[string]any{"x": 1}}}, 1},
		{"mixed list", FilterMap{{Field: "a", Value: []any{"a", 1}}}, 1},
		{"empty list", FilterMap{{Field: "a", Value: []string{}}}, 1},
		{"struct member", FilterMap{{Field: "a", Value: []any{struct{}{}}}}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, err := CompileWhere(c.filter, c.start)
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *CompileError", err)
			}
			if w.Text != "" {
				t.Errorf("rejected compile produced text %q", w.Text)
			}
		})
	}
}

func TestCompileWhere_MixedListNamesField(t *testing.T) {
	_, err := CompileWhere(FilterMap{{Field: "tags", Value: []any{"a", 1}}}, 1)
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CompileError", err)
	}
	if ce.Field != "tags" {
		t.Errorf("error field = %q, want %q", ce.Field, "tags")
	}
}
