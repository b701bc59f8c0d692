// statement/select_test.go

package statement

import "testing"

var widgetModel = FieldMap{
	{Name: "id"},
	{Name: "name"},
	{Name: "createdBy"},
	{Name: "createdAt"},
}

func TestBuildSelectAll(t *testing.T) {
	st, err := BuildSelectAll(widgetModel, "widgets", SelectOptions{})
	if err != nil {
		t.Fatalf("BuildSelectAll: %v", err)
	}
	want := "SELECT id, name, created_by, created_at FROM widgets"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
	if len(st.Values) != 0 {
		t.Errorf("values = %#v", st.Values)
	}
	if st.Fields[2] != "createdBy" || st.Columns[2] != "created_by" {
		t.Errorf("projection = %v / %v", st.Fields, st.Columns)
	}
}

func TestBuildSelectAll_SortAndPaging(t *testing.T) {
	st, err := BuildSelectAll(widgetModel, "widgets", SelectOptions{
		Skip:  20,
		Limit: 10,
		Sort:  []Order{{Field: "createdAt", Desc: true}, {Field: "name"}},
	})
	if err != nil {
		t.Fatalf("BuildSelectAll: %v", err)
	}
	want := "SELECT id, name, created_by, created_at FROM widgets" +
		" ORDER BY created_at DESC, name LIMIT 10 OFFSET 20"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
}

func TestBuildSelectAll_NonPositivePagingOmitted(t *testing.T) {
	st, err := BuildSelectAll(widgetModel, "widgets", SelectOptions{Skip: -1, Limit: 0})
	if err != nil {
		t.Fatalf("BuildSelectAll: %v", err)
	}
	if st.Text != "SELECT id, name, created_by, created_at FROM widgets" {
		t.Errorf("text = %q", st.Text)
	}
}

func TestBuildSelectByID(t *testing.T) {
	st, err := BuildSelectByID(widgetModel, "widgets", "w-1", SelectOptions{})
	if err != nil {
		t.Fatalf("BuildSelectByID: %v", err)
	}
	if st.Text != "SELECT id, name, created_by, created_at FROM widgets WHERE id=$1" {
		t.Errorf("text = %q", st.Text)
	}
	assertParity(t, st.Text, st.Values)
}

func TestBuildSelectByIDs(t *testing.T) {
	st, err := BuildSelectByIDs(widgetModel, "widgets", []string{"a", "b", "c"}, SelectOptions{Limit: 5})
	if err != nil {
		t.Fatalf("BuildSelectByIDs: %v", err)
	}
	want := "SELECT id, name, created_by, created_at FROM widgets WHERE id IN ($1, $2, $3) LIMIT 5"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
	assertParity(t, st.Text, st.Values)
}

func TestBuildSelectByFilter(t *testing.T) {
	st, err := BuildSelectByFilter(widgetModel, "widgets", FilterMap{
		{Field: "createdBy", Value: "u-1"},
	}, SelectOptions{})
	if err != nil {
		t.Fatalf("BuildSelectByFilter: %v", err)
	}
	want := "SELECT id, name, created_by, created_at FROM widgets WHERE created_by=$1"
	if st.Text != want {
		t.Errorf("text = %q, want %q", st.Text, want)
	}
}

func TestBuildSelect_Rejections(t *testing.T) {
	if _, err := BuildSelectAll(nil, "widgets", SelectOptions{}); err == nil {
		t.Error("missing model accepted")
	}
	if _, err := BuildSelectAll(widgetModel, "", SelectOptions{}); err == nil {
		t.Error("missing table accepted")
	}
	if _, err := BuildSelectByID(widgetModel, "widgets", "", SelectOptions{}); err == nil {
		t.Error("empty id accepted")
	}
	if _, err := BuildSelectByIDs(widgetModel, "widgets", nil, SelectOptions{}); err == nil {
		t.Error("empty id list accepted")
	}
}
