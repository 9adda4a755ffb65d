package insights

import "testing"

func TestStoreAppendAndList(t *testing.T) {
	s := NewStore()
	first := s.Append("orders spike on mondays", "read_query")
	s.Append("users.email has duplicates", "")

	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Errorf("insight = %+v, missing id or timestamp", first)
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Text != "orders spike on mondays" || list[1].Source != "" {
		t.Errorf("list = %v", list)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
