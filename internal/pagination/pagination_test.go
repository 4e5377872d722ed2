package pagination

import "testing"

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name       string
		req        PageRequest
		want       []int
		totalPages int
	}{
		{name: "defaults", req: PageRequest{}, want: []int{1, 2, 3, 4, 5}, totalPages: 1},
		{name: "first page", req: PageRequest{Page: 1, PageSize: 2}, want: []int{1, 2}, totalPages: 3},
		{name: "last partial page", req: PageRequest{Page: 3, PageSize: 2}, want: []int{5}, totalPages: 3},
		{name: "past the end", req: PageRequest{Page: 9, PageSize: 2}, want: []int{}, totalPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(items, tt.req)
			if len(got.Data) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got.Data)
			}
			for i := range tt.want {
				if got.Data[i] != tt.want[i] {
					t.Errorf("item %d: expected %d, got %d", i, tt.want[i], got.Data[i])
				}
			}
			if got.TotalItems != 5 {
				t.Errorf("expected 5 total items, got %d", got.TotalItems)
			}
			if got.TotalPages != tt.totalPages {
				t.Errorf("expected %d pages, got %d", tt.totalPages, got.TotalPages)
			}
		})
	}
}

func TestSlice_DoesNotAlias(t *testing.T) {
	items := []string{"a", "b"}
	got := Slice(items, PageRequest{Page: 1, PageSize: 1})
	got.Data[0] = "z"
	if items[0] != "a" {
		t.Error("Slice must copy the page")
	}
}

func TestPageRequest_Offset(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 10}
	if req.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", req.Offset())
	}
}
