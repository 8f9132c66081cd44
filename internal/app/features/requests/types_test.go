package requests

import "testing"

func TestListData_PageURL(t *testing.T) {
	tests := []struct {
		name  string
		d     listData
		start int
		want  string
	}{
		{"no filters first page", listData{}, 1, "/requests"},
		{"no filters later page", listData{}, 26, "/requests?start=26"},
		{"filters kept", listData{Status: "open", Search: "rent due"}, 26, "/requests?search=rent+due&start=26&status=open"},
		{"filters on first page", listData{Category: "abc"}, 1, "/requests?category=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.PageURL(tt.start); got != tt.want {
				t.Errorf("PageURL(%d) = %q, want %q", tt.start, got, tt.want)
			}
		})
	}
}
