package paging

import (
	"net/http/httptest"
	"testing"
)

func TestLimitPlusOne(t *testing.T) {
	if got, want := LimitPlusOne(), int64(PageSize+1); got != want {
		t.Errorf("LimitPlusOne() = %d, want %d", got, want)
	}
}

func TestParseStart(t *testing.T) {
	tests := []struct {
		target string
		want   int
	}{
		{"/requests", 1},
		{"/requests?start=26", 26},
		{"/requests?start=0", 1},
		{"/requests?start=-4", 1},
		{"/requests?start=abc", 1},
	}
	for _, tt := range tests {
		if got := ParseStart(httptest.NewRequest("GET", tt.target, nil)); got != tt.want {
			t.Errorf("ParseStart(%q) = %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestSkip(t *testing.T) {
	if Skip(1) != 0 || Skip(26) != 25 || Skip(0) != 0 {
		t.Error("Skip should map a 1-based start to a 0-based offset")
	}
}

func TestTrimPage(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		start    int
		wantLen  int
		wantPrev bool
		wantNext bool
	}{
		{"short first page", 3, 1, 3, false, false},
		{"full first page with more", PageSize + 1, 1, PageSize, false, true},
		{"exact page", PageSize, 1, PageSize, false, false},
		{"later page with more", PageSize + 1, PageSize + 1, PageSize, true, true},
		{"last page", 2, PageSize + 1, 2, true, false},
		{"empty", 0, 1, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]int, tt.rows)
			res := TrimPage(&rows, tt.start)
			if len(rows) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(rows), tt.wantLen)
			}
			if res.HasPrev != tt.wantPrev || res.HasNext != tt.wantNext {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name  string
		start int
		shown int
		want  Range
	}{
		{"empty", 1, 0, Range{PrevStart: 1, NextStart: 1}},
		{"first page", 1, PageSize, Range{Start: 1, End: PageSize, PrevStart: 1, NextStart: PageSize + 1}},
		{"second page partial", PageSize + 1, 3, Range{Start: PageSize + 1, End: PageSize + 3, PrevStart: 1, NextStart: PageSize + 4}},
		{"third page", 2*PageSize + 1, PageSize, Range{Start: 2*PageSize + 1, End: 3 * PageSize, PrevStart: PageSize + 1, NextStart: 3*PageSize + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeRange(tt.start, tt.shown); got != tt.want {
				t.Errorf("ComputeRange(%d, %d) = %+v, want %+v", tt.start, tt.shown, got, tt.want)
			}
		})
	}
}
