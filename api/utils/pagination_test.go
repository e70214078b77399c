package utils

import (
	"net/http/httptest"
	"testing"
)

func TestExtractPagination(t *testing.T) {
	tests := []struct {
		url        string
		wantPage   int
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{"/rows", 1, 1000, 0, false},
		{"/rows?page=3", 3, 1000, 2000, false},
		{"/rows?page=2&limit=50", 2, 50, 50, false},
		{"/rows?page=0", 0, 0, 0, true},
		{"/rows?page=abc", 0, 0, 0, true},
		{"/rows?limit=-1", 0, 0, 0, true},
		{"/rows?limit=5000", 0, 0, 0, true},
	}
	for _, tc := range tests {
		r := httptest.NewRequest("GET", tc.url, nil)
		got, err := ExtractPagination(r, 1000)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.url, err)
			continue
		}
		if got.Page != tc.wantPage || got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Errorf("%s: got %+v", tc.url, got)
		}
	}
}

func TestSetPaginationStats(t *testing.T) {
	p := PaginationParams{Page: 1, Limit: 1000}
	p.SetPaginationStats(2500)
	if p.TotalRecords != 2500 || p.TotalPages != 3 {
		t.Errorf("got %+v, want 2500 records / 3 pages", p)
	}
	p.SetPaginationStats(0)
	if p.TotalPages != 0 {
		t.Errorf("zero records should give zero pages, got %d", p.TotalPages)
	}
}
