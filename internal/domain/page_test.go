package domain

import (
	"math"
	"testing"
)

func TestNewPage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		items          int
		total          int
		req            PageRequest
		wantTotalPages int
		wantNext       bool
	}{
		{"first of several", 10, 25, PageRequest{Page: 1, Limit: 10}, 3, true},
		{"last full page", 10, 20, PageRequest{Page: 2, Limit: 10}, 2, false},
		{"short last page", 5, 25, PageRequest{Page: 3, Limit: 10}, 3, false},
		{"empty", 0, 0, PageRequest{Page: 1, Limit: 10}, 0, false},
		{"past the end", 0, 5, PageRequest{Page: 4, Limit: 3}, 2, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPage(make([]int, tc.items), tc.total, tc.req)

			if page.TotalRecords != tc.total {
				t.Errorf("expected total %d, got %d", tc.total, page.TotalRecords)
			}
			if page.TotalPages != tc.wantTotalPages {
				t.Errorf("expected %d pages, got %d", tc.wantTotalPages, page.TotalPages)
			}
			if page.HasNextPage != tc.wantNext {
				t.Errorf("expected hasNextPage %v, got %v", tc.wantNext, page.HasNextPage)
			}
			if page.Items == nil {
				t.Error("expected non-nil items")
			}
		})
	}
}

func TestPageRequest_Normalize(t *testing.T) {
	t.Parallel()

	got := PageRequest{Page: -1, Limit: 0}.Normalize(3)
	if got.Page != 1 || got.Limit != 3 {
		t.Errorf("expected defaults 1/3, got %d/%d", got.Page, got.Limit)
	}
	if off := (PageRequest{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Errorf("expected offset 20, got %d", off)
	}
}

func TestPageRequest_OffsetSaturates(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		req  PageRequest
		want int
	}{
		{"first page", PageRequest{Page: 1, Limit: 100}, 0},
		{"huge page", PageRequest{Page: 1 << 62, Limit: 100}, math.MaxInt - 100},
		{"huge limit", PageRequest{Page: 2, Limit: 1 << 62}, math.MaxInt - 1<<62},
		{"largest page", PageRequest{Page: math.MaxInt, Limit: math.MaxInt}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			off := tc.req.Offset()
			if off != tc.want {
				t.Errorf("expected offset %d, got %d", tc.want, off)
			}
			if off < 0 || off+tc.req.Limit < 0 {
				t.Errorf("offset %d overflows with limit %d", off, tc.req.Limit)
			}
		})
	}

	page := NewPage([]int{}, 5, PageRequest{Page: 1 << 62, Limit: math.MaxInt})
	if page.TotalPages != 1 || page.HasNextPage {
		t.Errorf("unexpected counters %+v", page)
	}
}

func TestTrip_CompleteOnlyFromActive(t *testing.T) {
	t.Parallel()

	trip := &Trip{Status: TripStatusActive}
	if !trip.Complete(trip.StartAt.AddDate(0, 0, 1)) {
		t.Fatal("expected ACTIVE trip to complete")
	}
	if trip.Status != TripStatusCompleted || trip.CompletedAt.IsZero() {
		t.Errorf("unexpected trip after completion: %+v", trip)
	}

	completedAt := trip.CompletedAt
	if trip.Complete(completedAt.AddDate(0, 0, 1)) {
		t.Error("expected COMPLETED trip to stay terminal")
	}
	if !trip.CompletedAt.Equal(completedAt) {
		t.Error("expected completedAt untouched")
	}
}

func TestPoint_Valid(t *testing.T) {
	t.Parallel()

	valid := []Point{{0, 0}, {-180, -90}, {180, 90}, {-66.9036, 10.5061}}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("expected %+v to be valid", p)
		}
	}

	invalid := []Point{{181, 0}, {0, -90.1}}
	for _, p := range invalid {
		if p.Valid() {
			t.Errorf("expected %+v to be invalid", p)
		}
	}
}
