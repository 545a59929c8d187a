package compute

import (
	"sync/atomic"
	"testing"
)

func TestRowsCoversEveryRowOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
	}{
		{"serial", 1, 100},
		{"parallel", 4, 1000},
		{"more workers than chunks", 64, 40},
		{"uneven", 3, 97},
		{"empty", 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			NewPool(tt.workers).Rows(tt.n, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("row %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestNilPoolIsSerial(t *testing.T) {
	var p *Pool
	calls := 0
	p.Rows(500, func(lo, hi int) {
		calls++
		if lo != 0 || hi != 500 {
			t.Errorf("range = [%d, %d)", lo, hi)
		}
	})
	if calls != 1 || p.Workers() != 1 {
		t.Errorf("calls = %d, workers = %d", calls, p.Workers())
	}
}

func TestSmallJobsStaySerial(t *testing.T) {
	calls := 0
	NewPool(8).Rows(MinRowsPerWorker, func(lo, hi int) { calls++ })
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
