package compute

import (
	"runtime"
	"sync"
)

// MinRowsPerWorker keeps small jobs serial.
const MinRowsPerWorker = 16

// Pool runs row ranges on up to Workers goroutines and waits for all of
// them before returning. A nil Pool runs serially.
type Pool struct {
	workers int
}

// NewPool returns a pool of n workers; n <= 0 selects runtime.NumCPU().
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{workers: n}
}

func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Rows calls fn over consecutive chunks covering [0, n).
func (p *Pool) Rows(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := min(p.Workers(), n/MinRowsPerWorker)
	if workers <= 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(start, end)
	}
	wg.Wait()
}
