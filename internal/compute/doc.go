// Package compute splits row-parallel work across CPU workers.
//
// Work handed to a [Pool] must write disjoint outputs per row, so the
// result does not depend on the number of workers:
//
//	pool := compute.NewPool(runtime.NumCPU())
//	pool.Rows(h, func(lo, hi int) {
//	    for y := lo; y < hi; y++ {
//	        // read the previous buffer, write row y of the next one
//	    }
//	})
package compute
