package core

import (
	"fmt"
)

func Fill[T any](c *Container[T], value T) {
	v := c.ViewWith(Unchecked)
	ParallelFor(c.exec, 0, c.Len(), func(i int) {
		v.Set(i, value)
	})
}

// Map sets every element of c to f(i)
func Map[T any](c *Container[T], f func(i int) T) {
	v := c.ViewWith(Unchecked)
	ParallelFor(c.exec, 0, c.Len(), func(i int) {
		v.Set(i, f(i))
	})
}

func Sum[T Number](c *Container[T]) T {
	v := c.ViewWith(Unchecked)
	return ParallelReduce(c.exec, 0, c.Len(), func(i int, acc *T) {
		*acc += v.At(i)
	}, SumReducer[T]())
}

// Equal compares two containers element by element on the host
func Equal[T comparable](a, b *Container[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	ha, hb := a.CopyToHost(), b.CopyToHost()
	defer ha.Free()
	defer hb.Free()
	for i, x := range ha.data {
		if hb.data[i] != x {
			return false
		}
	}
	return true
}

// SegmentsFromIntervals writes the exclusive scan of intervals into offsets,
// which must hold one more element: offsets[0] = 0 and offsets[i+1] is the sum
// of intervals[0..i]. The total is returned.
func SegmentsFromIntervals(intervals, offsets *Container[LocalIdx]) LocalIdx {
	if offsets.Len() != intervals.Len()+1 {
		panic(fmt.Sprintf("segments: offsets length %d, want %d", offsets.Len(), intervals.Len()+1))
	}
	assertSameExecutor("segments", intervals.exec, offsets.exec)
	var (
		in  = intervals.ViewWith(Unchecked)
		out = offsets.ViewWith(Unchecked)
	)
	// the head element is written by the host
	Fence(offsets.exec)
	out.Set(0, 0)
	return ParallelScan(offsets.exec, 0, intervals.Len(), func(i int, update *LocalIdx, final bool) {
		*update += in.At(i)
		if final {
			out.Set(i+1, *update)
		}
	})
}
