package core

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// BoundsPolicy selects what a View does with an out of range index
type BoundsPolicy uint8

const (
	Unchecked BoundsPolicy = iota // no policy check, the Go runtime check still applies
	Abort                         // panic at the first bad index
	Record                        // remember the lowest bad index and suppress the access
)

func (b BoundsPolicy) String() string {
	return [...]string{"Unchecked", "Abort", "Record"}[b]
}

func ParseBoundsPolicy(name string) (b BoundsPolicy, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unchecked", "off", "none":
		b = Unchecked
	case "abort", "panic":
		b = Abort
	case "record":
		b = Record
	default:
		err = fmt.Errorf("unknown bounds policy %q", name)
	}
	return
}

type boundsReport struct {
	first atomic.Pointer[int]
}

// record keeps the lowest index seen, so concurrent kernels report the same
// index on every run
func (r *boundsReport) record(i int) {
	idx := &i
	for {
		p := r.first.Load()
		if p != nil && *p <= i {
			return
		}
		if r.first.CompareAndSwap(p, idx) {
			return
		}
	}
}

// View is a non-owning window onto a buffer, usable inside kernels. It must
// not outlive the Container it was taken from. Copies of a View, and sub views,
// share one failure report.
type View[T any] struct {
	data   []T
	policy BoundsPolicy
	report *boundsReport
}

func NewView[T any](data []T, policy BoundsPolicy) View[T] {
	return View[T]{data: data, policy: policy, report: &boundsReport{}}
}

func (v View[T]) Len() int { return len(v.data) }

func (v View[T]) Policy() BoundsPolicy { return v.policy }

func (v View[T]) inBounds(i int) bool {
	if v.policy == Unchecked {
		return true
	}
	if i >= 0 && i < len(v.data) {
		return true
	}
	if v.policy == Abort {
		panic(fmt.Sprintf("view index %d out of range [0,%d)", i, len(v.data)))
	}
	v.report.record(i)
	return false
}

// At returns element i, or the zero value when a recorded violation suppresses it
func (v View[T]) At(i int) (x T) {
	if v.inBounds(i) {
		x = v.data[i]
	}
	return
}

func (v View[T]) Set(i int, x T) {
	if v.inBounds(i) {
		v.data[i] = x
	}
}

// Ptr returns the address of element i, nil when a recorded violation suppresses it
func (v View[T]) Ptr(i int) *T {
	if v.inBounds(i) {
		return &v.data[i]
	}
	return nil
}

// Sub returns the view of length elements starting at start. Sub views are
// built on the host so a bad range always panics.
func (v View[T]) Sub(start, length int) View[T] {
	if start < 0 || length < 0 || start+length > len(v.data) {
		panic(fmt.Sprintf("sub view [%d,%d) out of range [0,%d)", start, start+length, len(v.data)))
	}
	v.data = v.data[start : start+length : start+length]
	return v
}

func (v View[T]) SubFrom(start int) View[T] {
	return v.Sub(start, len(v.data)-start)
}

// Failure reports the lowest recorded out of range index. It must be called
// after the kernels using the view have completed.
func (v View[T]) Failure() (index int, failed bool) {
	if v.report == nil {
		return
	}
	if p := v.report.first.Load(); p != nil {
		return *p, true
	}
	return
}
