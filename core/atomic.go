package core

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// LocalIdx is the index type of all index containers
type LocalIdx = int32

// AtomicAdd adds delta to v[i]
func AtomicAdd(v View[LocalIdx], i int, delta LocalIdx) {
	if p := v.Ptr(i); p != nil {
		atomic.AddInt32(p, delta)
	}
}

// AtomicFetchAdd adds delta to v[i] and returns the previous value. A
// suppressed access returns -1.
func AtomicFetchAdd(v View[LocalIdx], i int, delta LocalIdx) LocalIdx {
	if p := v.Ptr(i); p != nil {
		return atomic.AddInt32(p, delta) - delta
	}
	return -1
}

func AtomicLoad(v View[LocalIdx], i int) LocalIdx {
	if p := v.Ptr(i); p != nil {
		return atomic.LoadInt32(p)
	}
	return 0
}

// AtomicAddScalar adds delta to v[i] with a compare and swap loop on the bit
// pattern. Used for scatter assembly where several faces update one entry.
func AtomicAddScalar[T Scalar](v View[T], i int, delta T) {
	p := v.Ptr(i)
	if p == nil {
		return
	}
	switch unsafe.Sizeof(*p) {
	case 8:
		addFloat64((*uint64)(unsafe.Pointer(p)), float64(delta))
	case 4:
		addFloat32((*uint32)(unsafe.Pointer(p)), float32(delta))
	}
}

func addFloat64(addr *uint64, delta float64) {
	for {
		old := atomic.LoadUint64(addr)
		updated := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(addr, old, updated) {
			return
		}
	}
}

func addFloat32(addr *uint32, delta float32) {
	for {
		old := atomic.LoadUint32(addr)
		updated := math.Float32bits(math.Float32frombits(old) + delta)
		if atomic.CompareAndSwapUint32(addr, old, updated) {
			return
		}
	}
}
